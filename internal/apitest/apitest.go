// Package apitest runs a fake Gada API for package tests. Routes are
// mounted per test on a chi router; every call is counted by route pattern.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
)

type Server struct {
	*httptest.Server
	Router chi.Router

	secret []byte
	mu     sync.Mutex
	calls  map[string]int
}

// New starts a server that is closed when t finishes.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{secret: []byte("apitest-secret"), calls: map[string]int{}}
	r := chi.NewRouter()
	r.Use(s.count)
	s.Router = r
	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		pattern := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			pattern = rc.RoutePattern()
		}
		s.mu.Lock()
		s.calls[r.Method+" "+pattern]++
		s.mu.Unlock()
	})
}

// Calls returns how often method+pattern was hit, e.g. Calls("POST", "/token").
func (s *Server) Calls(method, pattern string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method+" "+pattern]
}

// Token mints an HS256 access token the way the API does: sub, role, exp.
func (s *Server) Token(t testing.TB, sub, role string, ttl time.Duration) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"exp":  time.Now().Add(ttl).Unix(),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return tok
}

// Role verifies the bearer token of r and returns its role claim, or ""
// when the token is missing or invalid.
func (s *Server) Role(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if len(auth) < 8 || auth[:7] != "Bearer " {
		return ""
	}
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(auth[7:], claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected alg %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return ""
	}
	role, _ := claims["role"].(string)
	return role
}

// RequireAdmin answers 401/403 like the API when r is not an admin call.
// It reports whether the handler may go on.
func (s *Server) RequireAdmin(w http.ResponseWriter, r *http.Request) bool {
	switch s.Role(r) {
	case "admin":
		return true
	case "":
		Detail(w, http.StatusUnauthorized, "Could not validate credentials")
	default:
		Detail(w, http.StatusForbidden, "Admin privileges required")
	}
	return false
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Detail writes the API's error body.
func Detail(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]string{"detail": msg})
}
