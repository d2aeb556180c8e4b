package user

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/apitest"
	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/authclient"
	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/session"
	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/session/repo"
	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/user/entity"
)

func setup(t *testing.T, role string) (*UserService, *apitest.Server) {
	t.Helper()
	api := apitest.New(t)
	sess := session.New(repo.NewMemoryRepo(), nil)
	if role != "" {
		require.NoError(t, sess.SetToken(context.Background(), api.Token(t, "tester", role, time.Hour)))
	}
	c := authclient.New(api.URL, sess, nil)
	return NewUserService(c, nil), api
}

func TestListSendsPagingAndSearch(t *testing.T) {
	svc, api := setup(t, session.RoleAdmin)
	var query map[string]string
	api.Router.Get("/users", func(w http.ResponseWriter, r *http.Request) {
		if !api.RequireAdmin(w, r) {
			return
		}
		query = map[string]string{
			"page":      r.URL.Query().Get("page"),
			"page_size": r.URL.Query().Get("page_size"),
			"q":         r.URL.Query().Get("q"),
		}
		apitest.WriteJSON(w, http.StatusOK, map[string]any{
			"items":     []entity.User{{ID: 1, Username: "admin", Role: "admin", Approved: true}},
			"total":     11,
			"page":      2,
			"page_size": 10,
		})
	})

	page, err := svc.List(context.Background(), ListOptions{Page: 2, Search: " abebe "})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"page": "2", "page_size": "10", "q": "abebe"}, query)
	assert.Equal(t, 11, page.Total)
	assert.False(t, page.HasNext())
	require.Len(t, page.Items, 1)
	assert.Equal(t, "admin", page.Items[0].DisplayName())
}

func TestListAsUserSurfacesDetail(t *testing.T) {
	svc, api := setup(t, session.RoleUser)
	api.Router.Get("/users", func(w http.ResponseWriter, r *http.Request) {
		api.RequireAdmin(w, r)
	})

	_, err := svc.List(context.Background(), ListOptions{})
	require.ErrorIs(t, err, authclient.ErrForbidden)
	assert.Equal(t, "Admin privileges required", err.Error())
}

func TestSetRole(t *testing.T) {
	svc, api := setup(t, session.RoleAdmin)
	api.Router.Patch("/users/{id}/role", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		apitest.WriteJSON(w, http.StatusOK, entity.User{ID: 5, Username: chi.URLParam(r, "id"), Role: in["role"]})
	})

	u, err := svc.SetRole(context.Background(), 5, " Admin ")
	require.NoError(t, err)
	assert.Equal(t, "admin", u.Role)
	assert.Equal(t, "5", u.Username)

	_, err = svc.SetRole(context.Background(), 5, "owner")
	assert.ErrorIs(t, err, ErrInvalidRole)
	_, err = svc.SetRole(context.Background(), 0, "user")
	assert.ErrorIs(t, err, ErrInvalidID)
	assert.Equal(t, 1, api.Calls(http.MethodPatch, "/users/{id}/role"))
}

func TestSetApprovedAndDelete(t *testing.T) {
	svc, api := setup(t, session.RoleAdmin)
	api.Router.Patch("/users/{id}/approval", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]bool
		_ = json.NewDecoder(r.Body).Decode(&in)
		apitest.WriteJSON(w, http.StatusOK, entity.User{ID: 9, Approved: in["approved"]})
	})
	api.Router.Delete("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") != "9" {
			apitest.Detail(w, http.StatusNotFound, "User not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	u, err := svc.SetApproved(context.Background(), 9, true)
	require.NoError(t, err)
	assert.True(t, u.Approved)

	require.NoError(t, svc.Delete(context.Background(), 9))
	err = svc.Delete(context.Background(), 10)
	assert.ErrorIs(t, err, authclient.ErrNotFound)
	assert.Equal(t, "User not found", err.Error())
}
