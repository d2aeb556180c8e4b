package auth

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/apitest"
)

func TestRegister(t *testing.T) {
	f := setup(t)
	var got map[string]string
	f.api.Router.Post("/register", func(w http.ResponseWriter, r *http.Request) {
		got = decode(t, r)
		apitest.WriteJSON(w, http.StatusOK, map[string]any{"id": 3, "username": got["username"], "role": got["role"]})
	})

	u, err := f.ctl.Register(context.Background(), Registration{
		Username: "chaltu", Email: "chaltu@example.com", Password: "pw", ConfirmPassword: "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), u.ID)
	assert.Equal(t, map[string]string{
		"username": "chaltu", "email": "chaltu@example.com", "password": "pw", "role": "user",
	}, got)
}

func TestRegisterValidation(t *testing.T) {
	f := setup(t)
	cases := []struct {
		name string
		reg  Registration
		want error
	}{
		{"mismatch", Registration{Username: "a", Email: "a@b.c", Password: "x", ConfirmPassword: "y"}, ErrPasswordMismatch},
		{"no username", Registration{Email: "a@b.c", Password: "x", ConfirmPassword: "x"}, ErrMissingField},
		{"no email", Registration{Username: "a", Password: "x", ConfirmPassword: "x"}, ErrMissingField},
		{"no password", Registration{Username: "a", Email: "a@b.c"}, ErrMissingField},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.ctl.Register(context.Background(), tc.reg)
			assert.ErrorIs(t, err, tc.want)
		})
	}
	assert.Zero(t, f.api.Calls(http.MethodPost, "/register"))
}

func TestRegisterConflict(t *testing.T) {
	f := setup(t)
	f.api.Router.Post("/register", func(w http.ResponseWriter, r *http.Request) {
		apitest.Detail(w, http.StatusBadRequest, "Username already registered")
	})
	_, err := f.ctl.Register(context.Background(), Registration{Username: "a", Email: "a@b.c", Password: "x", ConfirmPassword: "x"})
	assert.EqualError(t, err, "Username already registered")
}

func TestVerifyEmail(t *testing.T) {
	f := setup(t)
	var got map[string]string
	f.api.Router.Post("/email/verify", func(w http.ResponseWriter, r *http.Request) {
		got = decode(t, r)
		apitest.WriteJSON(w, http.StatusOK, map[string]string{"detail": "Email verified"})
	})

	msg, err := f.ctl.VerifyEmail(context.Background(), Verification{Code: "123 456", Username: "chaltu"})
	require.NoError(t, err)
	assert.Equal(t, "Email verified", msg.Detail)
	assert.Equal(t, map[string]string{"token": "123456", "username": "chaltu"}, got)

	for _, code := range []string{"", "12345", "1234567", "abcdef"} {
		_, err := f.ctl.VerifyEmail(context.Background(), Verification{Code: code})
		assert.ErrorIs(t, err, ErrInvalidCode, code)
	}
	assert.Equal(t, 1, f.api.Calls(http.MethodPost, "/email/verify"))
}

func TestSendVerification(t *testing.T) {
	f := setup(t)
	f.api.Router.Post("/email/send-verification-login", func(w http.ResponseWriter, r *http.Request) {
		body := decode(t, r)
		assert.Equal(t, "chaltu", body["username"])
		apitest.WriteJSON(w, http.StatusOK, map[string]string{"detail": "Verification email sent", "token": "654321"})
	})
	msg, err := f.ctl.SendVerification(context.Background(), "chaltu", "pw")
	require.NoError(t, err)
	assert.Equal(t, "654321", msg.Token)

	_, err = f.ctl.SendVerification(context.Background(), "chaltu", "")
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestPasswordReset(t *testing.T) {
	f := setup(t)
	f.api.Router.Post("/password/reset-request", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "a@b.c", decode(t, r)["email"])
		w.WriteHeader(http.StatusNoContent)
	})
	var performed map[string]string
	f.api.Router.Post("/password/reset-perform", func(w http.ResponseWriter, r *http.Request) {
		performed = decode(t, r)
		if performed["token"] != "tok" {
			apitest.Detail(w, http.StatusBadRequest, "Invalid or expired token")
			return
		}
		apitest.WriteJSON(w, http.StatusOK, map[string]string{"detail": "Password updated"})
	})

	msg, err := f.ctl.RequestPasswordReset(context.Background(), " a@b.c ")
	require.NoError(t, err)
	assert.Equal(t, "If that email exists, a reset was created.", msg.Detail)
	_, err = f.ctl.RequestPasswordReset(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingEmail)

	_, err = f.ctl.ResetPassword(context.Background(), "tok", "new", "other")
	assert.ErrorIs(t, err, ErrPasswordMismatch)
	_, err = f.ctl.ResetPassword(context.Background(), " ", "new", "new")
	assert.ErrorIs(t, err, ErrMissingToken)

	msg, err = f.ctl.ResetPassword(context.Background(), "tok", "new", "new")
	require.NoError(t, err)
	assert.Equal(t, "Password updated", msg.Detail)
	assert.Equal(t, map[string]string{"token": "tok", "new_password": "new"}, performed)

	_, err = f.ctl.ResetPassword(context.Background(), "stale", "new", "new")
	assert.EqualError(t, err, "Invalid or expired token")
}
