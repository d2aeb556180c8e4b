package auth

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/session"
	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/user/entity"
)

var (
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrMissingField     = errors.New("username, email and password are required")
	ErrInvalidCode      = errors.New("please enter the 6-digit code")
	ErrMissingEmail     = errors.New("email is required")
	ErrMissingToken     = errors.New("token is required")
)

var nonDigit = regexp.MustCompile(`\D`)

// Registration is the sign-up form.
type Registration struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"-"`
	Role            string `json:"role"`
}

// Register creates an account. New accounts get the user role unless the
// caller says otherwise; the API decides whether to honour it.
func (c *Controller) Register(ctx context.Context, reg Registration) (*entity.User, error) {
	reg.Username = strings.TrimSpace(reg.Username)
	reg.Email = strings.TrimSpace(reg.Email)
	if reg.Password != reg.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if reg.Username == "" || reg.Email == "" || reg.Password == "" {
		return nil, ErrMissingField
	}
	if reg.Role == "" {
		reg.Role = session.RoleUser
	}
	var u entity.User
	if err := c.client.DoJSON(ctx, http.MethodPost, "/register", reg, &u); err != nil {
		return nil, err
	}
	c.logger.Infow("registered", "username", u.Username, "user_id", u.ID)
	return &u, nil
}

// Message is the body of the account flow endpoints. Token is filled by
// development servers that hand the emailed token back directly.
type Message struct {
	Detail string `json:"detail"`
	Token  string `json:"token,omitempty"`
}

// SendVerification asks for a new verification email for an account that
// cannot log in yet because its email is unverified.
func (c *Controller) SendVerification(ctx context.Context, username, password string) (*Message, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}
	var out Message
	body := map[string]string{"username": username, "password": password}
	if err := c.client.DoJSON(ctx, http.MethodPost, "/email/send-verification-login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Verification is the email verification form. Username and Email are
// optional hints for the API.
type Verification struct {
	Code     string
	Username string
	Email    string
}

// VerifyEmail submits the 6-digit code. Non-digits are dropped first so a
// pasted "123 456" works.
func (c *Controller) VerifyEmail(ctx context.Context, v Verification) (*Message, error) {
	code := nonDigit.ReplaceAllString(v.Code, "")
	if len(code) != 6 {
		return nil, ErrInvalidCode
	}
	body := map[string]string{"token": code}
	if u := strings.TrimSpace(v.Username); u != "" {
		body["username"] = u
	}
	if e := strings.TrimSpace(v.Email); e != "" {
		body["email"] = e
	}
	out := Message{Detail: "Verified"}
	if err := c.client.DoJSON(ctx, http.MethodPost, "/email/verify", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RequestPasswordReset starts the reset flow. The API answers the same way
// whether or not the address exists.
func (c *Controller) RequestPasswordReset(ctx context.Context, email string) (*Message, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrMissingEmail
	}
	out := Message{Detail: "If that email exists, a reset was created."}
	if err := c.client.DoJSON(ctx, http.MethodPost, "/password/reset-request", map[string]string{"email": email}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetPassword sets a new password using the emailed token.
func (c *Controller) ResetPassword(ctx context.Context, token, password, confirm string) (*Message, error) {
	if password != confirm {
		return nil, ErrPasswordMismatch
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingToken
	}
	out := Message{Detail: "Password reset successful"}
	body := map[string]string{"token": token, "new_password": password}
	if err := c.client.DoJSON(ctx, http.MethodPost, "/password/reset-perform", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
