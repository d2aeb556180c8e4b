package user

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/authclient"
	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/session"
	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/user/entity"
)

const DefaultPageSize = 10

var (
	ErrInvalidRole = errors.New("role must be admin or user")
	ErrInvalidID   = errors.New("user id must be positive")
)

// UserService is the admin dashboard's user management panel. Every call is
// authorized by the API; the client only checks presence and shape.
type UserService struct {
	client *authclient.Client
	logger *zap.SugaredLogger
}

func NewUserService(c *authclient.Client, logger *zap.SugaredLogger) *UserService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &UserService{client: c, logger: logger}
}

// ListOptions filters the user listing. Zero values fall back to page 1 and
// DefaultPageSize.
type ListOptions struct {
	Page     int
	PageSize int
	Search   string
}

func (o ListOptions) query() string {
	q := url.Values{}
	page, size := o.Page, o.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(size))
	if s := strings.TrimSpace(o.Search); s != "" {
		q.Set("q", s)
	}
	return q.Encode()
}

// List returns one page of accounts.
func (s *UserService) List(ctx context.Context, opts ListOptions) (*authclient.Page[entity.User], error) {
	var page authclient.Page[entity.User]
	if err := s.client.DoJSON(ctx, http.MethodGet, "/users?"+opts.query(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// SetRole changes the role of user id.
func (s *UserService) SetRole(ctx context.Context, id int64, role string) (*entity.User, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	role = strings.ToLower(strings.TrimSpace(role))
	if role != session.RoleAdmin && role != session.RoleUser {
		return nil, ErrInvalidRole
	}
	var u entity.User
	path := fmt.Sprintf("/users/%d/role", id)
	if err := s.client.DoJSON(ctx, http.MethodPatch, path, map[string]string{"role": role}, &u); err != nil {
		return nil, err
	}
	s.logger.Infow("user role updated", "user_id", id, "role", role)
	return &u, nil
}

// SetApproved approves or revokes approval of user id.
func (s *UserService) SetApproved(ctx context.Context, id int64, approved bool) (*entity.User, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	var u entity.User
	path := fmt.Sprintf("/users/%d/approval", id)
	if err := s.client.DoJSON(ctx, http.MethodPatch, path, map[string]bool{"approved": approved}, &u); err != nil {
		return nil, err
	}
	s.logger.Infow("user approval updated", "user_id", id, "approved", approved)
	return &u, nil
}

// Delete removes user id.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}
	if err := s.client.DoJSON(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, nil); err != nil {
		return err
	}
	s.logger.Infow("user deleted", "user_id", id)
	return nil
}
