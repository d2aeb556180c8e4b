package news

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/authclient"
	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/news/entity"
)

const (
	DefaultPageSize = 6

	// UploadPath receives post images as multipart field "file".
	UploadPath = "/upload-image"
)

var (
	ErrMissingField     = errors.New("title, date and details are required")
	ErrInvalidStatus    = errors.New("status must be draft, scheduled, published or archived")
	ErrPublishAtMissing = errors.New("a scheduled post needs a publish time")
	ErrEmptyComment     = errors.New("comment is empty")
	ErrInvalidID        = errors.New("id must be positive")
	ErrImageType        = errors.New("image must be jpg, jpeg, png, gif or webp")
)

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// Service talks to the post, comment, like and task endpoints.
type Service struct {
	client *authclient.Client
	logger *zap.SugaredLogger
}

func NewService(c *authclient.Client, logger *zap.SugaredLogger) *Service {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Service{client: c, logger: logger}
}

// ListOptions filters the post feed. Status is honoured for admins only;
// the API restricts everyone else to published posts.
type ListOptions struct {
	Page     int
	PageSize int
	Search   string
	Status   string
}

func pageQuery(page, size int) url.Values {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(size))
	return q
}

// List returns one page of the feed.
func (s *Service) List(ctx context.Context, opts ListOptions) (*authclient.Page[entity.Post], error) {
	q := pageQuery(opts.Page, opts.PageSize)
	if v := strings.TrimSpace(opts.Search); v != "" {
		q.Set("q", v)
	}
	if opts.Status != "" {
		if !entity.ValidStatus(opts.Status) {
			return nil, ErrInvalidStatus
		}
		q.Set("status", opts.Status)
	}
	var page authclient.Page[entity.Post]
	if err := s.client.DoJSON(ctx, http.MethodGet, "/posts?"+q.Encode(), nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get returns post id.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Post, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	var p entity.Post
	if err := s.client.DoJSON(ctx, http.MethodGet, fmt.Sprintf("/posts/%d", id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// PostInput is the body of create and update calls.
type PostInput struct {
	Title     string     `json:"title"`
	Date      string     `json:"date"`
	Details   string     `json:"details"`
	Image     string     `json:"image"`
	Status    string     `json:"status,omitempty"`
	PublishAt *time.Time `json:"publish_at,omitempty"`
}

func (in *PostInput) validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Date = strings.TrimSpace(in.Date)
	in.Image = strings.TrimSpace(in.Image)
	if in.Title == "" || in.Date == "" || strings.TrimSpace(in.Details) == "" {
		return ErrMissingField
	}
	if in.Status != "" && !entity.ValidStatus(in.Status) {
		return ErrInvalidStatus
	}
	if in.Status == entity.StatusScheduled && in.PublishAt == nil {
		return ErrPublishAtMissing
	}
	return nil
}

// Create adds a post. Without a status the API files it as a draft.
func (s *Service) Create(ctx context.Context, in PostInput) (*entity.Post, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var p entity.Post
	if err := s.client.DoJSON(ctx, http.MethodPost, "/posts", in, &p); err != nil {
		return nil, err
	}
	s.logger.Infow("post created", "post_id", p.ID, "status", p.Status)
	return &p, nil
}

// Update replaces the editable fields of post id.
func (s *Service) Update(ctx context.Context, id int64, in PostInput) (*entity.Post, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	if err := in.validate(); err != nil {
		return nil, err
	}
	var p entity.Post
	if err := s.client.DoJSON(ctx, http.MethodPut, fmt.Sprintf("/posts/%d", id), in, &p); err != nil {
		return nil, err
	}
	s.logger.Infow("post updated", "post_id", id)
	return &p, nil
}

// SetStatus moves post id to status. publishAt is required for scheduled
// and ignored otherwise. The API rejects transitions it does not allow.
func (s *Service) SetStatus(ctx context.Context, id int64, status string, publishAt *time.Time) (*entity.Post, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	if !entity.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	body := map[string]any{"status": status}
	if status == entity.StatusScheduled {
		if publishAt == nil {
			return nil, ErrPublishAtMissing
		}
		body["publish_at"] = publishAt.UTC().Format(time.RFC3339)
	}
	var p entity.Post
	if err := s.client.DoJSON(ctx, http.MethodPatch, fmt.Sprintf("/posts/%d/status", id), body, &p); err != nil {
		return nil, err
	}
	s.logger.Infow("post status changed", "post_id", id, "status", status)
	return &p, nil
}

// Delete removes post id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}
	if err := s.client.DoJSON(ctx, http.MethodDelete, fmt.Sprintf("/posts/%d", id), nil, nil); err != nil {
		return err
	}
	s.logger.Infow("post deleted", "post_id", id)
	return nil
}

// UploadImage sends an image and returns the URL the API stored it under,
// ready to go into PostInput.Image.
func (s *Service) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	ct, ok := imageTypes[strings.ToLower(filepath.Ext(filename))]
	if !ok {
		return "", ErrImageType
	}
	req, err := s.client.NewMultipartRequest(ctx, UploadPath, nil, &authclient.FilePart{
		Field:       "file",
		FileName:    filepath.Base(filename),
		ContentType: ct,
		Body:        r,
	})
	if err != nil {
		return "", err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload image: %w", err)
	}
	var out struct {
		URL      string `json:"url"`
		Filename string `json:"filename"`
	}
	if err := authclient.DecodeResponse(resp, &out); err != nil {
		return "", err
	}
	if out.URL == "" && out.Filename != "" {
		out.URL = "/uploads/" + out.Filename
	}
	return out.URL, nil
}

// Comments returns one page of comments on post postID.
func (s *Service) Comments(ctx context.Context, postID int64, page, pageSize int) (*authclient.Page[entity.Comment], error) {
	if postID <= 0 {
		return nil, ErrInvalidID
	}
	q := pageQuery(page, pageSize)
	var out authclient.Page[entity.Comment]
	path := fmt.Sprintf("/posts/%d/comments?%s", postID, q.Encode())
	if err := s.client.DoJSON(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddComment posts content as the logged-in user.
func (s *Service) AddComment(ctx context.Context, postID int64, content string) (*entity.Comment, error) {
	if postID <= 0 {
		return nil, ErrInvalidID
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyComment
	}
	var c entity.Comment
	path := fmt.Sprintf("/posts/%d/comments", postID)
	if err := s.client.DoJSON(ctx, http.MethodPost, path, map[string]string{"content": content}, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteComment removes comment id. Authors may delete their own comments,
// admins any comment.
func (s *Service) DeleteComment(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}
	return s.client.DoJSON(ctx, http.MethodDelete, fmt.Sprintf("/comments/%d", id), nil, nil)
}

// LikeStatus reports whether the caller likes post postID.
func (s *Service) LikeStatus(ctx context.Context, postID int64) (*entity.LikeStatus, error) {
	if postID <= 0 {
		return nil, ErrInvalidID
	}
	var ls entity.LikeStatus
	if err := s.client.DoJSON(ctx, http.MethodGet, fmt.Sprintf("/posts/%d/like", postID), nil, &ls); err != nil {
		return nil, err
	}
	return &ls, nil
}

// ToggleLike likes or unlikes post postID and returns the new status.
func (s *Service) ToggleLike(ctx context.Context, postID int64) (*entity.LikeStatus, error) {
	if postID <= 0 {
		return nil, ErrInvalidID
	}
	var ls entity.LikeStatus
	if err := s.client.DoJSON(ctx, http.MethodPost, fmt.Sprintf("/posts/%d/like", postID), nil, &ls); err != nil {
		return nil, err
	}
	return &ls, nil
}

// PublishScheduled asks the API to publish scheduled posts that are due.
func (s *Service) PublishScheduled(ctx context.Context) (*entity.TaskResult, error) {
	return s.task(ctx, "/tasks/publish-scheduled")
}

// BackfillStatus asks the API to give every post without a status one.
func (s *Service) BackfillStatus(ctx context.Context) (*entity.TaskResult, error) {
	return s.task(ctx, "/tasks/backfill-status")
}

func (s *Service) task(ctx context.Context, path string) (*entity.TaskResult, error) {
	var out entity.TaskResult
	if err := s.client.DoJSON(ctx, http.MethodPost, path, nil, &out); err != nil {
		return nil, err
	}
	s.logger.Infow("task triggered", "task", path, "published", out.Published, "updated", out.Updated)
	return &out, nil
}
