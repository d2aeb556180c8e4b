package proposal

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/authclient"
	"github.com/Bini-2002/Gada-ecnomic-zone-website/internal/proposal/entity"
)

const (
	// MaxFileSize is the largest proposal PDF the portal accepts.
	MaxFileSize = 15 << 20

	DefaultPageSize = 10
)

var (
	ErrMissingField      = errors.New("all fields are required")
	ErrInvalidEmail      = errors.New("please enter a valid email")
	ErrInvalidPhone      = errors.New("please enter a valid phone number")
	ErrMissingFile       = errors.New("please attach your proposal PDF")
	ErrNotPDF            = errors.New("please upload a PDF file")
	ErrFileTooLarge      = fmt.Errorf("file too large, max %dMB", MaxFileSize>>20)
	ErrPortalUnavailable = errors.New("submission service is not available yet, please try again later")
	ErrInvalidStatus     = errors.New("status must be submitted, under_review, approved or rejected")
	ErrInvalidID         = errors.New("proposal id must be positive")
)

var (
	emailRe = regexp.MustCompile(`.+@.+\..+`)
	phoneRe = regexp.MustCompile(`^[+]?\d[\d\s-]{6,}$`)
)

// Submission is what an investor fills in on the portal.
type Submission struct {
	Name   string
	Email  string
	Sector string
	Phone  string

	FileName string
	// Size is the file size when known; zero skips the early size check.
	Size int64
	File io.Reader
}

// Validate runs the portal's checks without touching the network.
func (s *Submission) Validate() error {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.Sector = strings.TrimSpace(s.Sector)
	s.Phone = strings.TrimSpace(s.Phone)
	if s.Name == "" || s.Email == "" || s.Sector == "" || s.Phone == "" {
		return ErrMissingField
	}
	if !emailRe.MatchString(s.Email) {
		return ErrInvalidEmail
	}
	if !phoneRe.MatchString(s.Phone) {
		return ErrInvalidPhone
	}
	if s.File == nil {
		return ErrMissingFile
	}
	if s.Size > MaxFileSize {
		return ErrFileTooLarge
	}
	return nil
}

// Service submits proposals and serves the admin review panel.
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

// Submit validates sub and posts it as multipart form. The portal is
// public, so no bearer token is sent.
func (s *Service) Submit(ctx context.Context, sub Submission) error {
	if err := sub.Validate(); err != nil {
		return err
	}
	file, err := readPDF(sub.File)
	if err != nil {
		return err
	}
	name := filepath.Base(sub.FileName)
	if name == "." || name == string(filepath.Separator) {
		name = "proposal.pdf"
	}

	req, err := s.client.NewMultipartRequest(ctx, "/investor-proposals", []authclient.Field{
		{Name: "name", Value: sub.Name},
		{Name: "email", Value: sub.Email},
		{Name: "sector", Value: sub.Sector},
		{Name: "phone", Value: sub.Phone},
	}, &authclient.FilePart{Field: "proposal", FileName: name, ContentType: "application/pdf", Body: file})
	if err != nil {
		return err
	}
	resp, err := s.client.DoPublic(req)
	if err != nil {
		return fmt.Errorf("submit proposal: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return ErrPortalUnavailable
	}
	if err := authclient.DecodeResponse(resp, nil); err != nil {
		return err
	}
	s.logger.Infow("proposal submitted", "sector", sub.Sector)
	return nil
}

// readPDF checks the %PDF- signature and the size limit while keeping the
// content readable.
func readPDF(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(io.LimitReader(r, MaxFileSize+1))
	head, _ := br.Peek(5)
	if string(head) != "%PDF-" {
		return nil, ErrNotPDF
	}
	data, err := io.ReadAll(br)
	if err != nil {
		return nil, fmt.Errorf("read proposal: %w", err)
	}
	if len(data) > MaxFileSize {
		return nil, ErrFileTooLarge
	}
	return bytes.NewReader(data), nil
}

// ListOptions filters the admin listing.
type ListOptions struct {
	Page     int
	PageSize int
	Status   string
}

// List returns one page of proposals.
func (s *Service) List(ctx context.Context, opts ListOptions) (*authclient.Page[entity.Proposal], error) {
	page, size := opts.Page, opts.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(size))
	if opts.Status != "" {
		if !entity.ValidStatus(opts.Status) {
			return nil, ErrInvalidStatus
		}
		q.Set("status", opts.Status)
	}
	var out authclient.Page[entity.Proposal]
	if err := s.client.DoJSON(ctx, http.MethodGet, "/investor-proposals?"+q.Encode(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetStatus records the review decision for proposal id.
func (s *Service) SetStatus(ctx context.Context, id int64, status string) (*entity.Proposal, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	if !entity.ValidStatus(status) {
		return nil, ErrInvalidStatus
	}
	var p entity.Proposal
	path := fmt.Sprintf("/investor-proposals/%d/status", id)
	if err := s.client.DoJSON(ctx, http.MethodPatch, path, map[string]string{"status": status}, &p); err != nil {
		return nil, err
	}
	s.logger.Infow("proposal status changed", "proposal_id", id, "status", status)
	return &p, nil
}
