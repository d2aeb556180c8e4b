package entity

import (
	"regexp"
	"strings"
)

// Post statuses. Only published posts are visible to the public feed.
const (
	StatusDraft     = "draft"
	StatusScheduled = "scheduled"
	StatusPublished = "published"
	StatusArchived  = "archived"
)

// ValidStatus reports whether s is a post status the API accepts.
func ValidStatus(s string) bool {
	switch s {
	case StatusDraft, StatusScheduled, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// Post is a news item. Date is the display date chosen by the editor;
// CreatedAt and PublishAt are server timestamps kept as sent.
type Post struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Date          string `json:"date"`
	Details       string `json:"details"`
	Image         string `json:"image"`
	Status        string `json:"status,omitempty"`
	PublishAt     string `json:"publish_at,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
	LikesCount    int    `json:"likes_count"`
	CommentsCount int    `json:"comments_count"`
}

var imageSep = regexp.MustCompile(`[;,\s]+`)

// Images splits the image field, which may hold several references, and
// resolves paths under /uploads/ against the API base.
func (p *Post) Images(apiBase string) []string {
	var out []string
	for _, s := range imageSep.Split(p.Image, -1) {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if strings.HasPrefix(s, "/uploads/") {
			s = strings.TrimRight(apiBase, "/") + s
		}
		out = append(out, s)
	}
	return out
}

// Comment is a reader comment on a post.
type Comment struct {
	ID        int64  `json:"id"`
	PostID    int64  `json:"post_id"`
	UserID    int64  `json:"user_id"`
	Username  string `json:"username,omitempty"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at,omitempty"`
}

// LikeStatus is the caller's like on a post plus the post's total.
type LikeStatus struct {
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

// TaskResult is the answer of a maintenance task trigger.
type TaskResult struct {
	Published int    `json:"published,omitempty"`
	Updated   int    `json:"updated,omitempty"`
	Detail    string `json:"detail,omitempty"`
}
