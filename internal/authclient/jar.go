package authclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// NewMemoryJar returns a cookie jar that lives as long as the process.
func NewMemoryJar() http.CookieJar {
	jar, _ := cookiejar.New(nil)
	return jar
}

// FileJar is a cookie jar whose cookies survive process restarts. It
// plays the part of the browser's cookie storage, where the server keeps
// the HTTP-only refresh credential. It is separate from the token store.
type FileJar struct {
	mu      sync.Mutex
	inner   *cookiejar.Jar
	path    string
	entries map[string]jarEntry
	now     func() time.Time
}

type jarEntry struct {
	URL    string       `json:"url"`
	Cookie *http.Cookie `json:"cookie"`
}

// NewFileJar loads the jar at path. A missing file gives an empty jar.
func NewFileJar(path string) (*FileJar, error) {
	inner, _ := cookiejar.New(nil)
	j := &FileJar{inner: inner, path: path, entries: map[string]jarEntry{}, now: time.Now}
	if err := j.load(); err != nil {
		return nil, err
	}
	return j, nil
}

// Cookies and SetCookies hold mu because Clear swaps inner.
func (j *FileJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.inner.Cookies(u)
}

func (j *FileJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.inner.SetCookies(u, cookies)
	now := j.now()
	for _, c := range cookies {
		key := entryKey(u, c)
		if c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(now)) {
			delete(j.entries, key)
			continue
		}
		cp := *c
		if cp.MaxAge > 0 {
			cp.Expires = now.Add(time.Duration(cp.MaxAge) * time.Second)
			cp.MaxAge = 0
		}
		cp.Raw = ""
		cp.Unparsed = nil
		j.entries[key] = jarEntry{URL: u.Scheme + "://" + u.Host + "/", Cookie: &cp}
	}
	// on a write failure the in-memory jar still serves this process
	_ = j.save()
}

// Clear forgets every cookie, in memory and on disk.
func (j *FileJar) Clear() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.inner, _ = cookiejar.New(nil)
	j.entries = map[string]jarEntry{}
	if err := os.Remove(j.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func entryKey(u *url.URL, c *http.Cookie) string {
	domain := c.Domain
	if domain == "" {
		domain = u.Hostname()
	}
	return domain + "|" + c.Path + "|" + c.Name
}

func (j *FileJar) load() error {
	data, err := os.ReadFile(j.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read cookie file: %w", err)
	}
	var entries []jarEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse cookie file: %w", err)
	}
	now := j.now()
	for _, e := range entries {
		if e.Cookie == nil || (!e.Cookie.Expires.IsZero() && e.Cookie.Expires.Before(now)) {
			continue
		}
		u, err := url.Parse(e.URL)
		if err != nil {
			continue
		}
		j.inner.SetCookies(u, []*http.Cookie{e.Cookie})
		j.entries[entryKey(u, e.Cookie)] = e
	}
	return nil
}

func (j *FileJar) save() error {
	entries := make([]jarEntry, 0, len(j.entries))
	for _, e := range j.entries {
		entries = append(entries, e)
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(j.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(j.path, data, 0o600)
}
