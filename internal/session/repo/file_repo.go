package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultKey is the well-known key the bearer token is stored under.
const DefaultKey = "access_token"

// FileRepo stores the token in a small JSON document on disk, readable by
// the current user only.
type FileRepo struct {
	path string
	key  string
}

func NewFileRepo(path string) *FileRepo {
	return &FileRepo{path: path, key: DefaultKey}
}

func (r *FileRepo) Load(ctx context.Context) (string, bool, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read token file: %w", err)
	}
	doc := map[string]string{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return "", false, fmt.Errorf("parse token file: %w", err)
	}
	tok, ok := doc[r.key]
	return tok, ok, nil
}

func (r *FileRepo) Save(ctx context.Context, token string) error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	data, err := json.Marshal(map[string]string{r.key: token})
	if err != nil {
		return err
	}
	// write then rename so a crash never leaves a half-written file
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace token file: %w", err)
	}
	return nil
}

func (r *FileRepo) Delete(ctx context.Context) error {
	if err := os.Remove(r.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}
