package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const profilePrefix = "chrome-user-data-"

// ProfileDir is a browser user data directory owned by one session. Sharing
// one between live browsers makes the second launch fail, so every session
// gets a fresh one.
type ProfileDir struct {
	Path string
}

// NewProfileDir - creates a uniquely named profile directory under root
// (os.TempDir() when root is empty)
func NewProfileDir(root string) (*ProfileDir, error) {
	if root == "" {
		root = os.TempDir()
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create profile root: %w", err)
	}

	path := filepath.Join(root, profilePrefix+uuid.NewString())
	if err := os.Mkdir(path, 0700); err != nil {
		return nil, fmt.Errorf("failed to create profile directory: %w", err)
	}
	return &ProfileDir{Path: path}, nil
}

// Remove - deletes the directory; safe to call more than once
func (p *ProfileDir) Remove() error {
	if p == nil || p.Path == "" {
		return nil
	}
	if err := os.RemoveAll(p.Path); err != nil {
		return fmt.Errorf("failed to remove profile directory: %w", err)
	}
	return nil
}
