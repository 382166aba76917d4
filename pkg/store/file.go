package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/matzehuels/storyforge/pkg/document"
	"github.com/matzehuels/storyforge/pkg/story"
)

// FileStore keeps one JSON document per storyline in a directory. The file
// name is the storyline id plus ".json".
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates the directory if needed.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("file store: directory not set")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create storyline dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) storylinePath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Load(ctx context.Context, id string) (story.Storyline, error) {
	if err := checkID(id); err != nil {
		return story.Storyline{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.storylinePath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return story.Storyline{}, notFound(id)
		}
		return story.Storyline{}, fmt.Errorf("read storyline file: %w", err)
	}
	return document.Unmarshal(data)
}

func (s *FileStore) Save(ctx context.Context, st story.Storyline) error {
	if err := checkID(st.ID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := document.Export(s.storylinePath(st.ID), st); err != nil {
		return fmt.Errorf("write storyline file: %w", err)
	}
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]Summary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, fmt.Errorf("read storyline dir: %w", err)
	}

	out := make([]Summary, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		path := filepath.Join(s.baseDir, entry.Name())
		st, err := document.Import(path)
		if err != nil {
			// Foreign or half-written files are not storylines.
			continue
		}
		if st.ID != strings.TrimSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		out = append(out, summarize(st, info.ModTime()))
	}
	sortSummaries(out)
	return out, nil
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.storylinePath(id)); err != nil {
		if os.IsNotExist(err) {
			return notFound(id)
		}
		return fmt.Errorf("remove storyline file: %w", err)
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

// Path returns the base directory for storyline files.
func (s *FileStore) Path() string {
	return s.baseDir
}

var _ Store = (*FileStore)(nil)
