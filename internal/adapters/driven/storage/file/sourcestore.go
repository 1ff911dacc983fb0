package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/lexwatch/internal/core/domain"
	"github.com/custodia-labs/lexwatch/internal/core/ports/driven"
	"github.com/custodia-labs/lexwatch/internal/logger"
)

// Ensure SourceStore implements the interface.
var _ driven.SourceStore = (*SourceStore)(nil)

// SourceStore persists tracked origins as a newline-delimited text file,
// one URL per line in insertion order. Blank lines and surrounding
// whitespace are tolerated on read so the file stays hand-editable.
type SourceStore struct {
	mu   sync.Mutex
	path string
}

// NewSourceStore creates a source store backed by the file at path.
// The parent directory is created if missing; the file itself is created
// lazily on the first append.
func NewSourceStore(path string) (*SourceStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create source dir: %w", err)
	}
	return &SourceStore{path: path}, nil
}

// Append adds a URL to the end of the list.
func (s *SourceStore) Append(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open source file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(url + "\n"); err != nil {
		return fmt.Errorf("append source: %w", err)
	}
	return nil
}

// Remove deletes a URL from the list, rewriting the file atomically.
func (s *SourceStore) Remove(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	urls, err := s.read()
	if err != nil {
		return err
	}

	kept := urls[:0]
	found := false
	for _, u := range urls {
		if u == url {
			found = true
			continue
		}
		kept = append(kept, u)
	}
	if !found {
		return domain.ErrNotFound
	}

	return s.rewrite(kept)
}

// List returns all tracked URLs in insertion order.
func (s *SourceStore) List(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Watch invokes onChange whenever the source file is modified on disk,
// until the context is cancelled. External edits (an operator adding a
// line with a text editor) are picked up on the next poll this way.
func (s *SourceStore) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	// Watch the directory: editors replace files via rename, which drops
	// a watch on the file itself.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("watch source dir: %w", err)
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != s.path {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
					logger.Debug("Source file changed on disk: %s", event.Op)
					onChange()
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Source watch error: %v", err)
			}
		}
	}()

	return nil
}

// Path returns the source file path.
func (s *SourceStore) Path() string {
	return s.path
}

// read loads the file (caller must hold the lock).
func (s *SourceStore) read() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read source file: %w", err)
	}

	var urls []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			urls = append(urls, line)
		}
	}
	return urls, nil
}

// rewrite replaces the file contents via temp file and rename so a crash
// mid-write never loses the list (caller must hold the lock).
func (s *SourceStore) rewrite(urls []string) error {
	var sb strings.Builder
	for _, u := range urls {
		sb.WriteString(u)
		sb.WriteByte('\n')
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(sb.String()), 0600); err != nil {
		return fmt.Errorf("write source file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace source file: %w", err)
	}
	return nil
}
