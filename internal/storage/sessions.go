package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	interviewModel "github.com/insightwave/interviewer/backend/internal/model/interview"
)

// ErrNotFound marks a saved session that does not exist on disk.
var ErrNotFound = errors.New("saved session not found")

const (
	filePrefix = "session-"
	fileSuffix = ".json"
)

// SavedSession is the archived form: the full session plus export
// metadata.
type SavedSession struct {
	interviewModel.Session
	ExportedAt time.Time `json:"exportedAt"`
	Status     string    `json:"status"`
}

// Summary is the listing entry for a saved session.
type Summary struct {
	ID             string    `json:"id"`
	Topic          string    `json:"topic"`
	CreatedAt      time.Time `json:"createdAt"`
	ExportedAt     time.Time `json:"exportedAt"`
	TotalQuestions int       `json:"totalQuestions"`
	TotalInsights  int       `json:"totalInsights"`
	Filename       string    `json:"filename"`
}

// Archive persists completed interviews, one record per session id.
type Archive interface {
	Save(session SavedSession) (string, error)
	List() ([]Summary, error)
	Get(id string) (SavedSession, error)
	Delete(id string) error
}

// FileArchive stores sessions as pretty-printed JSON files under a
// directory, named session-<id>.json.
type FileArchive struct {
	dir string
}

// NewFileArchive ensures the directory exists.
func NewFileArchive(dir string) (*FileArchive, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	return &FileArchive{dir: dir}, nil
}

func (a *FileArchive) Save(session SavedSession) (string, error) {
	filename, err := filenameFor(session.ID)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode session %s: %w", session.ID, err)
	}
	if err := os.WriteFile(filepath.Join(a.dir, filename), data, 0o644); err != nil {
		return "", fmt.Errorf("write session %s: %w", session.ID, err)
	}
	return filename, nil
}

func (a *FileArchive) List() ([]Summary, error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		return nil, fmt.Errorf("read session dir: %w", err)
	}

	summaries := make([]Summary, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}

		session, err := a.read(name)
		if err != nil {
			// A corrupt file should not hide the rest of the archive.
			log.Printf("[storage] skipping unreadable session file %s: %v", name, err)
			continue
		}

		id := session.ID
		if id == "" {
			id = strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
		}
		createdAt := session.CreatedAt
		if createdAt.IsZero() {
			createdAt = session.ExportedAt
		}

		summaries = append(summaries, Summary{
			ID:             id,
			Topic:          session.Topic,
			CreatedAt:      createdAt,
			ExportedAt:     session.ExportedAt,
			TotalQuestions: len(session.Answers),
			TotalInsights:  len(session.Insights),
			Filename:       name,
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}

func (a *FileArchive) Get(id string) (SavedSession, error) {
	filename, err := filenameFor(id)
	if err != nil {
		return SavedSession{}, err
	}
	return a.read(filename)
}

func (a *FileArchive) Delete(id string) error {
	filename, err := filenameFor(id)
	if err != nil {
		return err
	}

	path := filepath.Join(a.dir, filename)
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("delete session %s: %w", id, err)
	}
	return nil
}

func (a *FileArchive) read(filename string) (SavedSession, error) {
	raw, err := os.ReadFile(filepath.Join(a.dir, filename))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return SavedSession{}, ErrNotFound
		}
		return SavedSession{}, fmt.Errorf("read session file %s: %w", filename, err)
	}

	var session SavedSession
	if err := json.Unmarshal(raw, &session); err != nil {
		return SavedSession{}, fmt.Errorf("decode session file %s: %w", filename, err)
	}
	return session, nil
}

// filenameFor derives the record name, rejecting ids that would escape
// the archive directory.
func filenameFor(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, "/\\") || strings.Contains(id, "..") {
		return "", fmt.Errorf("invalid session id %q", id)
	}
	return filePrefix + id + fileSuffix, nil
}
