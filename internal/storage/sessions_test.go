package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	interviewModel "github.com/insightwave/interviewer/backend/internal/model/interview"
)

func newArchive(t *testing.T) *FileArchive {
	t.Helper()
	archive, err := NewFileArchive(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileArchive: %v", err)
	}
	return archive
}

func sample(id string, createdAt time.Time) SavedSession {
	return SavedSession{
		Session: interviewModel.Session{
			ID:        id,
			Topic:     "น้ำยาล้างจาน",
			CreatedAt: createdAt,
			Answers: []interviewModel.Answer{
				{Question: "q1", Answer: "a1"},
			},
		},
		ExportedAt: time.Now().UTC(),
		Status:     "completed",
	}
}

func TestFileArchiveSaveAndGet(t *testing.T) {
	archive := newArchive(t)

	filename, err := archive.Save(sample("abc", time.Now().UTC()))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filename != "session-abc.json" {
		t.Fatalf("unexpected filename %q", filename)
	}

	got, err := archive.Get("abc")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.ID != "abc" || got.Status != "completed" || len(got.Answers) != 1 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestFileArchiveGetMissing(t *testing.T) {
	archive := newArchive(t)
	if _, err := archive.Get("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestFileArchiveListNewestFirst(t *testing.T) {
	archive := newArchive(t)

	older := sample("older", time.Now().Add(-time.Hour))
	newer := sample("newer", time.Now())
	if _, err := archive.Save(older); err != nil {
		t.Fatalf("Save older: %v", err)
	}
	if _, err := archive.Save(newer); err != nil {
		t.Fatalf("Save newer: %v", err)
	}

	summaries, err := archive.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("expected 2 summaries, got %d", len(summaries))
	}
	if summaries[0].ID != "newer" || summaries[1].ID != "older" {
		t.Fatalf("unexpected order: %s, %s", summaries[0].ID, summaries[1].ID)
	}
	if summaries[0].TotalQuestions != 1 {
		t.Fatalf("unexpected question count: %d", summaries[0].TotalQuestions)
	}
}

func TestFileArchiveListSkipsCorruptFiles(t *testing.T) {
	archive := newArchive(t)
	if _, err := archive.Save(sample("good", time.Now())); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := os.WriteFile(filepath.Join(archive.dir, "session-bad.json"), []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	summaries, err := archive.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(summaries) != 1 || summaries[0].ID != "good" {
		t.Fatalf("corrupt file must be skipped, got %+v", summaries)
	}
}

func TestFileArchiveDelete(t *testing.T) {
	archive := newArchive(t)
	if _, err := archive.Save(sample("gone", time.Now())); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := archive.Delete("gone"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := archive.Get("gone"); !errors.Is(err, ErrNotFound) {
		t.Fatal("deleted session still readable")
	}
	if err := archive.Delete("gone"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestFilenameForRejectsTraversal(t *testing.T) {
	for _, id := range []string{"", "../etc/passwd", "a/b", `a\b`} {
		if _, err := filenameFor(id); err == nil {
			t.Fatalf("expected rejection for id %q", id)
		}
	}
}
