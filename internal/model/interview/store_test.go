package interview

import (
	"testing"
	"time"
)

func TestMemoryStorePutGetDelete(t *testing.T) {
	store := NewMemoryStore(0)
	defer store.Close()

	session := &Session{ID: "s1", Topic: "แชมพู", CreatedAt: time.Now()}
	store.Put(session)

	got, ok := store.Get("s1")
	if !ok {
		t.Fatal("expected session to be present")
	}
	if got != session {
		t.Fatal("store must hand back the same session pointer")
	}
	if store.Len() != 1 {
		t.Fatalf("unexpected length %d", store.Len())
	}

	store.Delete("s1")
	if _, ok := store.Get("s1"); ok {
		t.Fatal("deleted session still present")
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	store := NewMemoryStore(0)
	defer store.Close()

	if _, ok := store.Get("missing"); ok {
		t.Fatal("unexpected hit for unknown id")
	}
}

func TestMemoryStoreEvictExpired(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	defer store.Close()

	old := &Session{ID: "old", CreatedAt: time.Now().Add(-2 * time.Hour)}
	fresh := &Session{ID: "fresh", CreatedAt: time.Now()}
	store.Put(old)
	store.Put(fresh)

	store.evictExpired(time.Now())

	if _, ok := store.Get("old"); ok {
		t.Fatal("expired session survived eviction")
	}
	if _, ok := store.Get("fresh"); !ok {
		t.Fatal("fresh session was evicted")
	}
}

func TestClampMaxQuestions(t *testing.T) {
	cases := []struct {
		in   int
		want int
	}{
		{0, DefaultQuestions},
		{-5, DefaultQuestions},
		{1, MinQuestions},
		{3, 3},
		{10, 10},
		{20, 20},
		{99, MaxQuestions},
	}
	for _, tc := range cases {
		if got := ClampMaxQuestions(tc.in); got != tc.want {
			t.Fatalf("ClampMaxQuestions(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestSessionAsked(t *testing.T) {
	session := &Session{QuestionsAsked: []string{"a", "b"}}
	if !session.Asked("a") {
		t.Fatal("expected asked question to be found")
	}
	if session.Asked("c") {
		t.Fatal("unexpected hit for unasked question")
	}
}
