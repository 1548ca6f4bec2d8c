package interview_test

import (
	"context"
	"errors"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	interviewModel "github.com/insightwave/interviewer/backend/internal/model/interview"
	"github.com/insightwave/interviewer/backend/internal/service/ai"
	"github.com/insightwave/interviewer/backend/internal/service/insight"
	"github.com/insightwave/interviewer/backend/internal/service/interview"
	"github.com/insightwave/interviewer/backend/internal/service/question"
	"github.com/insightwave/interviewer/backend/internal/settings"
	"github.com/insightwave/interviewer/backend/internal/storage"
)

type staticSettings struct{}

func (staticSettings) Load() settings.Settings { return settings.Defaults() }

type stubChatModel struct {
	reply string
	err   error
	calls int
}

func (m *stubChatModel) Generate(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return schema.AssistantMessage(m.reply, nil), nil
}

func (m *stubChatModel) Stream(_ context.Context, _ []*schema.Message, _ ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("streaming not supported")
}

type fakeArchive struct {
	saved map[string]storage.SavedSession
}

func newFakeArchive() *fakeArchive {
	return &fakeArchive{saved: map[string]storage.SavedSession{}}
}

func (a *fakeArchive) Save(session storage.SavedSession) (string, error) {
	a.saved[session.ID] = session
	return "session-" + session.ID + ".json", nil
}

func (a *fakeArchive) List() ([]storage.Summary, error) {
	summaries := make([]storage.Summary, 0, len(a.saved))
	for _, session := range a.saved {
		summaries = append(summaries, storage.Summary{ID: session.ID, Topic: session.Topic})
	}
	return summaries, nil
}

func (a *fakeArchive) Get(id string) (storage.SavedSession, error) {
	session, ok := a.saved[id]
	if !ok {
		return storage.SavedSession{}, storage.ErrNotFound
	}
	return session, nil
}

func (a *fakeArchive) Delete(id string) error {
	if _, ok := a.saved[id]; !ok {
		return storage.ErrNotFound
	}
	delete(a.saved, id)
	return nil
}

func newOfflineService(store interviewModel.Store, archive storage.Archive) *interview.Service {
	return interview.NewService(
		store,
		question.NewGenerator(nil, nil),
		insight.NewAnalyzer(nil),
		archive,
		staticSettings{},
	)
}

func TestInterviewFlowCompletes(t *testing.T) {
	store := interviewModel.NewMemoryStore(0)
	defer store.Close()
	svc := newOfflineService(store, newFakeArchive())
	ctx := context.Background()

	started := svc.Start(ctx, "น้ำยาล้างจาน", 3)
	if started.SessionID == "" {
		t.Fatal("expected a session id")
	}
	if started.Question == "" {
		t.Fatal("expected an opening question")
	}

	current := started.Question
	for turn := 1; turn <= 3; turn++ {
		result, err := svc.Answer(ctx, started.SessionID, current, "ผมล้างจานทุกเย็นหลังอาหารครับ")
		if err != nil {
			t.Fatalf("Answer turn %d err: %v", turn, err)
		}
		if result.Analysis.Summary == "" {
			t.Fatalf("turn %d: expected a summary", turn)
		}

		if turn < 3 {
			if result.IsComplete {
				t.Fatalf("turn %d: completed too early", turn)
			}
			if result.NextQuestion == "" {
				t.Fatalf("turn %d: expected a next question", turn)
			}
			if result.NextQuestion == current {
				t.Fatalf("turn %d: next question repeats the current one", turn)
			}
			current = result.NextQuestion
			continue
		}

		if !result.IsComplete {
			t.Fatal("final turn should complete the interview")
		}
		if result.NextQuestion != "" {
			t.Fatalf("no question expected after completion, got %q", result.NextQuestion)
		}
	}

	session, ok := store.Get(started.SessionID)
	if !ok {
		t.Fatal("session should remain in the store after completion")
	}
	if len(session.Answers) != 3 {
		t.Fatalf("expected 3 recorded answers, got %d", len(session.Answers))
	}
	if session.CurrentTurn != 3 {
		t.Fatalf("expected final turn 3, got %d", session.CurrentTurn)
	}
}

func TestStartClampsMaxQuestions(t *testing.T) {
	store := interviewModel.NewMemoryStore(0)
	defer store.Close()
	svc := newOfflineService(store, newFakeArchive())
	ctx := context.Background()

	cases := []struct {
		requested int
		want      int
	}{
		{requested: 100, want: interviewModel.MaxQuestions},
		{requested: 1, want: interviewModel.MinQuestions},
		{requested: 0, want: interviewModel.DefaultQuestions},
	}
	for _, tc := range cases {
		started := svc.Start(ctx, "อาหารสด", tc.requested)
		session, ok := store.Get(started.SessionID)
		if !ok {
			t.Fatalf("requested=%d: session missing", tc.requested)
		}
		if session.MaxQuestions != tc.want {
			t.Fatalf("requested=%d: got max %d want %d", tc.requested, session.MaxQuestions, tc.want)
		}
	}
}

func TestStartBlankTopicDefaults(t *testing.T) {
	store := interviewModel.NewMemoryStore(0)
	defer store.Close()
	svc := newOfflineService(store, newFakeArchive())

	started := svc.Start(context.Background(), "   ", 5)
	session, ok := store.Get(started.SessionID)
	if !ok {
		t.Fatal("session missing")
	}
	if session.Topic != "หัวข้อการสัมภาษณ์" {
		t.Fatalf("unexpected default topic: %q", session.Topic)
	}
}

func TestAnswerUnknownSession(t *testing.T) {
	store := interviewModel.NewMemoryStore(0)
	defer store.Close()
	svc := newOfflineService(store, newFakeArchive())

	_, err := svc.Answer(context.Background(), "missing", "q", "a")
	if !errors.Is(err, interview.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestSummaryAveragesModelInsights(t *testing.T) {
	store := interviewModel.NewMemoryStore(0)
	defer store.Close()

	chat := &stubChatModel{
		reply: `{"summary":"ชอบใช้งานตอนเย็น","insights":[{"key_point":"ใช้ทุกวัน","quote":"ผมใช้ทุกวันครับ","confidence":0.8},{"quote":"กลิ่นหอมดี"}]}`,
	}
	svc := interview.NewService(
		store,
		question.NewGenerator(nil, nil),
		insight.NewAnalyzer(ai.NewServiceWithModel(chat)),
		newFakeArchive(),
		staticSettings{},
	)
	ctx := context.Background()

	started := svc.Start(ctx, "แชมพู", 3)
	if _, err := svc.Answer(ctx, started.SessionID, started.Question, "ผมใช้ทุกวันครับ กลิ่นหอมดี"); err != nil {
		t.Fatalf("Answer err: %v", err)
	}

	summary, err := svc.Summary(started.SessionID)
	if err != nil {
		t.Fatalf("Summary err: %v", err)
	}
	if summary.TotalQuestions != 1 {
		t.Fatalf("expected 1 question, got %d", summary.TotalQuestions)
	}
	if summary.TotalInsights != 2 {
		t.Fatalf("expected 2 insights, got %d", summary.TotalInsights)
	}
	// (0.8 + 0.7) / 2 rounded to a whole percentage.
	if summary.AvgConfidence != 75 {
		t.Fatalf("expected avg confidence 75, got %d", summary.AvgConfidence)
	}
	if summary.AllInsights[1].KeyPoint != "ไม่มีประเด็น" {
		t.Fatalf("missing key point should take a default, got %q", summary.AllInsights[1].KeyPoint)
	}
	if summary.AllInsights[1].Confidence != 0.7 {
		t.Fatalf("missing confidence should default to 0.7, got %v", summary.AllInsights[1].Confidence)
	}
	if len(summary.DetailedInsights) != 1 {
		t.Fatalf("expected 1 detailed record, got %d", len(summary.DetailedInsights))
	}
}

func TestSummaryWithoutModelInsights(t *testing.T) {
	store := interviewModel.NewMemoryStore(0)
	defer store.Close()
	svc := newOfflineService(store, newFakeArchive())
	ctx := context.Background()

	started := svc.Start(ctx, "สกินแคร์", 3)
	if _, err := svc.Answer(ctx, started.SessionID, started.Question, "ใช้ครีมทุกคืนครับ"); err != nil {
		t.Fatalf("Answer err: %v", err)
	}

	summary, err := svc.Summary(started.SessionID)
	if err != nil {
		t.Fatalf("Summary err: %v", err)
	}
	if summary.TotalQuestions != 1 {
		t.Fatalf("expected 1 question, got %d", summary.TotalQuestions)
	}
	if summary.TotalInsights != 0 {
		t.Fatalf("fallback analyses should not count as insights, got %d", summary.TotalInsights)
	}
	if summary.AvgConfidence != 0 {
		t.Fatalf("expected avg confidence 0, got %d", summary.AvgConfidence)
	}
}

func TestSaveArchivesSession(t *testing.T) {
	store := interviewModel.NewMemoryStore(0)
	defer store.Close()
	archive := newFakeArchive()
	svc := newOfflineService(store, archive)
	ctx := context.Background()

	started := svc.Start(ctx, "บริการส่งอาหาร", 3)
	filename, err := svc.Save(started.SessionID)
	if err != nil {
		t.Fatalf("Save err: %v", err)
	}
	if filename != "session-"+started.SessionID+".json" {
		t.Fatalf("unexpected filename %q", filename)
	}

	saved, ok := archive.saved[started.SessionID]
	if !ok {
		t.Fatal("session not archived")
	}
	if saved.Status != "completed" {
		t.Fatalf("unexpected status %q", saved.Status)
	}
	if saved.ExportedAt.IsZero() {
		t.Fatal("exported timestamp not set")
	}

	if _, err := svc.Save("missing"); !errors.Is(err, interview.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestArchiveLookupsMapNotFound(t *testing.T) {
	store := interviewModel.NewMemoryStore(0)
	defer store.Close()
	svc := newOfflineService(store, newFakeArchive())

	if _, err := svc.SavedSession("missing"); !errors.Is(err, interview.ErrSessionNotFound) {
		t.Fatalf("SavedSession: expected ErrSessionNotFound, got %v", err)
	}
	if err := svc.DeleteSaved("missing"); !errors.Is(err, interview.ErrSessionNotFound) {
		t.Fatalf("DeleteSaved: expected ErrSessionNotFound, got %v", err)
	}
}

func TestInsightUnknownSession(t *testing.T) {
	store := interviewModel.NewMemoryStore(0)
	defer store.Close()
	svc := newOfflineService(store, newFakeArchive())

	if _, err := svc.Insight(context.Background(), "missing"); !errors.Is(err, interview.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}
