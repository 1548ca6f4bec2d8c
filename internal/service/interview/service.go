package interview

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	interviewModel "github.com/insightwave/interviewer/backend/internal/model/interview"
	"github.com/insightwave/interviewer/backend/internal/service/insight"
	"github.com/insightwave/interviewer/backend/internal/service/question"
	"github.com/insightwave/interviewer/backend/internal/settings"
	"github.com/insightwave/interviewer/backend/internal/storage"
)

// ErrSessionNotFound covers both live and archived lookups.
var ErrSessionNotFound = errors.New("session not found")

const defaultTopic = "หัวข้อการสัมภาษณ์"

// SettingsLoader supplies the current interview settings; the file
// store satisfies it.
type SettingsLoader interface {
	Load() settings.Settings
}

// Service orchestrates the interview lifecycle: start, answer loop,
// summary, archive. It owns the live-session store.
type Service struct {
	store     interviewModel.Store
	generator *question.Generator
	analyzer  *insight.Analyzer
	archive   storage.Archive
	settings  SettingsLoader
	now       func() time.Time
	newID     func() string
}

// NewService wires the controller.
func NewService(store interviewModel.Store, generator *question.Generator, analyzer *insight.Analyzer, archive storage.Archive, loader SettingsLoader) *Service {
	return &Service{
		store:     store,
		generator: generator,
		analyzer:  analyzer,
		archive:   archive,
		settings:  loader,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// StartResult is returned from Start.
type StartResult struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
}

// Start creates a session and poses its first question. maxQuestions is
// clamped into the accepted range; a blank topic takes a default.
func (s *Service) Start(ctx context.Context, topic string, maxQuestions int) StartResult {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = defaultTopic
	}

	session := &interviewModel.Session{
		ID:             s.newID(),
		Topic:          topic,
		MaxQuestions:   interviewModel.ClampMaxQuestions(maxQuestions),
		CurrentTurn:    1,
		QuestionsAsked: []string{},
		Answers:        []interviewModel.Answer{},
		Insights:       []interviewModel.InsightRecord{},
		CreatedAt:      s.now().UTC(),
	}

	session.CurrentQuestion = s.generator.Next(ctx, session, s.settings.Load())
	s.store.Put(session)

	return StartResult{SessionID: session.ID, Question: session.CurrentQuestion}
}

// AnswerResult is returned from Answer. NextQuestion is empty once the
// interview is complete.
type AnswerResult struct {
	Analysis     interviewModel.Analysis
	IsComplete   bool
	NextQuestion string
}

// Answer accepts one answer: analyze, record, then either advance the
// turn and pose the next question or mark the interview complete.
func (s *Service) Answer(ctx context.Context, sessionID, questionText, answerText string) (AnswerResult, error) {
	session, ok := s.store.Get(sessionID)
	if !ok {
		return AnswerResult{}, ErrSessionNotFound
	}

	cfg := s.settings.Load()
	analysis := s.analyzer.Analyze(ctx, session, questionText, answerText, cfg)
	session.Answers = append(session.Answers, interviewModel.Answer{
		Question: questionText,
		Answer:   answerText,
		Analysis: analysis,
	})

	result := AnswerResult{Analysis: analysis}
	result.IsComplete = session.CurrentTurn >= session.MaxQuestions
	if !result.IsComplete {
		session.CurrentTurn++
		result.NextQuestion = s.generator.Next(ctx, session, cfg)
		session.CurrentQuestion = result.NextQuestion
	}

	return result, nil
}

// SummaryResult aggregates every extracted insight for a session.
type SummaryResult struct {
	SessionID        string                         `json:"session_id"`
	Topic            string                         `json:"topic"`
	TotalQuestions   int                            `json:"total_questions"`
	TotalInsights    int                            `json:"total_insights"`
	AvgConfidence    int                            `json:"avg_confidence"`
	AllInsights      []interviewModel.Insight       `json:"all_insights"`
	DetailedInsights []interviewModel.InsightRecord `json:"detailed_insights"`
}

// Summary flattens the per-answer insight batches and computes the mean
// confidence as a whole-number percentage (0 when nothing was
// extracted).
func (s *Service) Summary(sessionID string) (SummaryResult, error) {
	session, ok := s.store.Get(sessionID)
	if !ok {
		return SummaryResult{}, ErrSessionNotFound
	}

	flattened := make([]interviewModel.Insight, 0, len(session.Insights))
	for _, record := range session.Insights {
		for _, item := range record.Insights {
			if item.KeyPoint == "" {
				item.KeyPoint = "ไม่มีประเด็น"
			}
			if item.Confidence == 0 {
				item.Confidence = 0.7
			}
			flattened = append(flattened, item)
		}
	}

	avgConfidence := 0
	if len(flattened) > 0 {
		total := 0.0
		for _, item := range flattened {
			total += item.Confidence
		}
		avgConfidence = int(math.Round(total / float64(len(flattened)) * 100))
	}

	return SummaryResult{
		SessionID:        session.ID,
		Topic:            session.Topic,
		TotalQuestions:   len(session.Answers),
		TotalInsights:    len(flattened),
		AvgConfidence:    avgConfidence,
		AllInsights:      flattened,
		DetailedInsights: session.Insights,
	}, nil
}

// Insight produces the narrative synthesis across the whole interview.
func (s *Service) Insight(ctx context.Context, sessionID string) (insight.Synthesis, error) {
	session, ok := s.store.Get(sessionID)
	if !ok {
		return insight.Synthesis{}, ErrSessionNotFound
	}
	return s.analyzer.Synthesize(ctx, session, s.settings.Load()), nil
}

// Save archives the live session to durable storage and returns the
// record filename.
func (s *Service) Save(sessionID string) (string, error) {
	session, ok := s.store.Get(sessionID)
	if !ok {
		return "", ErrSessionNotFound
	}

	return s.archive.Save(storage.SavedSession{
		Session:    *session,
		ExportedAt: s.now().UTC(),
		Status:     "completed",
	})
}

// SavedSessions lists the archive.
func (s *Service) SavedSessions() ([]storage.Summary, error) {
	return s.archive.List()
}

// SavedSession reads one archived session.
func (s *Service) SavedSession(id string) (storage.SavedSession, error) {
	saved, err := s.archive.Get(id)
	if errors.Is(err, storage.ErrNotFound) {
		return storage.SavedSession{}, ErrSessionNotFound
	}
	return saved, err
}

// DeleteSaved removes an archived session.
func (s *Service) DeleteSaved(id string) error {
	err := s.archive.Delete(id)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrSessionNotFound
	}
	return err
}
