package interview

import (
	"fmt"
	"strings"
	"time"
)

// MaxQuestions bounds accepted interview lengths.
const (
	MinQuestions     = 3
	MaxQuestions     = 20
	DefaultQuestions = 10
)

// Insight is a single extracted key point with its supporting quote.
type Insight struct {
	KeyPoint   string  `json:"key_point"`
	Quote      string  `json:"quote"`
	Confidence float64 `json:"confidence"`
}

// Analysis is the per-answer result returned to the client.
type Analysis struct {
	Summary  string    `json:"summary"`
	Insights []Insight `json:"insights"`
}

// Answer records one accepted question/answer pair with its analysis.
type Answer struct {
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Analysis Analysis `json:"analysis"`
}

// InsightRecord is the copy of an analysis kept on the session, with the
// originating exchange and timestamp.
type InsightRecord struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Summary   string    `json:"summary"`
	Insights  []Insight `json:"insights"`
	Timestamp time.Time `json:"timestamp"`
}

// Session captures one interview run. It lives in the in-memory store
// for the duration of the interview and is archived to disk on demand.
type Session struct {
	ID              string          `json:"id"`
	Topic           string          `json:"topic"`
	MaxQuestions    int             `json:"maxQuestions"`
	CurrentTurn     int             `json:"currentTurn"`
	QuestionsAsked  []string        `json:"questionsAsked"`
	Answers         []Answer        `json:"answers"`
	Insights        []InsightRecord `json:"insights"`
	CurrentQuestion string          `json:"currentQuestion,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// Asked reports whether a question was already posed in this session.
func (s *Session) Asked(question string) bool {
	for _, q := range s.QuestionsAsked {
		if q == question {
			return true
		}
	}
	return false
}

// NoHistory is the sentinel used in prompts before any answer exists.
const NoHistory = "ยังไม่มีประวัติการสนทนา"

// HistoryText renders the accepted exchanges for prompt embedding, one
// numbered question/answer pair per block.
func (s *Session) HistoryText() string {
	if len(s.Answers) == 0 {
		return NoHistory
	}

	blocks := make([]string, 0, len(s.Answers))
	for i, qa := range s.Answers {
		blocks = append(blocks, fmt.Sprintf("คำถามที่ %d: %s\nคำตอบ: %s", i+1, qa.Question, qa.Answer))
	}
	return strings.Join(blocks, "\n\n")
}

// LastAnswer returns the most recent answer text, or "".
func (s *Session) LastAnswer() string {
	if len(s.Answers) == 0 {
		return ""
	}
	return s.Answers[len(s.Answers)-1].Answer
}

// ClampMaxQuestions coerces a requested interview length into the
// accepted range; non-positive values take the default.
func ClampMaxQuestions(requested int) int {
	if requested <= 0 {
		requested = DefaultQuestions
	}
	if requested < MinQuestions {
		return MinQuestions
	}
	if requested > MaxQuestions {
		return MaxQuestions
	}
	return requested
}
