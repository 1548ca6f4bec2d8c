package question

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"regexp"
	"strconv"
	"strings"

	"github.com/insightwave/interviewer/backend/internal/analysis/topic"
	interviewModel "github.com/insightwave/interviewer/backend/internal/model/interview"
	"github.com/insightwave/interviewer/backend/internal/prompt"
	"github.com/insightwave/interviewer/backend/internal/service/ai"
	"github.com/insightwave/interviewer/backend/internal/settings"
)

// maxAttempts bounds AI generation per turn; after that the canned
// fallback takes over.
const maxAttempts = 3

// earlyTurnLimit marks the opening phase where questions must stay
// short, behavior-focused and brand-free.
const earlyTurnLimit = 3

const (
	followUpPrimary   = "เล่าเพิ่มเติมให้ฟังหน่อยได้ไหมครับ?"
	followUpAlternate = "มีอะไรอื่นที่อยากเล่าเพิ่มเติมไหมครับ?"
)

var (
	surroundingQuotes = regexp.MustCompile(`^["']+|["']+$`)
	leadingNumbering  = regexp.MustCompile(`^\d+[.)]\s*`)
	leadingBullet     = regexp.MustCompile(`^[-*]\s*`)
)

// Generator produces the next interview question: AI generation with
// duplicate/brand rejection and bounded retry, then canned candidates.
// It never fails; some question always comes back.
type Generator struct {
	ai     *ai.Service
	detect topic.Detector
	randFn func(n int) int
}

// NewGenerator creates a generator. aiSvc may be nil (no credentials),
// which limits output to the canned pools. detect defaults to the
// built-in brand heuristic.
func NewGenerator(aiSvc *ai.Service, detect topic.Detector) *Generator {
	if detect == nil {
		detect = topic.ContainsBrand
	}
	return &Generator{ai: aiSvc, detect: detect, randFn: rand.Intn}
}

// Next picks the question for the session's current turn, records it in
// QuestionsAsked and returns it.
func (g *Generator) Next(ctx context.Context, session *interviewModel.Session, cfg settings.Settings) string {
	if g.ai != nil {
		for attempt := 1; attempt <= maxAttempts; attempt++ {
			generated, err := g.generate(ctx, session, cfg)
			if err != nil {
				log.Printf("[question] attempt %d/%d failed: %v", attempt, maxAttempts, err)
				continue
			}
			session.QuestionsAsked = append(session.QuestionsAsked, generated)
			return generated
		}
		log.Printf("[question] AI generation exhausted for session=%s, using canned pool", session.ID)
	}

	fallback := g.fallback(session)
	if !session.Asked(fallback) {
		session.QuestionsAsked = append(session.QuestionsAsked, fallback)
	}
	return fallback
}

// generate runs a single AI attempt. It is pure with respect to the
// session: rejection and transport errors surface as an error and leave
// no trace, so the caller owns the retry policy.
func (g *Generator) generate(ctx context.Context, session *interviewModel.Session, cfg settings.Settings) (string, error) {
	turn := len(session.Answers) + 1
	early := turn <= earlyTurnLimit
	cleanTopic := topic.Sanitize(session.Topic)

	template := cfg.QuestionPrompt
	if template == "" {
		template = settings.Defaults().QuestionPrompt
	}
	if early {
		template = earlyPrompt(turn, cleanTopic)
	}

	history := session.HistoryText()
	filled := prompt.Fill(template, map[string]string{
		"topic":                cleanTopic,
		"conversation_history": history,
		"history":              history,
		"previous_answer":      session.LastAnswer(),
		"turn":                 strconv.Itoa(turn),
	})
	filled += askedConstraint(session.QuestionsAsked)

	opts := ai.CallOptions{
		Temperature: float32(cfg.ModelSettings.TemperatureQuestion),
		MaxTokens:   300,
		Model:       cfg.ModelSettings.Model,
	}
	if opts.Temperature <= 0 {
		opts.Temperature = 0.8
	}
	system := laterSystemPrompt
	if early {
		// Lower temperature and a tight token cap keep the opening
		// questions short and predictable.
		opts.Temperature = 0.3
		opts.MaxTokens = 50
		system = earlySystemPrompt
	}

	raw, err := g.ai.Complete(ctx, system, filled, opts)
	if err != nil {
		return "", err
	}

	cleaned := cleanQuestion(raw)
	if cleaned == "" {
		return "", fmt.Errorf("model returned no usable question")
	}
	if early && g.detect(cleaned) {
		return "", fmt.Errorf("rejected question mentioning a brand (turn %d): %q", turn, cleaned)
	}
	if session.Asked(cleaned) {
		return "", fmt.Errorf("rejected duplicate question (turn %d): %q", turn, cleaned)
	}

	return cleaned, nil
}

// fallback returns a canned question: category openers for the first
// turn, generic follow-ups after that, never repeating verbatim while an
// unused variant remains.
func (g *Generator) fallback(session *interviewModel.Session) string {
	if len(session.Answers) == 0 {
		topicText := session.Topic
		if strings.TrimSpace(topicText) == "" {
			topicText = "ผลิตภัณฑ์"
		}

		category := topic.DetectCategory(topicText)
		pool := topic.FirstQuestions(category)
		if category == topic.CategoryGeneric {
			cleaned := topic.Sanitize(topicText)
			for i, candidate := range pool {
				pool[i] = prompt.Fill(candidate, map[string]string{"topic": cleaned})
			}
		}

		available := pool[:0]
		for _, candidate := range pool {
			if !session.Asked(candidate) {
				available = append(available, candidate)
			}
		}
		if len(available) > 0 {
			return available[g.randFn(len(available))]
		}
	}

	if !session.Asked(followUpPrimary) {
		return followUpPrimary
	}
	return followUpAlternate
}

// cleanQuestion strips surrounding quotes and leading numbering or
// bullets from the model reply.
func cleanQuestion(raw string) string {
	cleaned := strings.TrimSpace(raw)
	cleaned = surroundingQuotes.ReplaceAllString(cleaned, "")
	cleaned = leadingNumbering.ReplaceAllString(cleaned, "")
	cleaned = leadingBullet.ReplaceAllString(cleaned, "")
	return strings.TrimSpace(cleaned)
}

// askedConstraint renders the already-asked list as a negative
// constraint appended to the prompt.
func askedConstraint(asked []string) string {
	if len(asked) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n\nคำถามที่ถามไปแล้ว (ห้ามถามซ้ำ):\n")
	for i, q := range asked {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}

// earlyPrompt builds the strict opening-phase prompt: daily life and
// behavior only, no brand vocabulary, with category examples embedded.
func earlyPrompt(turn int, cleanTopic string) string {
	category := topic.DetectCategory(cleanTopic)
	pool := topic.FirstQuestions(category)
	if len(pool) > 2 {
		pool = pool[:2]
	}
	examples := make([]string, 0, len(pool))
	for _, candidate := range pool {
		examples = append(examples, prompt.Fill(candidate, map[string]string{"topic": cleanTopic}))
	}

	return fmt.Sprintf(earlyPromptFormat, turn, strings.Join(examples, "\n- "), cleanTopic)
}

const earlyPromptFormat = `คุณคือผู้สัมภาษณ์เชิงลึก

นี่เป็นคำถามที่ %d (ยังเป็นคำถามแรกๆ ของการสนทนา)

กฎที่ต้องทำตามอย่างเคร่งครัด - ห้ามละเมิดโดยเด็ดขาด:
1. ห้ามเอ่ยถึง "ยี่ห้อ" "แบรนด์" "brand" "product" "ผลิตภัณฑ์" ในคำถาม
2. ห้ามถาม "ใช้ยี่ห้ออะไร" "ใช้แบรนด์ไหน" "ใช้ผลิตภัณฑ์อะไร"
3. ห้ามเอ่ยถึงชื่อแบรนด์ใดๆ ทั้งหมด
4. ห้ามถามเรื่อง "เลือกแบรนด์" "เปรียบเทียบแบรนด์" "ใช้แบรนด์ไหน"

เป้าหมาย: เริ่มจากชีวิตประจำวัน/พฤติกรรม/บริบทการใช้งาน แล้วค่อยถามเรื่องแบรนด์/ผลิตภัณฑ์ในคำถามถัดๆ ไป

กฎสำหรับคำถามนี้:
1. คำถามต้องสั้น กระชับ ใช้ประโยคเดียว (ประมาณ 10-20 คำ)
2. โฟกัสที่พฤติกรรม/ชีวิตประจำวัน/บริบทการใช้งาน/ความรู้สึก/ประสบการณ์
3. เน้นให้คนตอบเล่าเกี่ยวกับ "ชีวิต/พฤติกรรม/บริบท/ประสบการณ์" ก่อน ไม่ใช่ "ผลิตภัณฑ์/แบรนด์/ยี่ห้อ"
4. ห้ามถามหลายประเด็นในประโยคเดียว

ตัวอย่างคำถามที่ดีสำหรับหมวดนี้ (ไม่มีแบรนด์เลย):
- %s

หัวข้อ: %s

ตอบเป็นคำถามภาษาไทยสั้นๆ เพียงข้อเดียว โฟกัสที่พฤติกรรม/ชีวิตประจำวัน/บริบท ห้ามมีคำว่า "ยี่ห้อ" "แบรนด์" "ผลิตภัณฑ์" หรือชื่อแบรนด์ใดๆ ใช้คำลงท้าย "ครับ" แทน "คะ"`

const earlySystemPrompt = `คุณคือผู้สัมภาษณ์ที่สร้างคำถามแรกๆ ที่สั้น กระชับ โฟกัสที่พฤติกรรม/ชีวิตประจำวัน/บริบทการใช้งาน/ความรู้สึก/ประสบการณ์ ห้ามเอ่ยถึงแบรนด์/ยี่ห้อ/ผลิตภัณฑ์/ชื่อแบรนด์ใดๆ โดยเด็ดขาด เป็นแค่การเริ่มสนทนาเพื่อเข้าใจชีวิตและพฤติกรรมของผู้ตอบก่อน ค่อยถามเรื่องแบรนด์ในคำถามถัดๆ ไป ห้ามถามคำถามที่ถามไปแล้ว ใช้คำลงท้าย "ครับ" แทน "คะ"`

const laterSystemPrompt = `คุณคือ AI Interviewer ผู้เชี่ยวชาญการสัมภาษณ์เชิงลึก ตั้งคำถามปลายเปิดที่ช่วยดึงความคิดและประสบการณ์จากผู้ตอบอย่างละเอียด ห้ามถามคำถามที่ถามไปแล้ว ใช้คำลงท้าย "ครับ" แทน "คะ"`
