package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	interviewModel "github.com/insightwave/interviewer/backend/internal/model/interview"
	"github.com/insightwave/interviewer/backend/internal/prompt"
	"github.com/insightwave/interviewer/backend/internal/service/ai"
	"github.com/insightwave/interviewer/backend/internal/settings"
)

const fallbackConfidence = 0.7

// Analyzer extracts structured insights from answers via the external
// model, degrading to a naive first-sentence summary when the model is
// unavailable or its reply does not parse.
type Analyzer struct {
	ai  *ai.Service
	now func() time.Time
}

// NewAnalyzer creates an analyzer. aiSvc may be nil.
func NewAnalyzer(aiSvc *ai.Service) *Analyzer {
	return &Analyzer{ai: aiSvc, now: time.Now}
}

// Analyze produces the per-answer analysis. On a successful model call
// the full result is also appended to session.Insights; fallback
// results are only returned, matching how the summary endpoints count
// extracted insights. Failures never propagate: the caller always
// receives an Analysis.
func (a *Analyzer) Analyze(ctx context.Context, session *interviewModel.Session, question, answer string, cfg settings.Settings) interviewModel.Analysis {
	analysis, ok := a.analyzeWithModel(ctx, session, question, answer, cfg)
	if !ok {
		return naiveAnalysis(answer)
	}

	session.Insights = append(session.Insights, interviewModel.InsightRecord{
		Question:  question,
		Answer:    answer,
		Summary:   analysis.Summary,
		Insights:  analysis.Insights,
		Timestamp: a.now().UTC(),
	})

	return analysis
}

func (a *Analyzer) analyzeWithModel(ctx context.Context, session *interviewModel.Session, question, answer string, cfg settings.Settings) (interviewModel.Analysis, bool) {
	if a.ai == nil {
		return interviewModel.Analysis{}, false
	}

	template := cfg.AnalysisPrompt
	if template == "" {
		template = settings.Defaults().AnalysisPrompt
	}

	history := session.HistoryText()
	filled := prompt.Fill(template, map[string]string{
		"topic":                session.Topic,
		"question":             question,
		"answer":               answer,
		"conversation_history": history,
		"history":              history,
	})

	temperature := float32(cfg.ModelSettings.TemperatureAnalysis)
	if temperature <= 0 {
		temperature = 0.5
	}

	raw, err := a.ai.Complete(ctx, analysisSystemPrompt, filled, ai.CallOptions{
		Temperature: temperature,
		Model:       cfg.ModelSettings.Model,
	})
	if err != nil {
		log.Printf("[insight] analysis call failed, using naive summary: %v", err)
		return interviewModel.Analysis{}, false
	}

	var analysis interviewModel.Analysis
	if err := unmarshalObject(raw, &analysis); err != nil {
		log.Printf("[insight] analysis reply did not parse, using naive summary: %v", err)
		return interviewModel.Analysis{}, false
	}

	return analysis, true
}

// Synthesis is the narrative whole-interview result.
type Synthesis struct {
	Summary              string   `json:"summary"`
	KeyThemes            []string `json:"key_themes"`
	DetailedInsights     string   `json:"detailed_insights"`
	RepresentativeQuotes []string `json:"representative_quotes"`
}

// Synthesize condenses the entire conversation into a narrative. Model
// failures fall back to stitching the per-answer summaries together.
func (a *Analyzer) Synthesize(ctx context.Context, session *interviewModel.Session, cfg settings.Settings) Synthesis {
	conversation := session.HistoryText()

	if a.ai != nil && len(session.Answers) > 0 {
		filled := prompt.Fill(synthesisPrompt, map[string]string{
			"topic":        session.Topic,
			"conversation": conversation,
		})

		raw, err := a.ai.Complete(ctx, synthesisSystemPrompt, filled, ai.CallOptions{
			Temperature: 0.6,
			Model:       cfg.ModelSettings.Model,
		})
		if err == nil {
			var synthesis Synthesis
			if err := unmarshalObject(raw, &synthesis); err == nil {
				return synthesis
			}
			log.Printf("[insight] synthesis reply did not parse, using naive summary")
		} else {
			log.Printf("[insight] synthesis call failed, using naive summary: %v", err)
		}
	}

	return naiveSynthesis(session, conversation)
}

func naiveSynthesis(session *interviewModel.Session, conversation string) Synthesis {
	var summaries []string
	for _, qa := range session.Answers {
		if s := strings.TrimSpace(qa.Analysis.Summary); s != "" {
			summaries = append(summaries, s)
		}
	}

	summary := fmt.Sprintf("สรุป insights จากการสัมภาษณ์เกี่ยวกับ %s", session.Topic)
	if len(summaries) > 0 {
		summary = strings.Join(summaries, " ")
	}

	themes := summaries
	if len(themes) > 5 {
		themes = themes[:5]
	}

	var quotes []string
	for _, qa := range session.Answers {
		if qa.Answer != "" {
			quotes = append(quotes, qa.Answer)
		}
		if len(quotes) == 3 {
			break
		}
	}

	return Synthesis{
		Summary:              summary,
		KeyThemes:            themes,
		DetailedInsights:     conversation,
		RepresentativeQuotes: quotes,
	}
}

// naiveAnalysis summarizes without a model: first sentence when it is
// substantial, otherwise the truncated answer, as a single insight with
// a fixed confidence.
func naiveAnalysis(answer string) interviewModel.Analysis {
	summary := simpleSummary(answer)
	return interviewModel.Analysis{
		Summary: summary,
		Insights: []interviewModel.Insight{{
			KeyPoint:   summary,
			Quote:      truncate(answer, 200),
			Confidence: fallbackConfidence,
		}},
	}
}

var sentenceEnd = regexp.MustCompile(`[.!?。！？]\s*`)

func simpleSummary(answer string) string {
	trimmed := strings.TrimSpace(answer)
	if trimmed == "" {
		return "ไม่มีคำตอบ"
	}

	first := sentenceEnd.Split(trimmed, 2)[0]
	if len([]rune(first)) > 20 {
		return truncate(first, 150)
	}
	return truncate(trimmed, 150)
}

// truncate cuts text to limit runes, ending with an ellipsis when
// anything was dropped.
func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-3]) + "..."
}

// unmarshalObject parses the outermost JSON object in a model reply,
// tolerating prose or code fences around it.
func unmarshalObject(content string, target any) error {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return fmt.Errorf("missing json object")
	}
	return json.Unmarshal([]byte(trimmed[start:end+1]), target)
}

const analysisSystemPrompt = `คุณคือ AI นักวิเคราะห์การสัมภาษณ์เชิงลึก สรุป insights จากคำตอบของผู้ให้ข้อมูลตามเนื้อหาจริง ไม่ต้องจำแนกเป็นหมวดหมู่ ตอบเป็น JSON เท่านั้น`

const synthesisSystemPrompt = `คุณคือ AI นักวิเคราะห์การสัมภาษณ์เชิงลึก สรุป insights ตามเนื้อหาจริง ตอบเป็น JSON เท่านั้น`

const synthesisPrompt = `คุณคือ AI นักวิเคราะห์การสัมภาษณ์เชิงลึก

หัวข้อการสัมภาษณ์: {topic}

การสนทนาทั้งหมด:
{conversation}

ภารกิจ: สรุป insights หลักจากการสัมภาษณ์เชิงลึกทั้งหมด

สิ่งที่ต้องทำ:
- สรุปประเด็นหลักที่ผู้ให้ข้อมูลพูดถึง
- ระบุ key insights, ความคิด, ความรู้สึก, และประสบการณ์ที่สำคัญ
- ให้สรุปตามเนื้อหาจริงที่ผู้ให้ข้อมูลตอบ
- เขียนให้เป็นธรรมชาติ อ่านง่าย

ตอบเป็น JSON:
{
  "summary": "สรุปสั้นๆ ภาพรวมของ insights หลัก",
  "key_themes": ["ธีมหลักที่ 1", "ธีมหลักที่ 2"],
  "detailed_insights": "สรุปละเอียดของ insights ทั้งหมด",
  "representative_quotes": ["คำพูดสำคัญที่ 1", "คำพูดสำคัญที่ 2"]
}`
