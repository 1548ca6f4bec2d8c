package settings

// Settings is the runtime-editable interview configuration exposed on
// /api/config. Fields absent from the stored file fall back to the
// defaults, field by field, via Patch.
type Settings struct {
	QuestionPrompt   string              `json:"question_generation_prompt"`
	AnalysisPrompt   string              `json:"analysis_prompt"`
	ExampleQuestions map[string][]string `json:"example_questions"`
	ModelSettings    ModelSettings       `json:"model_settings"`
}

// ModelSettings tunes the external model per call. Model, when set,
// overrides the deployment configured in the environment.
type ModelSettings struct {
	Model               string  `json:"model"`
	TemperatureQuestion float64 `json:"temperature_question"`
	TemperatureAnalysis float64 `json:"temperature_analysis"`
}

// Patch is a partial Settings update: nil fields leave the current value
// untouched, non-nil fields replace scalars and per-key question lists.
type Patch struct {
	QuestionPrompt   *string             `json:"question_generation_prompt"`
	AnalysisPrompt   *string             `json:"analysis_prompt"`
	ExampleQuestions map[string][]string `json:"example_questions"`
	ModelSettings    *ModelSettingsPatch `json:"model_settings"`
}

// ModelSettingsPatch mirrors ModelSettings with optional fields.
type ModelSettingsPatch struct {
	Model               *string  `json:"model"`
	TemperatureQuestion *float64 `json:"temperature_question"`
	TemperatureAnalysis *float64 `json:"temperature_analysis"`
}

// Apply merges the patch over base and returns the result. Question
// lists merge per category key; everything else replaces wholesale.
func (p Patch) Apply(base Settings) Settings {
	next := base
	next.ExampleQuestions = copyQuestions(base.ExampleQuestions)

	if p.QuestionPrompt != nil {
		next.QuestionPrompt = *p.QuestionPrompt
	}
	if p.AnalysisPrompt != nil {
		next.AnalysisPrompt = *p.AnalysisPrompt
	}
	for key, questions := range p.ExampleQuestions {
		next.ExampleQuestions[key] = append([]string(nil), questions...)
	}
	if p.ModelSettings != nil {
		if p.ModelSettings.Model != nil {
			next.ModelSettings.Model = *p.ModelSettings.Model
		}
		if p.ModelSettings.TemperatureQuestion != nil {
			next.ModelSettings.TemperatureQuestion = *p.ModelSettings.TemperatureQuestion
		}
		if p.ModelSettings.TemperatureAnalysis != nil {
			next.ModelSettings.TemperatureAnalysis = *p.ModelSettings.TemperatureAnalysis
		}
	}

	return next
}

func copyQuestions(src map[string][]string) map[string][]string {
	dst := make(map[string][]string, len(src))
	for key, questions := range src {
		dst[key] = append([]string(nil), questions...)
	}
	return dst
}

// Defaults is the initial state and the reset target.
func Defaults() Settings {
	return Settings{
		QuestionPrompt: defaultQuestionPrompt,
		AnalysisPrompt: defaultAnalysisPrompt,
		ExampleQuestions: map[string][]string{
			"general": {
				"ปกติคุณใช้ {topic} บ่อยแค่ไหนครับ?",
				"ในชีวิตประจำวัน {topic} เข้ามาเกี่ยวข้องกับคุณในช่วงเวลาไหนบ้างครับ?",
				"โดยรวมแล้วตอนนี้คุณรู้สึกยังไงกับ {topic} ครับ?",
			},
		},
		ModelSettings: ModelSettings{
			TemperatureQuestion: 0.8,
			TemperatureAnalysis: 0.5,
		},
	}
}

const defaultQuestionPrompt = `คุณคือ "ผู้สัมภาษณ์เชิงลึก" (In-depth Interviewer)
หัวข้อหลักของการสนทนา คือ {topic}
ประวัติการสนทนาก่อนหน้านี้:
{conversation_history}

คำตอบล่าสุดของผู้ให้ข้อมูล:
{previous_answer}

ตอนนี้เป็นคำตอบที่ {turn} ของการสนทนา
ตอบเป็นคำถามภาษาไทยเพียงข้อเดียว ไม่ต้องมีคำนำหน้าหรือเลขลำดับ`

const defaultAnalysisPrompt = `คุณคือ AI นักวิเคราะห์สำหรับการสัมภาษณ์เชิงลึก

หัวข้อ: {topic}
คำถาม: {question}
คำตอบ: {answer}

ประวัติการสนทนาก่อนหน้า:
{conversation_history}

ภารกิจ: วิเคราะห์และสรุป insights จากคำตอบของผู้ให้ข้อมูล

สิ่งที่ต้องทำ:
1. สรุปประเด็นหลักที่ผู้ให้ข้อมูลพูดถึง
2. ระบุ key insights, ความคิด, ความรู้สึก, หรือประสบการณ์ที่สำคัญ
3. ไม่ต้องจำแนกเป็นหมวดหมู่ใดๆ แต่ให้สรุปตามเนื้อหาที่ผู้ให้ข้อมูลตอบจริงๆ

ตอบเป็น JSON format:
{
  "summary": "สรุปสั้นๆ ประเด็นหลักจากคำตอบนี้",
  "insights": [
    {
      "key_point": "ประเด็นสำคัญที่ 1",
      "quote": "ประโยคหรือข้อความที่ยืนยันประเด็นนี้ (ใช้ข้อความจากคำตอบเดิม)",
      "confidence": 0.85
    }
  ]
}

ถ้ามี insights หลายประเด็น ให้เพิ่มใน array insights ได้`
