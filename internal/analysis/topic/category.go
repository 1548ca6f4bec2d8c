package topic

import "strings"

// Category tags an interview topic with a product area so the first
// questions can start from familiar daily-life ground.
type Category string

const (
	CategoryDishwashing Category = "dishwashing"
	CategoryFreshFood   Category = "freshfood"
	CategorySkincare    Category = "skincare"
	CategoryShampoo     Category = "shampoo"
	CategoryAppliance   Category = "appliance"
	CategoryDelivery    Category = "delivery"
	CategoryGeneric     Category = "generic"
)

// categoryKeywords is ordered; the first bucket with a hit wins.
var categoryKeywords = []struct {
	category Category
	keywords []string
}{
	{CategoryDishwashing, []string{"น้ำยาล้างจาน", "ล้างจาน"}},
	{CategoryFreshFood, []string{"อาหารสด", "ของสด"}},
	{CategorySkincare, []string{"ครีม", "สกินแคร์", "บำรุงผิว"}},
	{CategoryShampoo, []string{"แชมพู", "สระผม"}},
	{CategoryAppliance, []string{"เครื่องใช้ไฟฟ้า", "ทีวี", "ตู้เย็น", "แอร์"}},
	{CategoryDelivery, []string{"เดลิเวอรี่", "ส่งของ", "ส่งอาหาร"}},
}

// firstQuestionPools holds hand-authored openers per category. They stay
// short, behavior-focused and brand-free; generic entries carry a {topic}
// placeholder for the template engine.
var firstQuestionPools = map[Category][]string{
	CategoryDishwashing: {
		"หลังมื้ออาหารปกติคุณจัดการเรื่องล้างจานยังไงบ้างครับ?",
		"ในแต่ละวันคุณต้องล้างจานบ่อยแค่ไหนครับ?",
	},
	CategoryFreshFood: {
		"ปกติคุณซื้อของสดมาทำอาหารบ่อยแค่ไหนครับ?",
		"เวลาจะทำอาหารเองที่บ้าน คุณมักซื้อของสดจากที่ไหนครับ?",
	},
	CategorySkincare: {
		"ในชีวิตประจำวันคุณทาครีมบำรุงผิวบ่อยแค่ไหนครับ?",
		"ปกติคุณดูแลผิวหน้าของตัวเองยังไงบ้างในแต่ละวันครับ?",
	},
	CategoryShampoo: {
		"ปกติคุณสระผมบ่อยแค่ไหนครับในหนึ่งสัปดาห์?",
		"เวลาคุณเลือกแชมพูใช้เอง คุณนึกถึงเรื่องอะไรเป็นอย่างแรกครับ?",
	},
	CategoryAppliance: {
		"ในชีวิตประจำวัน เครื่องใช้ไฟฟ้าที่คุณใช้บ่อยที่สุดคืออะไรครับ?",
		"ปกติคุณใช้เครื่องใช้ไฟฟ้าพวกทีวี ตู้เย็น หรือแอร์บ่อยแค่ไหนครับ?",
	},
	CategoryDelivery: {
		"ช่วงนี้คุณใช้บริการส่งของหรือเดลิเวอรี่บ่อยแค่ไหนครับ?",
		"ปกติคุณใช้บริการส่งอาหารหรือส่งของในโอกาสแบบไหนบ้างครับ?",
	},
	CategoryGeneric: {
		"ปกติคุณใช้{topic}บ่อยแค่ไหนครับ?",
		"ในชีวิตประจำวัน {topic} เข้ามาเกี่ยวข้องกับคุณในช่วงเวลาไหนบ้างครับ?",
		"โดยรวมแล้วตอนนี้คุณรู้สึกยังไงกับ {topic} ครับ?",
	},
}

// DetectCategory maps a topic string to a product category by substring
// matching, defaulting to generic.
func DetectCategory(topic string) Category {
	lower := strings.ToLower(topic)
	for _, bucket := range categoryKeywords {
		for _, keyword := range bucket.keywords {
			if strings.Contains(lower, keyword) {
				return bucket.category
			}
		}
	}
	return CategoryGeneric
}

// FirstQuestions returns a copy of the opener pool for a category.
func FirstQuestions(category Category) []string {
	pool, ok := firstQuestionPools[category]
	if !ok {
		pool = firstQuestionPools[CategoryGeneric]
	}
	return append([]string(nil), pool...)
}
