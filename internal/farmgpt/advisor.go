package farmgpt

import "time"

// System prompts for the agricultural advisor. The Urdu prompt is selected
// whenever the question contains Arabic-script characters.
const (
	systemPromptUrdu    = `آپ ایک پاکستانی زرعی مشیر ہیں۔ کسانوں کے سوالات کے جوابات مختصر، درست اور عام فہم اردو میں دیں۔`
	systemPromptEnglish = `You are an experienced Pakistani agricultural advisor. Respond in short, clear, and simple English.`

	fallbackAnswerUrdu    = "کوئی جواب دستیاب نہیں۔"
	fallbackAnswerEnglish = "No answer available."
)

// Exchange is one question/answer pair in a user's conversation history.
type Exchange struct {
	Question string    `json:"question"`
	Answer   string    `json:"answer"`
	AskedAt  time.Time `json:"asked_at"`
}

// Answer is the advisor's reply.
type Answer struct {
	Text     string `json:"answer"`
	Language string `json:"language"`
}

// IsUrdu reports whether the text contains Arabic-script characters.
func IsUrdu(text string) bool {
	for _, r := range text {
		if r >= 0x0600 && r <= 0x06FF {
			return true
		}
	}
	return false
}
