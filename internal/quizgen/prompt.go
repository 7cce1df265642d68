package quizgen

import (
	"fmt"
	"strings"

	"github.com/quizcraft/quizcraft/internal/quiz"
)

const (
	easyInstructions   = "Make the questions suitable for beginners with basic knowledge. Use simple language and straightforward concepts."
	mediumInstructions = "Make the questions moderately challenging, suitable for students with intermediate knowledge."
	hardInstructions   = "Make the questions challenging and complex, suitable for advanced students. Include more nuanced concepts and detailed knowledge requirements."
)

const responseFormat = `{
  "questions": [
    {
      "question": "Question text here?",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "correctAnswer": 0,
      "explanation": "Brief explanation of the correct answer"
    }
  ]
}`

// DifficultyInstructions returns the fixed instruction text for d.
// Unrecognized values get the medium text.
func DifficultyInstructions(d quiz.Difficulty) string {
	switch d {
	case quiz.DifficultyEasy:
		return easyInstructions
	case quiz.DifficultyHard:
		return hardInstructions
	default:
		return mediumInstructions
	}
}

// BuildPrompt builds the generation prompt with the default curriculum.
func BuildPrompt(subject string, difficulty quiz.Difficulty) string {
	return DefaultConfig().Prompt(subject, difficulty)
}

// Prompt builds the generation prompt for subject at the given difficulty.
func (c Config) Prompt(subject string, difficulty quiz.Difficulty) string {
	label := string(difficulty)
	if label == "" {
		label = string(quiz.DifficultyMedium)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Generate a quiz about %s with exactly %d multiple choice questions.\n", subject, quiz.QuestionCount)
	fmt.Fprintf(&b, "Each question should have %d options with exactly one correct answer.\n", quiz.OptionCount)
	if c.Curriculum != "" {
		fmt.Fprintf(&b, "Generate specifically for %s.\n", c.Curriculum)
	}
	fmt.Fprintf(&b, "\nDifficulty level: %s\n", strings.ToUpper(label))
	b.WriteString(DifficultyInstructions(difficulty))
	b.WriteString("\n\nFormat your response as a JSON object with this structure:\n")
	b.WriteString(responseFormat)
	b.WriteString("\n\nMake sure the JSON is valid and parseable.")
	return b.String()
}
