package reading

import "github.com/winglish-nk/Winglish-bot/internal/llm"

// ExerciseSchema is the structured output of exercise generation.
var ExerciseSchema = &llm.Schema{
	Name:        "reading-exercise",
	Description: "A short English reading passage with two multiple-choice questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"passage": map[string]any{
				"type":        "string",
				"description": "The reading passage, 80 to 150 words",
			},
			"questions": map[string]any{
				"type":        "array",
				"description": "Exactly two questions about the passage",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"text": map[string]any{
							"type":        "string",
							"description": "The question, in English",
						},
						"choices": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Exactly four options, in order A, B, C, D, without the letter prefix",
						},
						"answer": map[string]any{
							"type":        "string",
							"enum":        []any{"A", "B", "C", "D"},
							"description": "The key of the correct option",
						},
					},
					"required":             []any{"text", "choices", "answer"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"passage", "questions"},
		"additionalProperties": false,
	},
}

// FeedbackSchema is the structured output of grading.
var FeedbackSchema = &llm.Schema{
	Name:        "reading-feedback",
	Description: "Explanations for a learner's answers to two reading questions",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type":        "array",
				"description": "One entry per question, in order",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"reason": map[string]any{
							"type":        "string",
							"description": "Why the correct option is correct, citing the passage",
						},
						"feedback": map[string]any{
							"type":        "string",
							"description": "Feedback on the learner's choice",
						},
					},
					"required":             []any{"reason", "feedback"},
					"additionalProperties": false,
				},
			},
			"overall_feedback": map[string]any{
				"type":        "string",
				"description": "One or two sentences of overall advice",
			},
		},
		"required":             []any{"questions", "overall_feedback"},
		"additionalProperties": false,
	},
}
