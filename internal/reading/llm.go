package reading

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/winglish-nk/Winglish-bot/internal/llm"
)

// LLMConfig tunes the LLM-backed generator and grader.
type LLMConfig struct {
	Kind        string
	Level       int
	MaxTokens   int
	Temperature float64
}

// DefaultLLMConfig returns the settings used by the play command.
func DefaultLLMConfig() LLMConfig {
	return LLMConfig{
		Kind:        "toeic",
		Level:       50,
		MaxTokens:   1200,
		Temperature: 0.7,
	}
}

// WordSource suggests vocabulary to weave into a passage.
type WordSource func(ctx context.Context, userID string) []string

// LLMGenerator implements Generator with an LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	cfg      LLMConfig
	words    WordSource
}

func NewLLMGenerator(provider llm.Provider, cfg LLMConfig, words WordSource) *LLMGenerator {
	return &LLMGenerator{provider: provider, cfg: cfg, words: words}
}

type exerciseOutput struct {
	Passage   string     `json:"passage"`
	Questions []Question `json:"questions"`
}

func (g *LLMGenerator) Generate(ctx context.Context, userID string) (*Exercise, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeReadingGen)

	data := generatorPromptData{Kind: g.cfg.Kind, Level: g.cfg.Level}
	if g.words != nil {
		data.Words = g.words(ctx, userID)
	}
	userMsg, err := render(generatorUserTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("build reading prompt: %w", err)
	}

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      generatorSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: userMsg}},
		Schema:      ExerciseSchema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: g.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw exerciseOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse reading exercise: %w", err)
	}
	if len(raw.Questions) != Questions {
		return nil, fmt.Errorf("%w: got %d questions", ErrInvalidExercise, len(raw.Questions))
	}

	ex := &Exercise{Passage: raw.Passage}
	copy(ex.Questions[:], raw.Questions)
	if err := ex.Validate(); err != nil {
		return nil, err
	}
	return ex, nil
}

// LLMGrader implements Grader with an LLM provider.
type LLMGrader struct {
	provider llm.Provider
	cfg      LLMConfig
}

func NewLLMGrader(provider llm.Provider, cfg LLMConfig) *LLMGrader {
	return &LLMGrader{provider: provider, cfg: cfg}
}

func (g *LLMGrader) Grade(ctx context.Context, req GradeRequest) (*Feedback, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeReadingGrade)

	data := graderPromptData{Passage: req.Passage}
	for i, q := range req.Questions {
		data.Items = append(data.Items, graderPromptItem{
			Number:     i + 1,
			Text:       q.Text,
			Choices:    q.ChoicesLine(),
			Answer:     q.Answer,
			UserAnswer: req.Answers[i],
		})
	}
	userMsg, err := render(graderUserTemplate, data)
	if err != nil {
		return nil, fmt.Errorf("build grading prompt: %w", err)
	}

	resp, err := g.provider.Generate(ctx, llm.Request{
		System:      graderSystemPrompt,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: userMsg}},
		Schema:      FeedbackSchema,
		MaxTokens:   g.cfg.MaxTokens,
		Temperature: 0.3,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM grading failed: %w", err)
	}

	var fb Feedback
	if err := json.Unmarshal(resp.Content, &fb); err != nil {
		return nil, fmt.Errorf("failed to parse reading feedback: %w", err)
	}
	if len(fb.Questions) != Questions {
		return nil, fmt.Errorf("reading feedback has %d entries, want %d", len(fb.Questions), Questions)
	}
	return &fb, nil
}
