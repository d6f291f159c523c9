package services

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/yungbote/mysticwriter-backend/internal/platform/logger"
	"github.com/yungbote/mysticwriter-backend/internal/platform/openai"
	"github.com/yungbote/mysticwriter-backend/internal/platform/promptstyle"
)

const (
	DefaultContinuationModel = "gemini-2.5-pro"

	continuationFallback = "The story continues... Tell me more about what happens next."

	randomCharacterDefaultName        = "Mysterious Stranger"
	randomCharacterDefaultDescription = "A mysterious figure whose past remains unknown."
	randomCharacterFallbackName       = "Wandering Traveler"
	randomCharacterFallbackDesc       = "A mysterious figure cloaked in shadows, with stories untold and secrets hidden in their eyes."

	untitledStory = "Untitled Story"

	toneUnparsed        = "Unable to determine"
	toneUnparsedHint    = "Continue writing to develop the story further"
	toneUnavailable     = "Unknown"
	toneUnavailableHint = "Keep writing and developing your story"
)

var fallbackTitles = []string{untitledStory, "New Adventure", "The Journey Begins"}

var codeFence = regexp.MustCompile("```json\\n?|\\n?```")

// ChatClient is the text-generation half of the AI gateway.
type ChatClient interface {
	ChatCompletion(ctx context.Context, messages []openai.Message, opts openai.ChatOptions) (string, error)
}

// ContinueOptions tunes a story continuation. Zero values take the defaults.
type ContinueOptions struct {
	Model       string   `json:"model,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   int      `json:"max_tokens,omitempty"`
}

type GeneratedCharacter struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type ToneAnalysis struct {
	Tone        string   `json:"tone"`
	Suggestions []string `json:"suggestions"`
}

type StoryAIService interface {
	ContinueStory(ctx context.Context, userText, storyContext string, opts ContinueOptions) string
	DescribeCharacter(ctx context.Context, name, traits string) (string, error)
	RandomCharacter(ctx context.Context, storyTitle, storyContext string) GeneratedCharacter
	SuggestTitles(ctx context.Context, content string, count int) []string
	AnalyzeTone(ctx context.Context, content string) ToneAnalysis
}

type storyAIService struct {
	log  *logger.Logger
	chat ChatClient
}

func NewStoryAIService(log *logger.Logger, chat ChatClient) StoryAIService {
	return &storyAIService{
		log:  log.With("service", "StoryAIService"),
		chat: chat,
	}
}

func temp(v float64) *float64 { return &v }

// ResolveModel maps a short model name to its gateway-qualified form.
func ResolveModel(model string) string {
	model = strings.TrimSpace(model)
	if model == "" {
		model = DefaultContinuationModel
	}
	if strings.Contains(model, "/") {
		return model
	}
	if strings.HasPrefix(model, "gpt") {
		return "openai/" + model
	}
	return "google/" + model
}

func (s *storyAIService) complete(ctx context.Context, mode promptstyle.Mode, system, user string, opts openai.ChatOptions) (string, error) {
	if s.chat == nil {
		return "", fmt.Errorf("text generation not configured")
	}
	return s.chat.ChatCompletion(ctx, []openai.Message{
		{Role: "system", Content: promptstyle.ApplySystem(system, mode)},
		{Role: "user", Content: user},
	}, opts)
}

// ContinueStory falls back to a fixed line on any failure.
func (s *storyAIService) ContinueStory(ctx context.Context, userText, storyContext string, opts ContinueOptions) string {
	contextLine := ""
	if strings.TrimSpace(storyContext) != "" {
		contextLine = "Story context: " + storyContext
	}
	system := "You are a creative writing assistant for MysticWriter. \n" +
		"Your role is to help users continue their stories with engaging, coherent narrative.\n" +
		contextLine + "\n" +
		"Write in a compelling, narrative style that matches the user's tone and genre.\n" +
		"Keep responses focused and engaging, typically 2-4 sentences."

	chatOpts := openai.ChatOptions{
		Model:       ResolveModel(opts.Model),
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}
	if chatOpts.Temperature == nil {
		chatOpts.Temperature = temp(0.7)
	}
	if chatOpts.MaxTokens <= 0 {
		chatOpts.MaxTokens = 500
	}

	out, err := s.complete(ctx, promptstyle.ModeText, system, userText, chatOpts)
	if err != nil || strings.TrimSpace(out) == "" {
		s.log.Warn("story continuation failed, using fallback", "error", err)
		return continuationFallback
	}
	return out
}

func (s *storyAIService) DescribeCharacter(ctx context.Context, name, traits string) (string, error) {
	out, err := s.complete(ctx, promptstyle.ModeText,
		"You are a creative character designer. Generate a vivid, engaging character description based on the provided information.",
		fmt.Sprintf("Create a detailed character description for %s with these traits: %s. Keep it to 2-3 sentences.", name, traits),
		openai.ChatOptions{Model: "google/gemini-2.5-pro", Temperature: temp(0.8), MaxTokens: 200},
	)
	if err != nil {
		return "", fmt.Errorf("generate character description: %w", err)
	}
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("generate character description: empty response")
	}
	return out, nil
}

func (s *storyAIService) RandomCharacter(ctx context.Context, storyTitle, storyContext string) GeneratedCharacter {
	contextInfo := ""
	if storyContext != "" {
		contextInfo = "Story context: " + truncateRunes(storyContext, 300)
	}
	user := fmt.Sprintf("Generate a random character for a story titled \"%s\". %s\n\n", storyTitle, contextInfo) +
		"Return ONLY a JSON object with this exact format (no markdown, no extra text):\n" +
		`{"name": "Character Name", "description": "A vivid 2-3 sentence description of their appearance, personality, and role"}`

	out, err := s.complete(ctx, promptstyle.ModeJSON,
		"You are a creative character generator for stories. Generate unique, interesting characters that fit the story's theme and genre.",
		user,
		openai.ChatOptions{Model: "google/gemini-2.5-pro", Temperature: temp(0.9), MaxTokens: 200},
	)
	if err != nil {
		s.log.Warn("random character generation failed, using fallback", "error", err)
		return GeneratedCharacter{Name: randomCharacterFallbackName, Description: randomCharacterFallbackDesc}
	}

	raw := strings.TrimSpace(codeFence.ReplaceAllString(strings.TrimSpace(out), ""))
	var parsed GeneratedCharacter
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		s.log.Warn("random character response was not json, using fallback", "error", err)
		return GeneratedCharacter{Name: randomCharacterFallbackName, Description: randomCharacterFallbackDesc}
	}
	if strings.TrimSpace(parsed.Name) == "" {
		parsed.Name = randomCharacterDefaultName
	}
	if strings.TrimSpace(parsed.Description) == "" {
		parsed.Description = randomCharacterDefaultDescription
	}
	return parsed
}

func (s *storyAIService) SuggestTitles(ctx context.Context, content string, count int) []string {
	if count <= 0 {
		count = 3
	}
	user := fmt.Sprintf("Generate %d creative story titles for this content: \"%s...\". \n", count, truncateRunes(content, 200)) +
		"Return only the titles, one per line, without numbering or additional text."

	out, err := s.complete(ctx, promptstyle.ModeText,
		"You are a creative title generator for stories. Generate compelling, engaging titles.",
		user,
		openai.ChatOptions{Model: "google/gemini-2.5-pro", Temperature: temp(0.9), MaxTokens: 150},
	)
	if err != nil {
		s.log.Warn("title generation failed, using defaults", "error", err)
		return append([]string(nil), fallbackTitles...)
	}

	titles := make([]string, 0, count)
	for _, line := range strings.Split(out, "\n") {
		if t := strings.TrimSpace(line); t != "" {
			titles = append(titles, t)
			if len(titles) == count {
				break
			}
		}
	}
	if len(titles) == 0 {
		return []string{untitledStory}
	}
	return titles
}

func (s *storyAIService) AnalyzeTone(ctx context.Context, content string) ToneAnalysis {
	user := fmt.Sprintf("Analyze this story and provide feedback:\n\"%s\"\n\n", content) +
		`Respond in JSON format: {"tone": "description of tone", "suggestions": ["suggestion1", "suggestion2", "suggestion3"]}`

	out, err := s.complete(ctx, promptstyle.ModeJSON,
		"You are a writing coach. Analyze the tone of the story and provide constructive suggestions for improvement.",
		user,
		openai.ChatOptions{Model: "openai/gpt-4o", Temperature: temp(0.7), MaxTokens: 300},
	)
	if err != nil {
		s.log.Warn("tone analysis failed", "error", err)
		return ToneAnalysis{Tone: toneUnavailable, Suggestions: []string{toneUnavailableHint}}
	}

	var parsed ToneAnalysis
	raw := strings.TrimSpace(codeFence.ReplaceAllString(strings.TrimSpace(out), ""))
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil || strings.TrimSpace(parsed.Tone) == "" {
		return ToneAnalysis{Tone: toneUnparsed, Suggestions: []string{toneUnparsedHint}}
	}
	if parsed.Suggestions == nil {
		parsed.Suggestions = []string{}
	}
	return parsed
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
