package gemini

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/yungbote/mysticwriter-backend/internal/observability"
	"github.com/yungbote/mysticwriter-backend/internal/platform/imagegen"
	"github.com/yungbote/mysticwriter-backend/internal/platform/logger"
)

const DefaultImageModel = "gemini-2.5-flash-image-preview"

type Config struct {
	APIKey  string
	Model   string
	BaseURL string
}

// ImageGenerator asks a Gemini image model for a single inline image.
type ImageGenerator struct {
	log    *logger.Logger
	client *genai.Client
	model  string
}

func NewImageGenerator(ctx context.Context, log *logger.Logger, cfg Config) (*ImageGenerator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("missing GEMINI_API_KEY")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultImageModel
	}
	clientCfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: base}
	}
	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &ImageGenerator{
		log:    log.With("service", "GeminiImageGenerator"),
		client: client,
		model:  model,
	}, nil
}

func (g *ImageGenerator) GenerateImage(ctx context.Context, prompt string) (imagegen.Image, error) {
	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
		CandidateCount:     1,
	})
	if err != nil {
		observability.Current().ObserveAIRequest(ctx, "gemini", "image", "error", time.Since(start))
		return imagegen.Image{}, fmt.Errorf("GenAI image generation failed: %w", err)
	}
	img, err := imageFromResponse(resp)
	status := "ok"
	if err != nil {
		status = "empty"
	}
	observability.Current().ObserveAIRequest(ctx, "gemini", "image", status, time.Since(start))
	return img, err
}

// imageFromResponse takes the first inline image part of the first candidate.
func imageFromResponse(resp *genai.GenerateContentResponse) (imagegen.Image, error) {
	if resp == nil {
		return imagegen.Image{}, imagegen.ErrEmptyResult
	}
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil || part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			if mt := part.InlineData.MIMEType; mt != "" && !strings.HasPrefix(mt, "image/") {
				continue
			}
			return imagegen.Image{
				B64:      base64.StdEncoding.EncodeToString(part.InlineData.Data),
				MimeType: part.InlineData.MIMEType,
			}, nil
		}
		if uri := fileURI(cand.Content.Parts); uri != "" {
			return imagegen.Image{URL: uri}, nil
		}
	}
	return imagegen.Image{}, imagegen.ErrEmptyResult
}

func fileURI(parts []*genai.Part) string {
	for _, part := range parts {
		if part != nil && part.FileData != nil && strings.TrimSpace(part.FileData.FileURI) != "" {
			return strings.TrimSpace(part.FileData.FileURI)
		}
	}
	return ""
}
