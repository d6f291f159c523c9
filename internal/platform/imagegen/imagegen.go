// Package imagegen is the provider-neutral contract for text-to-image calls.
package imagegen

import (
	"context"
	"errors"
	"strings"
)

// ErrEmptyResult means the provider answered but carried neither a URL nor inline data.
var ErrEmptyResult = errors.New("image response missing url and inline data")

// Image is exactly one of a remote URL or base64 payload. B64 wins when both are set.
type Image struct {
	URL           string
	B64           string
	MimeType      string
	RevisedPrompt string
}

func (i Image) HasInline() bool { return strings.TrimSpace(i.B64) != "" }
func (i Image) HasURL() bool    { return strings.TrimSpace(i.URL) != "" }

type Generator interface {
	// GenerateImage makes a single request; callers own any retry policy.
	GenerateImage(ctx context.Context, prompt string) (Image, error)
}
