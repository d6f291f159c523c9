package avatar

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBuildPrompt(t *testing.T) {
	got := BuildPrompt("Lyra", "A silver-haired archer", "")
	want := "Create a fantasy character portrait in the size of 96x96 for Lyra. A silver-haired archer. \nHigh quality, detailed, professional illustration style. Character-focused composition."
	if got != want {
		t.Fatalf("prompt: want=%q got=%q", want, got)
	}

	withCtx := BuildPrompt("Lyra", "A silver-haired archer", "The Frozen Crown")
	if !strings.Contains(withCtx, "\nStory context: The Frozen Crown. High quality") {
		t.Fatalf("prompt missing story context: %q", withCtx)
	}
}

func TestSlugAndObjectKey(t *testing.T) {
	cases := map[string]string{
		"Lyra":             "lyra",
		"Old  Man\tWillow": "old-man-willow",
		"Sir Gawain ":      "sir-gawain-",
		"ÉLODIE Dupont":    "élodie-dupont",
	}
	for in, want := range cases {
		if got := Slug(in); got != want {
			t.Fatalf("Slug(%q): want=%q got=%q", in, want, got)
		}
	}

	now := time.UnixMilli(1700000000123)
	if got := ObjectKey("Old Man Willow", now); got != "avatar-old-man-willow-1700000000123.jpg" {
		t.Fatalf("ObjectKey: got=%q", got)
	}
}

func TestInlineFallbackURL(t *testing.T) {
	cases := map[string]string{
		"AAAA":                        "data:image/png;base64,AAAA",
		"data:image/png;base64,AAAA":  "data:image/png;base64,AAAA",
		"data:image/webp;base64,AAAA": "data:image/png;base64,AAAA",
	}
	for in, want := range cases {
		if got := InlineFallbackURL(in); got != want {
			t.Fatalf("InlineFallbackURL(%q): want=%q got=%q", in, want, got)
		}
	}
}

func pngBase64(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestProcessBase64StretchesToSquareJPEG(t *testing.T) {
	out, err := ProcessBase64(pngBase64(t, 64, 32))
	require.NoError(t, err)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	require.Equal(t, Size, img.Bounds().Dx())
	require.Equal(t, Size, img.Bounds().Dy())
}

func TestProcessBase64AcceptsDataURL(t *testing.T) {
	_, err := ProcessBase64("data:image/png;base64," + pngBase64(t, 8, 8))
	require.NoError(t, err)
}

func TestProcessBase64Errors(t *testing.T) {
	_, err := ProcessBase64("")
	require.Error(t, err)

	_, err = ProcessBase64("!!!not base64!!!")
	require.Error(t, err)

	_, err = ProcessBase64(base64.StdEncoding.EncodeToString([]byte("plain text, not an image")))
	require.Error(t, err)
}

func TestUserObjectKey(t *testing.T) {
	now := time.UnixMilli(1782892800000)
	want := "avatar-user-42-1782892800000.jpg"
	if got := UserObjectKey("42", now); got != want {
		t.Fatalf("UserObjectKey: want=%q got=%q", want, got)
	}
}
