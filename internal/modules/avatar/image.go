package avatar

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"strings"

	_ "image/gif"
	_ "image/png"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	// Size is the edge length of the stored square portrait.
	Size        = 512
	JPEGQuality = 70
	Extension   = "jpg"
	ContentType = "image/jpeg"
)

// StripDataURL removes a leading "data:<mime>;base64," prefix when present.
func StripDataURL(payload string) string {
	s := strings.TrimSpace(payload)
	if i := strings.Index(s, ";base64,"); i >= 0 && strings.HasPrefix(s, "data:") {
		s = s[i+len(";base64,"):]
	}
	return s
}

// DecodeBase64 accepts standard or raw base64, with or without a data URL prefix.
func DecodeBase64(payload string) ([]byte, error) {
	s := StripDataURL(payload)
	if s == "" {
		return nil, fmt.Errorf("empty image payload")
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
		if err != nil {
			return nil, fmt.Errorf("decode base64: %w", err)
		}
	}
	return raw, nil
}

// Process decodes raw image bytes, stretches them onto a Size x Size canvas
// and returns the JPEG encoding. Aspect ratio is not preserved.
func Process(raw []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("decode image: empty bounds")
	}

	scaled := image.NewRGBA(image.Rect(0, 0, Size, Size))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, b, draw.Over, nil)

	// Flatten onto white; JPEG has no alpha.
	dc := gg.NewContext(Size, Size)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.DrawImage(scaled, 0, 0)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, dc.Image(), &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return out.Bytes(), nil
}

// ProcessBase64 is DecodeBase64 followed by Process.
func ProcessBase64(payload string) ([]byte, error) {
	raw, err := DecodeBase64(payload)
	if err != nil {
		return nil, err
	}
	return Process(raw)
}
