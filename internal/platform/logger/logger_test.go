package logger

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func forceScrub(t *testing.T) {
	t.Helper()
	scrubOnce.Do(func() {})
	scrubOn = true
	hashSalt = "salt"
}

func TestScrubRedactsSecretsAndHashesUserIDs(t *testing.T) {
	forceScrub(t)

	kv := scrub([]any{
		"api_key", "sk-live",
		"user_id", uuid.MustParse("7f0c9d2e-1111-2222-3333-444455556666"),
		"avatar_b64", "iVBORw0KGgo",
		"character", "Aria",
	})

	if got := kv[1]; got != redacted {
		t.Fatalf("api_key: want=%q got=%v", redacted, got)
	}
	if got, ok := kv[3].(string); !ok || !strings.HasPrefix(got, "hash:") || len(got) != len("hash:")+12 {
		t.Fatalf("user_id: want 12-char hash got=%v", kv[3])
	}
	if got := kv[5]; got != redacted {
		t.Fatalf("avatar_b64: want=%q got=%v", redacted, got)
	}
	if got := kv[7]; got != "Aria" {
		t.Fatalf("character: want=%q got=%v", "Aria", got)
	}
}

func TestScrubClipsProse(t *testing.T) {
	forceScrub(t)

	long := strings.Repeat("é", maxProseRunes+20)
	kv := scrub([]any{"segment_text", long, "title", long})

	got := kv[1].(string)
	if !strings.HasPrefix(got, strings.Repeat("é", maxProseRunes)) || !strings.HasSuffix(got, "(100 runes)") {
		t.Fatalf("segment_text: got=%q", got)
	}
	if kv[3] != long {
		t.Fatalf("title should pass through untouched")
	}
}

func TestScrubNestedMapsAndOddPairs(t *testing.T) {
	forceScrub(t)

	kv := scrub([]any{"changes", map[string]any{"password": "x", "from": "Old"}, "dangling"})
	m := kv[1].(map[string]any)
	if m["password"] != redacted || m["from"] != "Old" {
		t.Fatalf("nested: got=%v", m)
	}
	if kv[2] != "dangling" {
		t.Fatalf("dangling key: want=%q got=%v", "dangling", kv[2])
	}
}

func TestNewTestModeIsNop(t *testing.T) {
	l, err := New("test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Info("discarded", "k", "v")
	l.With("service", "x").Debug("also discarded")
}
