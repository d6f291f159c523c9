package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	SugaredLogger *zap.SugaredLogger
}

// New builds a logger for LOG_MODE. "test" and "nop" discard everything;
// LOG_LEVEL overrides the per-mode default level.
func New(mode string) (*Logger, error) {
	var (
		cfg zap.Config
		def zapcore.Level
	)
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "test", "nop":
		return NewNop(), nil
	case "prod", "production":
		cfg, def = zap.NewProductionConfig(), zap.InfoLevel
	default:
		cfg, def = zap.NewDevelopmentConfig(), zap.DebugLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(levelFromEnv(def))
	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}
	return &Logger{SugaredLogger: z.Sugar()}, nil
}

func NewNop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func levelFromEnv(def zapcore.Level) zapcore.Level {
	raw := strings.TrimSpace(os.Getenv("LOG_LEVEL"))
	if raw == "" {
		return def
	}
	if lvl, err := zapcore.ParseLevel(strings.ToLower(raw)); err == nil {
		return lvl
	}
	return def
}

func (l *Logger) Sync() { _ = l.SugaredLogger.Sync() }

func (l *Logger) Debug(msg string, kv ...any) { l.SugaredLogger.Debugw(msg, scrub(kv)...) }
func (l *Logger) Info(msg string, kv ...any)  { l.SugaredLogger.Infow(msg, scrub(kv)...) }
func (l *Logger) Warn(msg string, kv ...any)  { l.SugaredLogger.Warnw(msg, scrub(kv)...) }
func (l *Logger) Error(msg string, kv ...any) { l.SugaredLogger.Errorw(msg, scrub(kv)...) }
func (l *Logger) Fatal(msg string, kv ...any) { l.SugaredLogger.Fatalw(msg, scrub(kv)...) }

func (l *Logger) With(kv ...any) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(scrub(kv)...)}
}

const (
	redacted = "[REDACTED]"
	// maxProseRunes bounds story text fields so whole manuscripts never reach the log.
	maxProseRunes = 80
)

var (
	// Substrings of keys whose values are dropped outright.
	secretKeyParts = []string{
		"token", "authorization", "password", "secret", "cookie",
		"api_key", "apikey", "credentials", "b64", "inline_data", "data_url",
	}
	// Keys whose values are replaced by a salted short hash.
	hashedKeys = []string{"user_id", "author_id", "owner_id"}
	// Keys carrying user-written prose.
	proseKeys = []string{"text", "content", "opening", "description", "prompt", "story_context"}
)

var (
	scrubOnce sync.Once
	scrubOn   bool
	hashSalt  string
)

func scrubEnabled() bool {
	scrubOnce.Do(func() {
		switch strings.ToLower(strings.TrimSpace(os.Getenv("LOG_REDACTION_ENABLED"))) {
		case "0", "false", "no", "off":
			scrubOn = false
		default:
			scrubOn = true
		}
		hashSalt = strings.TrimSpace(os.Getenv("LOG_HASH_SALT"))
	})
	return scrubOn
}

func scrub(kv []any) []any {
	if len(kv) == 0 || !scrubEnabled() {
		return kv
	}
	out := make([]any, 0, len(kv))
	for i := 0; i < len(kv); i += 2 {
		if i == len(kv)-1 {
			out = append(out, kv[i])
			break
		}
		name := asString(kv[i])
		out = append(out, name, scrubValue(strings.ToLower(strings.TrimSpace(name)), kv[i+1]))
	}
	return out
}

func scrubValue(key string, val any) any {
	switch {
	case key == "":
	case containsAny(key, secretKeyParts):
		return redacted
	case matchesAny(key, hashedKeys):
		return hashValue(val)
	case matchesAny(key, proseKeys):
		return clip(asString(val))
	}
	switch v := val.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, inner := range v {
			out[k] = scrubValue(strings.ToLower(strings.TrimSpace(k)), inner)
		}
		return out
	case []any:
		out := make([]any, 0, len(v))
		for _, inner := range v {
			out = append(out, scrubValue("", inner))
		}
		return out
	case string:
		if looksLikeJWT(v) {
			return redacted
		}
	}
	return val
}

func containsAny(key string, parts []string) bool {
	for _, p := range parts {
		if strings.Contains(key, p) {
			return true
		}
	}
	return false
}

// matchesAny accepts an exact key or one ending in "_<name>".
func matchesAny(key string, names []string) bool {
	for _, n := range names {
		if key == n || strings.HasSuffix(key, "_"+n) {
			return true
		}
	}
	return false
}

func clip(s string) string {
	if utf8.RuneCountInString(s) <= maxProseRunes {
		return s
	}
	r := []rune(s)
	return string(r[:maxProseRunes]) + fmt.Sprintf("…(%d runes)", len(r))
}

func hashValue(val any) string {
	raw := asString(val)
	if raw == "" {
		return ""
	}
	h := sha256.New()
	if hashSalt != "" {
		_, _ = h.Write([]byte(hashSalt))
	}
	_, _ = h.Write([]byte(raw))
	return "hash:" + hex.EncodeToString(h.Sum(nil))[:12]
}

func looksLikeJWT(s string) bool {
	parts := strings.Split(s, ".")
	return len(parts) == 3 && len(parts[0]) > 10 && len(parts[1]) > 10
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
