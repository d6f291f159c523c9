package redis

import (
	"testing"

	"github.com/yungbote/mysticwriter-backend/internal/platform/logger"
)

func TestKeyJoinsPrefixAndParts(t *testing.T) {
	c := &JSONCache{prefix: "mw"}
	if got := c.key("analytics", "summary", "u1"); got != "mw:analytics:summary:u1" {
		t.Fatalf("key: want=%q got=%q", "mw:analytics:summary:u1", got)
	}
}

func TestNewJSONCacheRequiresAddr(t *testing.T) {
	if _, err := NewJSONCache(logger.NewNop(), Config{}); err == nil {
		t.Fatalf("NewJSONCache: expected error for missing addr")
	}
}

func TestCloseOnNilCache(t *testing.T) {
	var c *JSONCache
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
