package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mysticwriter-backend/internal/data/repos"
	"github.com/yungbote/mysticwriter-backend/internal/data/repos/testutil"
	types "github.com/yungbote/mysticwriter-backend/internal/domain"
	"github.com/yungbote/mysticwriter-backend/internal/modules/analytics"
	"github.com/yungbote/mysticwriter-backend/internal/platform/dbctx"
	"github.com/yungbote/mysticwriter-backend/internal/platform/gcp"
	"github.com/yungbote/mysticwriter-backend/internal/platform/imagegen"
	"github.com/yungbote/mysticwriter-backend/internal/platform/logger"
	"github.com/yungbote/mysticwriter-backend/internal/platform/openai"
	"gorm.io/gorm"
)

type fakeGenerator struct {
	mu      sync.Mutex
	img     imagegen.Image
	err     error
	prompts []string
}

func (f *fakeGenerator) GenerateImage(_ context.Context, prompt string) (imagegen.Image, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	return f.img, f.err
}

func (f *fakeGenerator) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type fakeBucket struct {
	mu        sync.Mutex
	uploadErr error
	noURL     bool
	uploaded  map[string][]byte
	deleted   []string
}

var _ gcp.BucketService = (*fakeBucket)(nil)

func newFakeBucket() *fakeBucket { return &fakeBucket{uploaded: map[string][]byte{}} }

func (b *fakeBucket) UploadFile(_ dbctx.Context, key string, file io.Reader) (gcp.StoredObject, error) {
	if b.uploadErr != nil {
		return gcp.StoredObject{}, b.uploadErr
	}
	raw, err := io.ReadAll(file)
	if err != nil {
		return gcp.StoredObject{}, err
	}
	b.mu.Lock()
	b.uploaded[key] = raw
	b.mu.Unlock()
	if b.noURL {
		return gcp.StoredObject{Key: key}, nil
	}
	return gcp.StoredObject{Key: key, URL: b.GetPublicURL(key)}, nil
}

func (b *fakeBucket) DeleteFile(_ dbctx.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleted = append(b.deleted, key)
	delete(b.uploaded, key)
	return nil
}

func (b *fakeBucket) GetPublicURL(key string) string {
	return "https://cdn.example.com/character-avatars/" + key
}

func (b *fakeBucket) Close() error { return nil }

// fakeChat answers by matching a substring of the system prompt.
type fakeChat struct {
	mu      sync.Mutex
	replies map[string]string
	err     error
	calls   []openai.ChatOptions
	users   []string
}

func (f *fakeChat) ChatCompletion(_ context.Context, messages []openai.Message, opts openai.ChatOptions) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, opts)
	if len(messages) > 1 {
		f.users = append(f.users, messages[1].Content)
	}
	if f.err != nil {
		return "", f.err
	}
	for needle, reply := range f.replies {
		if strings.Contains(messages[0].Content, needle) {
			return reply, nil
		}
	}
	return "", errors.New("no canned reply")
}

type fakeSummaryCache struct {
	mu          sync.Mutex
	entries     map[string]analytics.Summary
	getErr      error
	invalidated int
}

func newFakeSummaryCache() *fakeSummaryCache {
	return &fakeSummaryCache{entries: map[string]analytics.Summary{}}
}

func (c *fakeSummaryCache) Get(_ context.Context, userID uuid.UUID, day string) (analytics.Summary, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return analytics.Summary{}, false, c.getErr
	}
	s, ok := c.entries[userID.String()+day]
	return s, ok, nil
}

func (c *fakeSummaryCache) Set(_ context.Context, userID uuid.UUID, day string, s analytics.Summary, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID.String()+day] = s
	return nil
}

func (c *fakeSummaryCache) Invalidate(_ context.Context, userID uuid.UUID, day string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	delete(c.entries, userID.String()+day)
	return nil
}

type failingActivityRepo struct {
	repos.ActivityRepo
}

func (failingActivityRepo) ListByUser(context.Context, *gorm.DB, uuid.UUID) ([]*types.DailyActivityRecord, error) {
	return nil, errors.New("db down")
}

func fixedClock(t time.Time) Clock { return func() time.Time { return t } }

func testLog() *logger.Logger { return logger.NewNop() }

func pngPayload(t *testing.T) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: uint8(x * 10), B: uint8(y * 10), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

type harness struct {
	db         *gorm.DB
	stories    repos.StoryRepo
	segments   repos.SegmentRepo
	characters repos.CharacterRepo
	history    repos.HistoryRepo
	activity   repos.ActivityRepo
	profiles   repos.ProfileRepo
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	return &harness{
		db:         db,
		stories:    repos.NewStoryRepo(db, log),
		segments:   repos.NewSegmentRepo(db, log),
		characters: repos.NewCharacterRepo(db, log),
		history:    repos.NewHistoryRepo(db, log),
		activity:   repos.NewActivityRepo(db, log),
		profiles:   repos.NewProfileRepo(db, log),
	}
}

type racingSegmentRepo struct {
	repos.SegmentRepo
	err error
}

func (r racingSegmentRepo) Append(context.Context, *gorm.DB, *types.StorySegment) (*types.StorySegment, error) {
	return nil, r.err
}
