package services

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/yungbote/mysticwriter-backend/internal/modules/avatar"
	"github.com/yungbote/mysticwriter-backend/internal/observability"
	"github.com/yungbote/mysticwriter-backend/internal/platform/dbctx"
	"github.com/yungbote/mysticwriter-backend/internal/platform/gcp"
	"github.com/yungbote/mysticwriter-backend/internal/platform/imagegen"
	"github.com/yungbote/mysticwriter-backend/internal/platform/logger"
)

// AvatarStage names how a generation attempt ended.
type AvatarStage string

const (
	AvatarStageDirectURL      AvatarStage = "direct_url"
	AvatarStageUploaded       AvatarStage = "uploaded"
	AvatarStageFallbackInline AvatarStage = "fallback_inline"
	AvatarStageNoAvatar       AvatarStage = "no_avatar"
)

// AvatarResult is the outcome of one pipeline run. An empty URL means no
// avatar; an empty StorageKey means the URL is not a stored object.
type AvatarResult struct {
	URL        string      `json:"url"`
	StorageKey string      `json:"storage_key"`
	Stage      AvatarStage `json:"stage"`
}

type AvatarService interface {
	GenerateAvatar(ctx context.Context, characterName, description, storyContext string) AvatarResult
	DeleteStored(ctx context.Context, storageKey string) error
}

type avatarService struct {
	log       *logger.Logger
	generator imagegen.Generator
	bucket    gcp.BucketService
	clock     Clock
	metrics   *observability.Metrics
}

// NewAvatarService wires the pipeline. bucket may be nil, in which case
// inline images always take the fallback path.
func NewAvatarService(log *logger.Logger, generator imagegen.Generator, bucket gcp.BucketService, clock Clock) AvatarService {
	if clock == nil {
		clock = systemClock
	}
	return &avatarService{
		log:       log.With("service", "AvatarService"),
		generator: generator,
		bucket:    bucket,
		clock:     clock,
		metrics:   observability.Current(),
	}
}

// GenerateAvatar never returns an error. Every failure degrades to a
// defined result and is logged.
func (as *avatarService) GenerateAvatar(ctx context.Context, characterName, description, storyContext string) AvatarResult {
	res := as.generate(ctx, characterName, description, storyContext)
	as.metrics.ObserveAvatarOutcome(ctx, string(res.Stage))
	return res
}

func (as *avatarService) generate(ctx context.Context, characterName, description, storyContext string) AvatarResult {
	none := AvatarResult{Stage: AvatarStageNoAvatar}
	if as.generator == nil {
		as.log.Warn("avatar generation skipped: no image generator configured", "character", characterName)
		return none
	}

	prompt := avatar.BuildPrompt(characterName, description, storyContext)
	img, err := as.generator.GenerateImage(ctx, prompt)
	if err != nil {
		if errors.Is(err, imagegen.ErrEmptyResult) {
			as.log.Warn("avatar response carried no image", "character", characterName)
		} else {
			as.log.Warn("avatar generation request failed", "character", characterName, "error", err)
		}
		return none
	}

	switch {
	case img.HasInline():
		return as.storeInline(ctx, characterName, strings.TrimSpace(img.B64))
	case img.HasURL():
		return AvatarResult{URL: strings.TrimSpace(img.URL), Stage: AvatarStageDirectURL}
	default:
		as.log.Warn("avatar response carried no image", "character", characterName)
		return none
	}
}

func (as *avatarService) storeInline(ctx context.Context, characterName, b64 string) AvatarResult {
	fallback := AvatarResult{URL: avatar.InlineFallbackURL(b64), Stage: AvatarStageFallbackInline}

	processed, err := avatar.ProcessBase64(b64)
	if err != nil {
		as.log.Warn("avatar processing failed, using inline fallback", "character", characterName, "error", err)
		return fallback
	}
	if as.bucket == nil {
		as.log.Info("object storage disabled, using inline avatar", "character", characterName)
		return fallback
	}

	key := avatar.ObjectKey(characterName, as.clock.now())
	obj, err := as.bucket.UploadFile(dbctx.Context{Ctx: ctx}, key, bytes.NewReader(processed))
	if err != nil {
		as.log.Warn("avatar upload failed, using inline fallback", "character", characterName, "key", key, "error", err)
		return fallback
	}
	if strings.TrimSpace(obj.URL) == "" {
		as.log.Warn("avatar upload returned no url, using inline fallback", "character", characterName, "key", key)
		return fallback
	}
	storedKey := obj.Key
	if storedKey == "" {
		storedKey = key
	}
	return AvatarResult{URL: obj.URL, StorageKey: storedKey, Stage: AvatarStageUploaded}
}

func (as *avatarService) DeleteStored(ctx context.Context, storageKey string) error {
	storageKey = strings.TrimSpace(storageKey)
	if storageKey == "" || as.bucket == nil {
		return nil
	}
	return as.bucket.DeleteFile(dbctx.Context{Ctx: ctx}, storageKey)
}
