// Package liveview keeps the fixed set of externally displayed documents in
// step with engine state. Views are a best-effort cache: a failed push is
// reported to the caller and never rolls anything back.
package liveview

import (
	"context"
	"errors"
	"fmt"

	"github.com/lalith-99/weighin/internal/apperr"
	"github.com/lalith-99/weighin/internal/models"
	"github.com/lalith-99/weighin/internal/repository"
	"github.com/lalith-99/weighin/internal/surface"
	"go.uber.org/zap"
)

// ErrUnplaced means the community has not configured a channel for the
// document. Callers skip such documents.
var ErrUnplaced = apperr.New(apperr.ErrNotFound, "no channel configured for this view")

type Reconciler struct {
	configs repository.ConfigRepository
	surface surface.Surface
	logger  *zap.Logger
}

func NewReconciler(configs repository.ConfigRepository, s surface.Surface, logger *zap.Logger) *Reconciler {
	return &Reconciler{configs: configs, surface: s, logger: logger}
}

// Ensure resolves the stored handle for doc, creating a placeholder and
// persisting its handle when the stored one is missing or stale. Safe to
// call on every pass.
func (r *Reconciler) Ensure(ctx context.Context, communityID string, doc models.Document) (string, error) {
	cfg, err := r.config(ctx, communityID)
	if err != nil {
		return "", err
	}
	return r.ensure(ctx, cfg, doc)
}

// Push renders content into doc, creating the message first if needed.
func (r *Reconciler) Push(ctx context.Context, communityID string, doc models.Document, content string) error {
	cfg, err := r.config(ctx, communityID)
	if err != nil {
		return err
	}

	handle, err := r.ensure(ctx, cfg, doc)
	if err != nil {
		return err
	}

	err = r.surface.Edit(ctx, cfg.ChannelFor(doc), handle, content)
	if errors.Is(err, surface.ErrMessageNotFound) {
		// Deleted between Ensure and Edit. Forget it and try once more.
		cfg.SetHandle(doc, "")
		if handle, err = r.ensure(ctx, cfg, doc); err != nil {
			return err
		}
		err = r.surface.Edit(ctx, cfg.ChannelFor(doc), handle, content)
	}
	if err != nil {
		return fmt.Errorf("push %s: %w: %w", doc, apperr.ErrExternalUnavailable, err)
	}
	return nil
}

func (r *Reconciler) config(ctx context.Context, communityID string) (*models.CommunityConfig, error) {
	cfg, err := r.configs.Get(ctx, communityID)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if cfg == nil {
		return nil, apperr.ErrNoConfig
	}
	return cfg, nil
}

func (r *Reconciler) ensure(ctx context.Context, cfg *models.CommunityConfig, doc models.Document) (string, error) {
	channelID := cfg.ChannelFor(doc)
	if channelID == "" {
		return "", ErrUnplaced
	}

	if handle := cfg.Handle(doc); handle != "" {
		_, err := r.surface.Fetch(ctx, channelID, handle)
		if err == nil {
			return handle, nil
		}
		if !errors.Is(err, surface.ErrMessageNotFound) {
			return "", fmt.Errorf("resolve %s: %w: %w", doc, apperr.ErrExternalUnavailable, err)
		}
		r.logger.Info("live view handle is stale, recreating",
			zap.String("community_id", cfg.CommunityID),
			zap.String("document", string(doc)),
			zap.String("handle", handle),
		)
	}

	handle, err := r.surface.Post(ctx, channelID, Placeholder(doc))
	if err != nil {
		return "", fmt.Errorf("create %s: %w: %w", doc, apperr.ErrExternalUnavailable, err)
	}
	if err := r.configs.SetHandle(ctx, cfg.CommunityID, doc, handle); err != nil {
		return "", fmt.Errorf("persist %s handle: %w", doc, err)
	}
	cfg.SetHandle(doc, handle)
	return handle, nil
}
