// Package redisboard is a Surface backed by Redis: every message is a hash
// keyed by channel and handle, and every write is published on the
// channel's topic so display clients can follow along.
package redisboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lalith-99/weighin/internal/surface"
	"github.com/redis/go-redis/v9"
)

const (
	MessageKeyPrefix = "board:msg"
	TopicKeyPrefix   = "board:topic"
)

type Board struct {
	client *redis.Client
}

// New connects to redisURL (redis://host:port/db) and pings it.
func New(ctx context.Context, redisURL string) (*Board, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	opts.PoolSize = 10
	opts.MinIdleConns = 2

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &Board{client: client}, nil
}

func (b *Board) Close() error {
	return b.client.Close()
}

func MessageKey(channelID, handle string) string {
	return fmt.Sprintf("%s:%s:%s", MessageKeyPrefix, channelID, handle)
}

func TopicKey(channelID string) string {
	return fmt.Sprintf("%s:%s", TopicKeyPrefix, channelID)
}

func (b *Board) Post(ctx context.Context, channelID, content string) (string, error) {
	handle := uuid.NewString()
	if err := b.write(ctx, channelID, handle, content); err != nil {
		return "", fmt.Errorf("post message: %w", err)
	}
	return handle, nil
}

func (b *Board) Edit(ctx context.Context, channelID, handle, content string) error {
	n, err := b.client.Exists(ctx, MessageKey(channelID, handle)).Result()
	if err != nil {
		return fmt.Errorf("check message: %w", err)
	}
	if n == 0 {
		return surface.ErrMessageNotFound
	}
	if err := b.write(ctx, channelID, handle, content); err != nil {
		return fmt.Errorf("edit message: %w", err)
	}
	return nil
}

func (b *Board) Fetch(ctx context.Context, channelID, handle string) (string, error) {
	content, err := b.client.HGet(ctx, MessageKey(channelID, handle), "content").Result()
	if errors.Is(err, redis.Nil) {
		return "", surface.ErrMessageNotFound
	}
	if err != nil {
		return "", fmt.Errorf("fetch message: %w", err)
	}
	return content, nil
}

// Subscribe follows every write to channelID. Callers must Close the
// returned PubSub.
func (b *Board) Subscribe(ctx context.Context, channelID string) *redis.PubSub {
	return b.client.Subscribe(ctx, TopicKey(channelID))
}

// Stream decodes the channel topic into updates. Malformed payloads are
// dropped.
func (b *Board) Stream(ctx context.Context, channelID string) (<-chan surface.Update, error) {
	sub := b.Subscribe(ctx, channelID)
	// Wait for the subscription to be confirmed so no write is missed.
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", channelID, err)
	}

	out := make(chan surface.Update, 16)
	go func() {
		defer close(out)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				u, err := DecodeUpdate(msg.Payload)
				if err != nil {
					continue
				}
				select {
				case out <- u:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func DecodeUpdate(payload string) (surface.Update, error) {
	var u surface.Update
	if err := json.Unmarshal([]byte(payload), &u); err != nil {
		return surface.Update{}, fmt.Errorf("decode update: %w", err)
	}
	return u, nil
}

func (b *Board) write(ctx context.Context, channelID, handle, content string) error {
	now := time.Now().UTC()
	payload, err := json.Marshal(surface.Update{ChannelID: channelID, Handle: handle, Content: content, At: now})
	if err != nil {
		return fmt.Errorf("marshal update: %w", err)
	}

	_, err = b.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, MessageKey(channelID, handle), "content", content, "updated_at", now.Unix())
		p.Publish(ctx, TopicKey(channelID), payload)
		return nil
	})
	return err
}
