package service

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	historyKeyPrefix = "chat:history:"
	historyDepth     = 10
)

// ConversationHistory keeps the rolling chat transcript per session in redis
// so the assistant can hand recent turns to the language model. Only the last
// ten entries are retained.
type ConversationHistory interface {
	Append(ctx context.Context, sessionID, entry string) error
	List(ctx context.Context, sessionID string) ([]string, error)
	Clear(ctx context.Context, sessionID string) error
}

type historyImpl struct {
	rdb *redis.Client
}

func NewConversationHistory(rdb *redis.Client) ConversationHistory {
	return &historyImpl{rdb: rdb}
}

func (h *historyImpl) Append(ctx context.Context, sessionID, entry string) error {
	key := historyKeyPrefix + sessionID
	pipe := h.rdb.TxPipeline()
	pipe.RPush(ctx, key, entry)
	pipe.LTrim(ctx, key, -historyDepth, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("append history: %w", err)
	}
	return nil
}

func (h *historyImpl) List(ctx context.Context, sessionID string) ([]string, error) {
	entries, err := h.rdb.LRange(ctx, historyKeyPrefix+sessionID, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	return entries, nil
}

func (h *historyImpl) Clear(ctx context.Context, sessionID string) error {
	if err := h.rdb.Del(ctx, historyKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}
