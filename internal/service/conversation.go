package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/recipefy/genai/internal/models"
)

// maxStoredTurns caps how many turns a conversation keeps. Storage is
// append-only up to the cap; rendering into prompts is bounded separately.
const maxStoredTurns = 50

// conversationTTL expires idle conversations from redis.
const conversationTTL = 24 * time.Hour

// ConversationStore holds per-conversation turn history. Implementations
// must be safe under concurrent access from different conversations.
type ConversationStore interface {
	Append(ctx context.Context, conversationID string, turn models.ConversationTurn) error
	History(ctx context.Context, conversationID string) ([]models.ConversationTurn, error)
}

// RedisConversationStore keeps each conversation as a redis list, trimmed to
// the newest maxStoredTurns entries.
type RedisConversationStore struct {
	redis *redis.Client
}

// NewRedisConversationStore creates a new RedisConversationStore instance
func NewRedisConversationStore(client *redis.Client) *RedisConversationStore {
	return &RedisConversationStore{redis: client}
}

func conversationKey(conversationID string) string {
	return "chat:history:" + conversationID
}

// Append pushes a turn onto the conversation list.
func (s *RedisConversationStore) Append(ctx context.Context, conversationID string, turn models.ConversationTurn) error {
	data, err := json.Marshal(turn)
	if err != nil {
		return fmt.Errorf("failed to marshal turn: %w", err)
	}

	key := conversationKey(conversationID)
	pipe := s.redis.Pipeline()
	pipe.RPush(ctx, key, data)
	pipe.LTrim(ctx, key, -maxStoredTurns, -1)
	pipe.Expire(ctx, key, conversationTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append turn: %w", err)
	}

	return nil
}

// History returns the stored turns, oldest first.
func (s *RedisConversationStore) History(ctx context.Context, conversationID string) ([]models.ConversationTurn, error) {
	raw, err := s.redis.LRange(ctx, conversationKey(conversationID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	turns := make([]models.ConversationTurn, 0, len(raw))
	for _, item := range raw {
		var turn models.ConversationTurn
		if err := json.Unmarshal([]byte(item), &turn); err != nil {
			continue
		}
		turns = append(turns, turn)
	}
	return turns, nil
}

// MemoryConversationStore is a mutex-guarded in-memory store used in tests
// and in deployments without redis.
type MemoryConversationStore struct {
	mu    sync.RWMutex
	turns map[string][]models.ConversationTurn
}

// NewMemoryConversationStore creates a new MemoryConversationStore instance
func NewMemoryConversationStore() *MemoryConversationStore {
	return &MemoryConversationStore{
		turns: make(map[string][]models.ConversationTurn),
	}
}

// Append adds a turn to the conversation, evicting the oldest entry once
// the cap is reached.
func (s *MemoryConversationStore) Append(ctx context.Context, conversationID string, turn models.ConversationTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := append(s.turns[conversationID], turn)
	if len(history) > maxStoredTurns {
		history = history[len(history)-maxStoredTurns:]
	}
	s.turns[conversationID] = history
	return nil
}

// History returns a copy of the stored turns, oldest first.
func (s *MemoryConversationStore) History(ctx context.Context, conversationID string) ([]models.ConversationTurn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	history := s.turns[conversationID]
	out := make([]models.ConversationTurn, len(history))
	copy(out, history)
	return out, nil
}
