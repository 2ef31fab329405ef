package farmgpt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// historyLimit caps how many recent exchanges are kept and replayed per user.
const historyLimit = 5

const historyTTL = 24 * time.Hour

// History stores each user's recent exchanges in Redis, newest first.
type History struct {
	client *redis.Client
}

// NewHistory constructs a History.
func NewHistory(client *redis.Client) *History {
	return &History{client: client}
}

func historyKey(userID int64) string {
	return fmt.Sprintf("farmgpt:history:%d", userID)
}

// Recent returns the user's last exchanges in chronological order.
func (h *History) Recent(ctx context.Context, userID int64) ([]Exchange, error) {
	raw, err := h.client.LRange(ctx, historyKey(userID), 0, historyLimit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("farmgpt: load history: %w", err)
	}

	exchanges := make([]Exchange, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		var ex Exchange
		if err := json.Unmarshal([]byte(raw[i]), &ex); err != nil {
			continue
		}
		exchanges = append(exchanges, ex)
	}
	return exchanges, nil
}

// Append records an exchange and trims the list to the limit.
func (h *History) Append(ctx context.Context, userID int64, ex Exchange) error {
	payload, err := json.Marshal(ex)
	if err != nil {
		return fmt.Errorf("farmgpt: encode exchange: %w", err)
	}

	key := historyKey(userID)
	pipe := h.client.TxPipeline()
	pipe.LPush(ctx, key, payload)
	pipe.LTrim(ctx, key, 0, historyLimit-1)
	pipe.Expire(ctx, key, historyTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("farmgpt: save history: %w", err)
	}
	return nil
}
