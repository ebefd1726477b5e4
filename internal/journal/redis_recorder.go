package journal

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/whatsb/whatsb-embedding-example/internal/logger"
)

// RedisRecorder keeps the in-memory journal and mirrors every entry into a
// capped Redis list so operators can tail the protocol journal across
// processes. Redis failures are logged and swallowed; the journal stays
// observational.
type RedisRecorder struct {
	inner  *Memory
	client *redis.Client
	key    string
	max    int64
}

func NewRedisRecorder(client *redis.Client, key string, max int64) *RedisRecorder {
	if key == "" {
		key = "journal:entries"
	}
	if max <= 0 {
		max = defaultCap
	}
	return &RedisRecorder{
		inner:  NewMemory(int(max)),
		client: client,
		key:    key,
		max:    max,
	}
}

func (r *RedisRecorder) Append(text string, direction Direction) Entry {
	e := r.inner.Append(text, direction)

	data, err := json.Marshal(e)
	if err == nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		pipe := r.client.Pipeline()
		pipe.RPush(ctx, r.key, data)
		pipe.LTrim(ctx, r.key, -r.max, -1)
		_, err = pipe.Exec(ctx)
	}

	if err != nil {
		logger.Error("journal redis append failed", map[string]any{
			"error": err.Error(),
		})
	}

	return e
}

func (r *RedisRecorder) Entries() []Entry {
	return r.inner.Entries()
}
