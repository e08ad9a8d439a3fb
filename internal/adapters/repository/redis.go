package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aubridge/torneos/internal/domain/model"
	"github.com/aubridge/torneos/pkg/metrics"
)

// RedisStore implements Store over Redis for deployments that outlive
// the process. Records are JSON blobs under `player:<id>`,
// `tournament:<id>` and `import:<id>` keys, with plain sets as the id
// indexes.
type RedisStore struct {
	client *redis.Client
	prefix string
}

const redisDialTimeout = 5 * time.Second

// NewRedisStore connects to the Redis named by url (redis://host:port/db)
// and verifies the connection with a ping.
func NewRedisStore(ctx context.Context, url string, opts ...RedisOption) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, redisDialTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	s := &RedisStore{client: client}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) key(parts ...string) string {
	k := ""
	for i, p := range parts {
		if i > 0 {
			k += ":"
		}
		k += p
	}
	return s.prefix + k
}

// put stores one JSON record and registers its id in the index set.
func (s *RedisStore) put(ctx context.Context, key, index, id string, v any) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreUpdateLatency(float64(time.Since(start).Milliseconds()))
	}()

	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	pipe.SAdd(ctx, index, id)
	if _, err := pipe.Exec(ctx); err != nil {
		metrics.RecordErrorByComponent("store", "redis_put")
		return fmt.Errorf("store %s: %w", key, err)
	}
	return nil
}

// get loads one JSON record. Returns ErrNotFound when the key is absent.
func (s *RedisStore) get(ctx context.Context, key string, v any) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	data, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrNotFound
	}
	if err != nil {
		metrics.RecordErrorByComponent("store", "redis_get")
		return fmt.Errorf("fetch %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// list loads every record named by an index set. Ids whose record has
// vanished are skipped rather than failing the listing.
func (s *RedisStore) list(ctx context.Context, index, keyKind string, decode func([]byte) error) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreQueryLatency(float64(time.Since(start).Milliseconds()))
	}()

	ids, err := s.client.SMembers(ctx, index).Result()
	if err != nil {
		metrics.RecordErrorByComponent("store", "redis_list")
		return fmt.Errorf("list %s: %w", index, err)
	}
	if len(ids) == 0 {
		return nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key(keyKind, id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		metrics.RecordErrorByComponent("store", "redis_list")
		return fmt.Errorf("load %s: %w", index, err)
	}

	for _, v := range vals {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		if err := decode([]byte(raw)); err != nil {
			return err
		}
	}
	return nil
}

func (s *RedisStore) PutPlayer(ctx context.Context, p model.Player) error {
	return s.put(ctx, s.key("player", p.ID), s.key("players"), p.ID, p)
}

func (s *RedisStore) Player(ctx context.Context, id string) (model.Player, error) {
	var p model.Player
	if err := s.get(ctx, s.key("player", id), &p); err != nil {
		return model.Player{}, err
	}
	return p, nil
}

func (s *RedisStore) Players(ctx context.Context) ([]model.Player, error) {
	out := make([]model.Player, 0, 64)
	err := s.list(ctx, s.key("players"), "player", func(raw []byte) error {
		var p model.Player
		if err := json.Unmarshal(raw, &p); err != nil {
			return fmt.Errorf("decode player: %w", err)
		}
		out = append(out, p)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *RedisStore) PutTournament(ctx context.Context, t model.Tournament) error {
	return s.put(ctx, s.key("tournament", t.ID), s.key("tournaments"), t.ID, t)
}

func (s *RedisStore) Tournament(ctx context.Context, id string) (model.Tournament, error) {
	var t model.Tournament
	if err := s.get(ctx, s.key("tournament", id), &t); err != nil {
		return model.Tournament{}, err
	}
	return t, nil
}

func (s *RedisStore) Tournaments(ctx context.Context) ([]model.Tournament, error) {
	out := make([]model.Tournament, 0, 16)
	err := s.list(ctx, s.key("tournaments"), "tournament", func(raw []byte) error {
		var t model.Tournament
		if err := json.Unmarshal(raw, &t); err != nil {
			return fmt.Errorf("decode tournament: %w", err)
		}
		out = append(out, t)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *RedisStore) PutImportJob(ctx context.Context, j model.ImportJob) error {
	return s.put(ctx, s.key("import", j.ID), s.key("imports", j.TournamentID), j.ID, j)
}

func (s *RedisStore) ImportJob(ctx context.Context, id string) (model.ImportJob, error) {
	var j model.ImportJob
	if err := s.get(ctx, s.key("import", id), &j); err != nil {
		return model.ImportJob{}, err
	}
	return j, nil
}

func (s *RedisStore) ImportJobs(ctx context.Context, tournamentID string) ([]model.ImportJob, error) {
	out := make([]model.ImportJob, 0, 4)
	err := s.list(ctx, s.key("imports", tournamentID), "import", func(raw []byte) error {
		var j model.ImportJob
		if err := json.Unmarshal(raw, &j); err != nil {
			return fmt.Errorf("decode import job: %w", err)
		}
		out = append(out, j)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].SubmittedAt.Before(out[j].SubmittedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
