package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"horse.fit/polyglot/internal/globaltime"
	"horse.fit/polyglot/internal/locale"
	"horse.fit/polyglot/internal/translation"
)

const DefaultKeyPrefix = "polyglot:"

// RedisStore keeps one hash per article: field = locale code, value = the
// JSON-encoded translation.
//
// Without a backing store Redis is the system of record and HSETNX on the
// hash is the atomic insert. With a backing store (Postgres, where authored
// sources are written) Redis is a read-through cache: the backing store
// decides insert conflicts and owns the locale list and view counts, and
// every row it returns is copied into the hash with HSETNX.
type RedisStore struct {
	client    redis.Cmdable
	keyPrefix string
	backing   translation.Store
}

type RedisConfig struct {
	URL       string
	KeyPrefix string
	Backing   translation.Store
}

var _ translation.Store = (*RedisStore)(nil)

// NewRedisStore connects to cfg.URL and verifies connectivity.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, *redis.Client, error) {
	opts, err := redis.ParseURL(strings.TrimSpace(cfg.URL))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return NewRedisStoreFromClient(client, cfg.KeyPrefix, cfg.Backing), client, nil
}

func NewRedisStoreFromClient(client redis.Cmdable, keyPrefix string, backing translation.Store) *RedisStore {
	if strings.TrimSpace(keyPrefix) == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &RedisStore{
		client:    client,
		keyPrefix: keyPrefix,
		backing:   backing,
	}
}

func (s *RedisStore) translationsKey(articleID int64) string {
	return fmt.Sprintf("%sarticle:%d:translations", s.keyPrefix, articleID)
}

func (s *RedisStore) statsKey(articleID int64) string {
	return fmt.Sprintf("%sarticle:%d:stats", s.keyPrefix, articleID)
}

func (s *RedisStore) Get(ctx context.Context, articleID int64, loc locale.Locale) (translation.Translation, error) {
	raw, err := s.client.HGet(ctx, s.translationsKey(articleID), loc.String()).Result()
	if errors.Is(err, redis.Nil) {
		if s.backing == nil {
			return translation.Translation{}, translation.ErrNotFound
		}
		row, err := s.backing.Get(ctx, articleID, loc)
		if err != nil {
			return translation.Translation{}, err
		}
		s.fill(ctx, row)
		return row, nil
	}
	if err != nil {
		return translation.Translation{}, &translation.StoreError{Op: "get translation", Cause: err}
	}
	return decodeTranslation(raw)
}

func (s *RedisStore) GetAll(ctx context.Context, articleID int64) ([]translation.Translation, error) {
	if s.backing != nil {
		// The hash may hold only the locales read so far.
		return s.backing.GetAll(ctx, articleID)
	}

	fields, err := s.client.HGetAll(ctx, s.translationsKey(articleID)).Result()
	if err != nil {
		return nil, &translation.StoreError{Op: "list translations", Cause: err}
	}

	codes := make([]locale.Locale, 0, len(fields))
	for field := range fields {
		codes = append(codes, locale.Locale(field))
	}
	locale.SortByCode(codes)

	out := make([]translation.Translation, 0, len(codes))
	for _, code := range codes {
		t, err := decodeTranslation(fields[code.String()])
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *RedisStore) InsertIfAbsent(ctx context.Context, t translation.Translation) (translation.Translation, bool, error) {
	if s.backing != nil {
		stored, inserted, err := s.backing.InsertIfAbsent(ctx, t)
		if err != nil {
			return translation.Translation{}, false, err
		}
		s.fill(ctx, stored)
		return stored, inserted, nil
	}

	if strings.TrimSpace(t.TranslationUUID) == "" {
		t.TranslationUUID = uuid.NewString()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = globaltime.UTC()
	}

	payload, err := json.Marshal(t)
	if err != nil {
		return translation.Translation{}, false, &translation.StoreError{Op: "encode translation", Cause: err}
	}

	key := s.translationsKey(t.ArticleID)
	inserted, err := s.client.HSetNX(ctx, key, t.Locale.String(), string(payload)).Result()
	if err != nil {
		return translation.Translation{}, false, &translation.StoreError{Op: "insert translation", Cause: err}
	}
	if inserted {
		return t, true, nil
	}

	winner, err := s.Get(ctx, t.ArticleID, t.Locale)
	if err != nil {
		if errors.Is(err, translation.ErrNotFound) {
			return translation.Translation{}, false, &translation.StoreError{Op: "reload translation", Cause: err}
		}
		return translation.Translation{}, false, err
	}
	return winner, false, nil
}

func (s *RedisStore) IncrementViewCount(ctx context.Context, articleID int64) error {
	if s.backing != nil {
		return s.backing.IncrementViewCount(ctx, articleID)
	}
	if err := s.client.HIncrBy(ctx, s.statsKey(articleID), "view_count", 1).Err(); err != nil {
		return &translation.StoreError{Op: "increment views", Cause: err}
	}
	return nil
}

// fill copies a row confirmed by the backing store into the hash. Failures
// only cost a later cache miss.
func (s *RedisStore) fill(ctx context.Context, t translation.Translation) {
	payload, err := json.Marshal(t)
	if err != nil {
		return
	}
	_ = s.client.HSetNX(ctx, s.translationsKey(t.ArticleID), t.Locale.String(), string(payload)).Err()
}

func decodeTranslation(raw string) (translation.Translation, error) {
	var t translation.Translation
	if err := json.Unmarshal([]byte(raw), &t); err != nil {
		return translation.Translation{}, &translation.StoreError{Op: "decode translation", Cause: err}
	}
	return t, nil
}
