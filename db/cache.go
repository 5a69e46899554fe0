package db

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"drafts-api/models"

	"github.com/go-redis/redis/v8"
)

const DraftsCacheTime = 7 * 24 * time.Hour

// CachedPosts keeps each author's draft list in Redis in front of a PostStore.
// Cache failures are logged and never fail the call.
type CachedPosts struct {
	Store PostStore
	Redis *redis.Client
	TTL   time.Duration
}

func NewCachedPosts(store PostStore, client *redis.Client) *CachedPosts {
	return &CachedPosts{Store: store, Redis: client, TTL: DraftsCacheTime}
}

func draftsKey(email string) string {
	return "drafts:" + email
}

// draftsGenKey counts writes to an author's drafts. A list read from the
// store is cached only if no write happened in between.
func draftsGenKey(email string) string {
	return "drafts:" + email + ":gen"
}

var errStaleDrafts = errors.New("drafts changed while loading")

func (c *CachedPosts) Create(ctx context.Context, data models.PostCreateData) (models.Post, error) {
	post, err := c.Store.Create(ctx, data)
	if err != nil {
		return models.Post{}, err
	}

	genKey := draftsGenKey(data.AuthorEmail)
	_, err = c.Redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, 2*c.TTL)
		pipe.Del(ctx, draftsKey(data.AuthorEmail))
		return nil
	})
	if err != nil {
		log.Printf("drafts cache: failed to invalidate %s: %v", data.AuthorEmail, err)
	}

	return post, nil
}

func (c *CachedPosts) ListDrafts(ctx context.Context, authorEmail string) ([]models.Post, error) {
	key := draftsKey(authorEmail)

	cached, err := c.Redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var posts []models.Post
		if err := json.Unmarshal(cached, &posts); err == nil {
			return posts, nil
		}
		log.Printf("drafts cache: dropping unreadable entry %s", key)
	case !errors.Is(err, redis.Nil):
		log.Printf("drafts cache: error fetching %s: %v", key, err)
	}

	gen, genErr := c.generation(ctx, c.Redis, authorEmail)
	if genErr != nil {
		log.Printf("drafts cache: error reading generation for %s: %v", authorEmail, genErr)
	}

	posts, err := c.Store.ListDrafts(ctx, authorEmail)
	if err != nil {
		return nil, err
	}

	if genErr == nil {
		c.fill(ctx, authorEmail, gen, posts)
	}

	return posts, nil
}

type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (c *CachedPosts) generation(ctx context.Context, cmd stringGetter, authorEmail string) (int64, error) {
	gen, err := cmd.Get(ctx, draftsGenKey(authorEmail)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// fill caches posts unless the generation moved since they were read.
func (c *CachedPosts) fill(ctx context.Context, authorEmail string, gen int64, posts []models.Post) {
	key := draftsKey(authorEmail)
	jsonData, err := json.Marshal(posts)
	if err != nil {
		return
	}

	err = c.Redis.Watch(ctx, func(tx *redis.Tx) error {
		current, err := c.generation(ctx, tx, authorEmail)
		if err != nil {
			return err
		}
		if current != gen {
			return errStaleDrafts
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, jsonData, c.TTL)
			return nil
		})
		return err
	}, draftsGenKey(authorEmail))

	switch {
	case err == nil:
	case errors.Is(err, errStaleDrafts), errors.Is(err, redis.TxFailedErr):
		log.Printf("drafts cache: skipped stale entry %s", key)
	default:
		log.Printf("drafts cache: error setting %s: %v", key, err)
	}
}
