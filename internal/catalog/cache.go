package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"

	"github.com/akkash/bizsearch-new-sub002/internal/models"
)

const (
	profileKeyPrefix = "investor:profile:"
	catalogKeyPrefix = "catalog:"
)

// Cache stores profiles and catalog slices in Redis as JSON.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// ProfileKey is the Redis key for an investor profile.
func ProfileKey(id string) string {
	return profileKeyPrefix + id
}

// CatalogKey fingerprints a query so equal queries share an entry.
func CatalogKey(q models.CatalogQuery) string {
	return fmt.Sprintf("%sindustry=%s:min=%.0f:max=%.0f:limit=%d",
		catalogKeyPrefix, strings.ToLower(strings.TrimSpace(q.Industry)), q.InvestmentMin, q.InvestmentMax, q.Limit)
}

// GetProfile returns (nil, nil) on a miss or an unreadable entry.
func (c *Cache) GetProfile(ctx context.Context, id string) (*models.InvestorProfileInput, error) {
	var profile models.InvestorProfileInput
	hit, err := c.get(ctx, ProfileKey(id), &profile)
	if err != nil || !hit {
		return nil, err
	}
	return &profile, nil
}

func (c *Cache) SetProfile(ctx context.Context, profile *models.InvestorProfileInput) error {
	return c.set(ctx, ProfileKey(profile.ID), profile)
}

// GetCatalog returns (nil, nil) on a miss or an unreadable entry.
func (c *Cache) GetCatalog(ctx context.Context, q models.CatalogQuery) ([]models.OpportunityInput, error) {
	var opps []models.OpportunityInput
	hit, err := c.get(ctx, CatalogKey(q), &opps)
	if err != nil || !hit {
		return nil, err
	}
	if opps == nil {
		opps = []models.OpportunityInput{}
	}
	return opps, nil
}

func (c *Cache) SetCatalog(ctx context.Context, q models.CatalogQuery, opps []models.OpportunityInput) error {
	return c.set(ctx, CatalogKey(q), opps)
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) get(ctx context.Context, key string, dst interface{}) (bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, eris.Wrapf(err, "cache: get %s", key)
	}
	if err := json.Unmarshal(val, dst); err != nil {
		return false, nil
	}
	return true, nil
}

func (c *Cache) set(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return eris.Wrapf(err, "cache: encode %s", key)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return eris.Wrapf(err, "cache: set %s", key)
	}
	return nil
}
