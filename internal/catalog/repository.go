package catalog

import (
	"context"
	"errors"

	"github.com/akkash/bizsearch-new-sub002/internal/common/logger"
	"github.com/akkash/bizsearch-new-sub002/internal/common/metrics"
	"github.com/akkash/bizsearch-new-sub002/internal/models"
)

// DefaultLimit caps a catalog load when the caller sets no limit.
const DefaultLimit = 200

// Store is the system of record for profiles and opportunities.
type Store interface {
	GetProfile(ctx context.Context, id string) (*models.InvestorProfileInput, error)
	ListOpportunities(ctx context.Context, q models.CatalogQuery) ([]models.OpportunityInput, error)
}

// Searcher is an optional faster candidate source.
type Searcher interface {
	Search(ctx context.Context, q models.CatalogQuery) ([]models.OpportunityInput, error)
}

// Repository loads profiles and catalog slices through the cache, the
// search index and finally the store.
type Repository struct {
	store         Store
	cache         *Cache
	search        Searcher
	maxCandidates int
	log           logger.Logger
}

type Option func(*Repository)

func WithCache(c *Cache) Option {
	return func(r *Repository) { r.cache = c }
}

func WithSearch(s Searcher) Option {
	return func(r *Repository) { r.search = s }
}

func WithMaxCandidates(n int) Option {
	return func(r *Repository) {
		if n > 0 {
			r.maxCandidates = n
		}
	}
}

func NewRepository(store Store, log logger.Logger, opts ...Option) *Repository {
	r := &Repository{
		store:         store,
		maxCandidates: DefaultLimit,
		log:           log,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Profile returns the investor profile with the given ID.
func (r *Repository) Profile(ctx context.Context, id string) (*models.InvestorProfileInput, error) {
	if r.cache != nil {
		cached, err := r.cache.GetProfile(ctx, id)
		if err != nil {
			r.log.Warn("profile cache read failed", map[string]interface{}{"profileId": id, "error": err.Error()})
		} else if cached != nil {
			r.log.Debug("profile cache hit", map[string]interface{}{"profileId": id})
			metrics.CatalogLoads.WithLabelValues("profile", "cache").Inc()
			return cached, nil
		}
	}

	profile, err := r.store.GetProfile(ctx, id)
	if err != nil {
		return nil, r.storeError(ctx, err)
	}
	metrics.CatalogLoads.WithLabelValues("profile", "postgres").Inc()

	if r.cache != nil {
		if err := r.cache.SetProfile(ctx, profile); err != nil {
			r.log.Warn("profile cache write failed", map[string]interface{}{"profileId": id, "error": err.Error()})
		}
	}
	return profile, nil
}

// Catalog returns up to q.Limit opportunities, never more than the
// configured candidate cap.
func (r *Repository) Catalog(ctx context.Context, q models.CatalogQuery) ([]models.OpportunityInput, error) {
	if q.Limit <= 0 || q.Limit > r.maxCandidates {
		q.Limit = r.maxCandidates
	}

	if r.cache != nil {
		cached, err := r.cache.GetCatalog(ctx, q)
		if err != nil {
			r.log.Warn("catalog cache read failed", map[string]interface{}{"error": err.Error()})
		} else if cached != nil {
			r.log.Debug("catalog cache hit", map[string]interface{}{"count": len(cached)})
			metrics.CatalogLoads.WithLabelValues("catalog", "cache").Inc()
			return cached, nil
		}
	}

	opps, source, err := r.load(ctx, q)
	if err != nil {
		return nil, err
	}
	r.log.Debug("catalog loaded", map[string]interface{}{"source": source, "count": len(opps)})
	metrics.CatalogLoads.WithLabelValues("catalog", source).Inc()

	if r.cache != nil {
		if err := r.cache.SetCatalog(ctx, q, opps); err != nil {
			r.log.Warn("catalog cache write failed", map[string]interface{}{"error": err.Error()})
		}
	}
	return opps, nil
}

func (r *Repository) load(ctx context.Context, q models.CatalogQuery) ([]models.OpportunityInput, string, error) {
	if r.search != nil {
		opps, err := r.search.Search(ctx, q)
		if err == nil {
			return opps, "search", nil
		}
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		r.log.Warn("search failed, falling back to postgres", map[string]interface{}{"error": err.Error()})
	}

	opps, err := r.store.ListOpportunities(ctx, q)
	if err != nil {
		return nil, "", r.storeError(ctx, err)
	}
	return opps, "postgres", nil
}

func (r *Repository) storeError(ctx context.Context, err error) error {
	var notFound *ProfileNotFoundError
	if errors.As(err, &notFound) {
		return notFound
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return &UnavailableError{Backend: "postgres", Err: err}
}
