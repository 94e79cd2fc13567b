package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akkash/bizsearch-new-sub002/internal/common/logger"
	"github.com/akkash/bizsearch-new-sub002/internal/models"
	"github.com/akkash/bizsearch-new-sub002/internal/normalize"
)

func TestResolveProfile(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{profiles: map[string]*models.InvestorProfileInput{"inv-1": {ID: "inv-1", NetWorth: 1.0}}}
	repo := NewRepository(store, logger.NewTestLogger(t))

	t.Run("inline wins", func(t *testing.T) {
		p, err := ResolveProfile(ctx, repo, "inv-1", &models.InvestorProfileInput{ID: "inline"})
		require.NoError(t, err)
		assert.Equal(t, "inline", p.ID)
		assert.Equal(t, 0, store.profileCalls)
	})

	t.Run("by id", func(t *testing.T) {
		p, err := ResolveProfile(ctx, repo, "inv-1", nil)
		require.NoError(t, err)
		assert.Equal(t, 1.0, p.NetWorth)
	})

	t.Run("neither", func(t *testing.T) {
		_, err := ResolveProfile(ctx, repo, "", nil)
		var ve *normalize.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "profile", ve.Field)
	})

	t.Run("no source", func(t *testing.T) {
		_, err := ResolveProfile(ctx, nil, "inv-1", nil)
		var ve *normalize.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "profileId", ve.Field)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := ResolveProfile(ctx, repo, "ghost", nil)
		assert.ErrorIs(t, err, ErrProfileNotFound)
	})
}

func TestResolveCatalog(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{opps: []models.OpportunityInput{{ID: "opp-db"}}}
	repo := NewRepository(store, logger.NewTestLogger(t))

	t.Run("inline empty is valid", func(t *testing.T) {
		opps, err := ResolveCatalog(ctx, repo, []models.OpportunityInput{}, &models.CatalogQuery{})
		require.NoError(t, err)
		assert.Empty(t, opps)
		assert.Equal(t, 0, store.listCalls)
	})

	t.Run("query", func(t *testing.T) {
		opps, err := ResolveCatalog(ctx, repo, nil, &models.CatalogQuery{Industry: "retail"})
		require.NoError(t, err)
		require.Len(t, opps, 1)
		assert.Equal(t, "opp-db", opps[0].ID)
	})

	t.Run("neither", func(t *testing.T) {
		_, err := ResolveCatalog(ctx, repo, nil, nil)
		var ve *normalize.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "catalog", ve.Field)
	})

	t.Run("no source", func(t *testing.T) {
		_, err := ResolveCatalog(ctx, nil, nil, &models.CatalogQuery{})
		var ve *normalize.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "catalogQuery", ve.Field)
	})
}
