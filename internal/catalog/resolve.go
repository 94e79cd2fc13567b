package catalog

import (
	"context"

	"github.com/akkash/bizsearch-new-sub002/internal/models"
	"github.com/akkash/bizsearch-new-sub002/internal/normalize"
)

// ProfileSource looks investor profiles up by ID.
type ProfileSource interface {
	Profile(ctx context.Context, id string) (*models.InvestorProfileInput, error)
}

// CatalogSource loads opportunities matching a query.
type CatalogSource interface {
	Catalog(ctx context.Context, q models.CatalogQuery) ([]models.OpportunityInput, error)
}

// ResolveProfile returns the inline profile when present, otherwise loads
// id from src.
func ResolveProfile(ctx context.Context, src ProfileSource, id string, inline *models.InvestorProfileInput) (models.InvestorProfileInput, error) {
	if inline != nil {
		return *inline, nil
	}
	if id == "" {
		return models.InvestorProfileInput{}, &normalize.ValidationError{Field: "profile", Reason: "profile or profileId is required"}
	}
	if src == nil {
		return models.InvestorProfileInput{}, &normalize.ValidationError{Field: "profileId", Reason: "profile lookup is not configured"}
	}
	profile, err := src.Profile(ctx, id)
	if err != nil {
		return models.InvestorProfileInput{}, err
	}
	return *profile, nil
}

// ResolveCatalog returns the inline catalog when present, otherwise loads
// q from src. An empty inline catalog is a valid, empty catalog.
func ResolveCatalog(ctx context.Context, src CatalogSource, inline []models.OpportunityInput, q *models.CatalogQuery) ([]models.OpportunityInput, error) {
	if inline != nil {
		return inline, nil
	}
	if q == nil {
		return nil, &normalize.ValidationError{Field: "catalog", Reason: "catalog or catalogQuery is required"}
	}
	if src == nil {
		return nil, &normalize.ValidationError{Field: "catalogQuery", Reason: "catalog lookup is not configured"}
	}
	return src.Catalog(ctx, *q)
}
