package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/akkash/bizsearch-new-sub002/internal/models"
)

const profileQuery = `
	SELECT id, budget_min, budget_max, liquid_capital, net_worth,
	       management_experience_years, time_commitment
	FROM investor_profiles WHERE id = $1`

const opportunityColumns = `id, name, industry, investment_min, investment_max,
	       break_even_months, success_rate, owner_involvement, attributes`

// PostgresStore reads investor profiles and active opportunities.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// GetProfile loads one investor profile. NULL columns come back as absent
// fields so the normalizer applies its usual defaults.
func (s *PostgresStore) GetProfile(ctx context.Context, id string) (*models.InvestorProfileInput, error) {
	var (
		profileID               string
		budgetMin, budgetMax    sql.NullFloat64
		liquidCapital, netWorth sql.NullFloat64
		experienceYears         sql.NullInt64
		timeCommitment          sql.NullString
	)

	err := s.db.QueryRowContext(ctx, profileQuery, id).Scan(
		&profileID, &budgetMin, &budgetMax, &liquidCapital, &netWorth,
		&experienceYears, &timeCommitment,
	)
	if err == sql.ErrNoRows {
		return nil, &ProfileNotFoundError{ID: id}
	}
	if err != nil {
		return nil, eris.Wrapf(err, "catalog: get profile %s", id)
	}

	profile := &models.InvestorProfileInput{
		ID:                        profileID,
		LiquidCapital:             nullFloat(liquidCapital),
		NetWorth:                  nullFloat(netWorth),
		ManagementExperienceYears: nullInt(experienceYears),
		TimeCommitment:            timeCommitment.String,
	}
	if budgetMin.Valid || budgetMax.Valid {
		profile.Budget = &models.RangeInput{Min: nullFloat(budgetMin), Max: nullFloat(budgetMax)}
	}
	return profile, nil
}

// ListOpportunities returns active opportunities whose investment range
// overlaps the query window, ordered by id.
func (s *PostgresStore) ListOpportunities(ctx context.Context, q models.CatalogQuery) ([]models.OpportunityInput, error) {
	query, args := buildOpportunityQuery(q)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: list opportunities")
	}
	defer rows.Close()

	out := make([]models.OpportunityInput, 0)
	for rows.Next() {
		var (
			opp                  models.OpportunityInput
			name, involvement    sql.NullString
			invMin, invMax, rate sql.NullFloat64
			breakEven            sql.NullInt64
			attributes           []byte
		)
		if err := rows.Scan(&opp.ID, &name, &opp.Industry, &invMin, &invMax,
			&breakEven, &rate, &involvement, &attributes); err != nil {
			return nil, eris.Wrap(err, "catalog: scan opportunity")
		}

		opp.Name = name.String
		opp.OwnerInvolvement = involvement.String
		opp.TotalInvestment = models.RangeInput{Min: nullFloat(invMin), Max: nullFloat(invMax)}
		opp.BreakEvenMonthsEstimate = nullInt(breakEven)
		opp.SuccessRate = nullFloat(rate)
		if len(attributes) > 0 {
			if err := json.Unmarshal(attributes, &opp.Attributes); err != nil {
				return nil, eris.Wrapf(err, "catalog: attributes of %s", opp.ID)
			}
		}
		out = append(out, opp)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "catalog: iterate opportunities")
	}
	return out, nil
}

// Ping checks the connection for readiness probes.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func buildOpportunityQuery(q models.CatalogQuery) (string, []interface{}) {
	conditions := []string{"status = '" + activeStatus + "'"}
	args := make([]interface{}, 0, 4)

	if q.Industry != "" {
		args = append(args, q.Industry)
		conditions = append(conditions, fmt.Sprintf("LOWER(industry) = LOWER($%d)", len(args)))
	}
	if q.InvestmentMin > 0 {
		args = append(args, q.InvestmentMin)
		conditions = append(conditions, fmt.Sprintf("investment_max >= $%d", len(args)))
	}
	if q.InvestmentMax > 0 {
		args = append(args, q.InvestmentMax)
		conditions = append(conditions, fmt.Sprintf("investment_min <= $%d", len(args)))
	}

	limit := q.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	args = append(args, limit)
	query := fmt.Sprintf("SELECT %s FROM opportunities WHERE %s ORDER BY id LIMIT $%d",
		opportunityColumns, strings.Join(conditions, " AND "), len(args))
	return query, args
}

func nullFloat(v sql.NullFloat64) interface{} {
	if !v.Valid {
		return nil
	}
	return v.Float64
}

func nullInt(v sql.NullInt64) interface{} {
	if !v.Valid {
		return nil
	}
	return v.Int64
}
