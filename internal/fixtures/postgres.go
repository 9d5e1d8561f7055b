// internal/fixtures/postgres.go
package fixtures

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/lib/pq"

	"capital-match/internal/common/errors"
	"capital-match/internal/common/logger"
	"capital-match/internal/models"
)

const (
	queryLPs = `SELECT id, name, tier, investor_type, location, commitment_size,
	target_irr, target_em, min_investment, max_investment,
	preferred_deal_types, preferred_markets
FROM lps ORDER BY position`

	queryDeals = `SELECT id, name, deal_type, market, stage, match_score,
	projected_irr, projected_em, hold_period, min_investment, total_raise
FROM deals ORDER BY position`

	queryMatches = `SELECT id, lp_id, deal_id, matched_at, score, status
FROM matches ORDER BY position`

	queryAlerts = `SELECT id, title, description, priority, category, created_at
FROM alerts ORDER BY created_at DESC`

	queryCapitalRaise = `SELECT raised, target FROM capital_raise ORDER BY as_of DESC LIMIT 1`
)

// PostgresSource reads the fixture tables. commitment_size and match_score are
// NOT NULL columns; a NULL fails the scan instead of defaulting to zero.
type PostgresSource struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresSource(db *sql.DB, log logger.Logger) *PostgresSource {
	return &PostgresSource{db: db, logger: logger.Component(log, "fixtures.postgres")}
}

func (s *PostgresSource) Load(ctx context.Context) (*Catalog, error) {
	var (
		data Data
		err  error
	)
	if data.LPs, err = s.loadLPs(ctx); err != nil {
		return nil, err
	}
	if data.Deals, err = s.loadDeals(ctx); err != nil {
		return nil, err
	}
	if data.Matches, err = s.loadMatches(ctx); err != nil {
		return nil, err
	}
	if data.Alerts, err = s.loadAlerts(ctx); err != nil {
		return nil, err
	}
	if data.CapitalRaise, err = s.loadCapitalRaise(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("fixtures loaded", map[string]interface{}{
		"lps":     len(data.LPs),
		"deals":   len(data.Deals),
		"matches": len(data.Matches),
		"alerts":  len(data.Alerts),
	})
	return NewCatalog(data)
}

func (s *PostgresSource) loadLPs(ctx context.Context) ([]models.LP, error) {
	rows, err := s.db.QueryContext(ctx, queryLPs)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("lps", err)
	}
	defer rows.Close()

	var out []models.LP
	for rows.Next() {
		var (
			lp       models.LP
			tier     string
			location sql.NullString
			maxInv   sql.NullFloat64
			p        = &lp.InvestmentParameters
		)
		if err := rows.Scan(
			&lp.ID, &lp.Name, &tier, &lp.InvestorType, &location, &lp.CommitmentSize,
			&p.TargetIRR, &p.TargetEM, &p.MinInvestment, &maxInv,
			pq.Array(&p.PreferredDealTypes), pq.Array(&p.PreferredMarkets),
		); err != nil {
			return nil, errors.NewFixtureLoadFailedError("lps", err)
		}
		lp.Tier = models.LPTier(tier)
		lp.Location = location.String
		p.MaxInvestment = maxInv.Float64
		out = append(out, lp)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewFixtureLoadFailedError("lps", err)
	}
	return out, nil
}

func (s *PostgresSource) loadDeals(ctx context.Context) ([]models.Deal, error) {
	rows, err := s.db.QueryContext(ctx, queryDeals)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("deals", err)
	}
	defer rows.Close()

	var out []models.Deal
	for rows.Next() {
		var (
			d          models.Deal
			dealType   string
			stage      sql.NullString
			hold       sql.NullFloat64
			totalRaise sql.NullFloat64
		)
		if err := rows.Scan(
			&d.ID, &d.Name, &dealType, &d.Market, &stage, &d.MatchScore,
			&d.FinancialMetrics.ProjectedIRR, &d.FinancialMetrics.ProjectedEM, &hold,
			&d.CapitalRequirements.MinInvestment, &totalRaise,
		); err != nil {
			return nil, errors.NewFixtureLoadFailedError("deals", err)
		}
		d.Type = models.DealType(dealType)
		d.Stage = stage.String
		d.FinancialMetrics.HoldPeriod = hold.Float64
		d.CapitalRequirements.TotalRaise = totalRaise.Float64
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewFixtureLoadFailedError("deals", err)
	}
	return out, nil
}

func (s *PostgresSource) loadMatches(ctx context.Context) ([]models.Match, error) {
	rows, err := s.db.QueryContext(ctx, queryMatches)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("matches", err)
	}
	defer rows.Close()

	var out []models.Match
	for rows.Next() {
		var (
			m      models.Match
			status string
		)
		if err := rows.Scan(&m.ID, &m.LPID, &m.DealID, &m.Date, &m.Score, &status); err != nil {
			return nil, errors.NewFixtureLoadFailedError("matches", err)
		}
		m.Status = models.MatchStatus(status)
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewFixtureLoadFailedError("matches", err)
	}
	return out, nil
}

func (s *PostgresSource) loadAlerts(ctx context.Context) ([]models.Alert, error) {
	rows, err := s.db.QueryContext(ctx, queryAlerts)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("alerts", err)
	}
	defer rows.Close()

	var out []models.Alert
	for rows.Next() {
		var (
			a        models.Alert
			priority string
		)
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &priority, &a.Category, &a.CreatedAt); err != nil {
			return nil, errors.NewFixtureLoadFailedError("alerts", err)
		}
		a.Priority = models.AlertPriority(priority)
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewFixtureLoadFailedError("alerts", err)
	}
	return out, nil
}

func (s *PostgresSource) loadCapitalRaise(ctx context.Context) (models.CapitalRaiseMetrics, error) {
	var m models.CapitalRaiseMetrics
	err := s.db.QueryRowContext(ctx, queryCapitalRaise).Scan(&m.Raised, &m.Target)
	if stderrors.Is(err, sql.ErrNoRows) {
		return m, nil
	}
	if err != nil {
		return m, errors.NewQueryExecutionFailedError("capital_raise", err)
	}
	return m, nil
}
