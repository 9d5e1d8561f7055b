package fixtures

import (
	"context"
	"database/sql"
	stderrors "errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"capital-match/internal/common/errors"
	"capital-match/internal/common/logger"
)

var (
	lpColumns    = []string{"id", "name", "tier", "investor_type", "location", "commitment_size", "target_irr", "target_em", "min_investment", "max_investment", "preferred_deal_types", "preferred_markets"}
	dealColumns  = []string{"id", "name", "deal_type", "market", "stage", "match_score", "projected_irr", "projected_em", "hold_period", "min_investment", "total_raise"}
	matchColumns = []string{"id", "lp_id", "deal_id", "matched_at", "score", "status"}
	alertColumns = []string{"id", "title", "description", "priority", "category", "created_at"}
)

func expectFixtureQueries(mock sqlmock.Sqlmock, commitment interface{}) {
	mock.ExpectQuery("FROM lps").WillReturnRows(sqlmock.NewRows(lpColumns).
		AddRow("lp-1", "Lakeshore", "Tier 1", "Pension Fund", "Chicago", commitment, 15.0, 1.8, 2e6, nil, "{Core-Plus,Value-Add}", "{Chicago}"))
	mock.ExpectQuery("FROM deals").WillReturnRows(sqlmock.NewRows(dealColumns).
		AddRow("deal-1", "Fulton Market", "Value-Add", "Chicago", nil, 92.0, 18.0, 2.1, 5.0, 1e6, 35e6))
	mock.ExpectQuery("FROM matches").WillReturnRows(sqlmock.NewRows(matchColumns).
		AddRow("m-1", "lp-1", "deal-1", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 91.0, "new"))
	mock.ExpectQuery("FROM alerts").WillReturnRows(sqlmock.NewRows(alertColumns).
		AddRow("a-1", "Price Change Alert", "desc", "medium", "price", time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)))
	mock.ExpectQuery("FROM capital_raise").WillReturnRows(sqlmock.NewRows([]string{"raised", "target"}).
		AddRow(42e6, 150e6))
}

func TestPostgresSource_Load(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectFixtureQueries(mock, 25e6)

	c, err := NewPostgresSource(db, logger.NewTestLogger(t)).Load(context.Background())
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	lp, err := c.LP("lp-1")
	require.NoError(t, err)
	assert.Equal(t, 25e6, lp.CommitmentSize)
	assert.Equal(t, []string{"Core-Plus", "Value-Add"}, lp.InvestmentParameters.PreferredDealTypes)
	assert.Zero(t, lp.InvestmentParameters.MaxInvestment)

	deal, err := c.Deal("deal-1")
	require.NoError(t, err)
	assert.Equal(t, 92.0, deal.MatchScore)
	assert.Empty(t, deal.Stage)
	assert.Equal(t, 28, c.CapitalRaise().PercentOfTarget())
}

func TestPostgresSource_NullCommitmentRejected(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM lps").WillReturnRows(sqlmock.NewRows(lpColumns).
		AddRow("lp-1", "Lakeshore", "Tier 1", "Pension Fund", "Chicago", nil, 15.0, 1.8, 2e6, nil, "{}", "{}"))

	_, err = NewPostgresSource(db, logger.NewNoOpLogger()).Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeFixtureLoadFailed, errors.AsStandard(err).Code)
}

func TestPostgresSource_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM lps").WillReturnError(stderrors.New("connection reset"))

	_, err = NewPostgresSource(db, logger.NewNoOpLogger()).Load(context.Background())
	require.Error(t, err)
	std := errors.AsStandard(err)
	assert.Equal(t, errors.ErrCodeQueryExecutionFailed, std.Code)
	assert.True(t, std.Retryable)
}

func TestPostgresSource_NoCapitalRaiseRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM lps").WillReturnRows(sqlmock.NewRows(lpColumns))
	mock.ExpectQuery("FROM deals").WillReturnRows(sqlmock.NewRows(dealColumns))
	mock.ExpectQuery("FROM matches").WillReturnRows(sqlmock.NewRows(matchColumns))
	mock.ExpectQuery("FROM alerts").WillReturnRows(sqlmock.NewRows(alertColumns))
	mock.ExpectQuery("FROM capital_raise").WillReturnError(sql.ErrNoRows)

	c, err := NewPostgresSource(db, logger.NewNoOpLogger()).Load(context.Background())
	require.NoError(t, err)
	assert.Zero(t, c.CapitalRaise().Target)
}
