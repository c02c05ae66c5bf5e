package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/Stepheeeen/flairecosystem/internal/models"
)

type OrderRepoTestSuite struct {
	suite.Suite
	mock      pgxmock.PgxPoolIface
	repo      OrderRepository
	companyID uuid.UUID
	orderID   uuid.UUID
	reference string
	context   context.Context
}

func (suite *OrderRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewOrderRepo(mock)
	suite.companyID = uuid.New()
	suite.orderID = uuid.New()
	suite.reference = "TXN-1756720000000-a1B2c3D4e"
	suite.context = context.Background()
}

func (suite *OrderRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestOrderRepoTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepoTestSuite))
}

func (suite *OrderRepoTestSuite) orderRow(status string, paidAt *time.Time) *pgxmock.Rows {
	now := time.Now()
	return pgxmock.NewRows([]string{
		"id", "reference", "company_id", "user_id", "customer_name", "customer_email",
		"customer_phone", "shipping_address", "city", "state", "zip", "items",
		"total_amount", "status", "paid_at", "created_at", "updated_at",
	}).AddRow(
		suite.orderID, suite.reference, suite.companyID, (*uuid.UUID)(nil), "Ada Obi", "ada@example.com",
		"", "12 Allen Avenue", "Lagos", "", "", []models.OrderItem{{Name: "Oversized Tee", Price: 9000, Quantity: 2}},
		int64(18000), status, paidAt, now, now,
	)
}

func (suite *OrderRepoTestSuite) TestMarkPaidByReference_FirstCallWins() {
	paidAt := time.Now()

	suite.mock.ExpectQuery(`UPDATE orders`).
		WithArgs(suite.reference, paidAt).
		WillReturnRows(suite.orderRow(models.OrderStatusCompleted, &paidAt))

	order, marked, err := suite.repo.MarkPaidByReference(suite.context, suite.reference, paidAt)
	assert.NoError(suite.T(), err)
	assert.True(suite.T(), marked)
	assert.Equal(suite.T(), models.OrderStatusCompleted, order.Status)
}

func (suite *OrderRepoTestSuite) TestMarkPaidByReference_ReplayReturnsExisting() {
	paidAt := time.Now().Add(-time.Hour)
	replayAt := time.Now()

	// The guarded UPDATE matches nothing because the order is already
	// completed; the fallback lookup returns the existing row.
	suite.mock.ExpectQuery(`UPDATE orders`).
		WithArgs(suite.reference, replayAt).
		WillReturnError(pgx.ErrNoRows)
	suite.mock.ExpectQuery(`SELECT .+ FROM orders WHERE reference = \$1`).
		WithArgs(suite.reference).
		WillReturnRows(suite.orderRow(models.OrderStatusCompleted, &paidAt))

	order, marked, err := suite.repo.MarkPaidByReference(suite.context, suite.reference, replayAt)
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), marked)
	assert.Equal(suite.T(), models.OrderStatusCompleted, order.Status)
	assert.Equal(suite.T(), paidAt.Unix(), order.PaidAt.Unix())
}

func (suite *OrderRepoTestSuite) TestMarkPaidByReference_UnknownReference() {
	replayAt := time.Now()

	suite.mock.ExpectQuery(`UPDATE orders`).
		WithArgs("TXN-0-unknown00", replayAt).
		WillReturnError(pgx.ErrNoRows)
	suite.mock.ExpectQuery(`SELECT .+ FROM orders WHERE reference = \$1`).
		WithArgs("TXN-0-unknown00").
		WillReturnError(pgx.ErrNoRows)

	order, marked, err := suite.repo.MarkPaidByReference(suite.context, "TXN-0-unknown00", replayAt)
	assert.Nil(suite.T(), order)
	assert.False(suite.T(), marked)
	assert.ErrorIs(suite.T(), err, pgx.ErrNoRows)
}

func (suite *OrderRepoTestSuite) TestGetByID_ScopedToCompany() {
	suite.mock.ExpectQuery(`SELECT .+ FROM orders WHERE company_id = \$1 AND id = \$2`).
		WithArgs(suite.companyID, suite.orderID).
		WillReturnRows(suite.orderRow(models.OrderStatusPending, nil))

	order, err := suite.repo.GetByID(suite.context, suite.companyID, suite.orderID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.orderID, order.ID)
	assert.Len(suite.T(), order.Items, 1)
}

func (suite *OrderRepoTestSuite) TestListByCompany_StatusFilter() {
	status := models.OrderStatusPending

	suite.mock.ExpectQuery(`SELECT .+ FROM orders WHERE company_id = \$1 AND status = \$2`).
		WithArgs(suite.companyID, status, 50).
		WillReturnRows(suite.orderRow(status, nil))

	orders, err := suite.repo.ListByCompany(suite.context, suite.companyID, &models.OrderSearchFilter{Status: &status})
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), orders, 1)
	assert.Equal(suite.T(), status, orders[0].Status)
}

func (suite *OrderRepoTestSuite) TestTotalRevenue_CompletedOnly() {
	suite.mock.ExpectQuery(`SELECT COALESCE\(SUM\(total_amount\), 0\) FROM orders WHERE company_id = \$1 AND status = 'completed'`).
		WithArgs(suite.companyID).
		WillReturnRows(pgxmock.NewRows([]string{"coalesce"}).AddRow(int64(18000)))

	total, err := suite.repo.TotalRevenue(suite.context, suite.companyID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(18000), total)
}
