package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/Stepheeeen/flairecosystem/internal/models"
	"github.com/Stepheeeen/flairecosystem/internal/services"
)

type MockPaystackService struct {
	mock.Mock
}

func (m *MockPaystackService) InitializeTransaction(ctx context.Context, req *services.InitializeTransactionRequest) (*services.InitializeTransactionResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.InitializeTransactionResponse), args.Error(1)
}

func (m *MockPaystackService) VerifyTransaction(ctx context.Context, reference string, secretKey string) (*services.VerifyTransactionResponse, error) {
	args := m.Called(ctx, reference, secretKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.VerifyTransactionResponse), args.Error(1)
}

func (m *MockPaystackService) VerifyWebhookSignature(rawBody []byte, signature string) bool {
	args := m.Called(rawBody, signature)
	return args.Bool(0)
}

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) ReconcilePayment(ctx context.Context, reference string) (*models.Order, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderService) AdminSetStatus(ctx context.Context, companyID, orderID uuid.UUID, status string) (*models.Order, error) {
	args := m.Called(ctx, companyID, orderID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderService) GetByID(ctx context.Context, companyID, orderID uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, companyID, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderService) ListByCompany(ctx context.Context, companyID uuid.UUID, filter *models.OrderSearchFilter) ([]*models.Order, error) {
	args := m.Called(ctx, companyID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderService) Stats(ctx context.Context, companyID uuid.UUID) (*services.OrderStats, error) {
	args := m.Called(ctx, companyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.OrderStats), args.Error(1)
}

func (m *MockOrderService) ListForUser(ctx context.Context, companyID, userID uuid.UUID, limit, offset int) ([]*models.Order, error) {
	args := m.Called(ctx, companyID, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}

type WebhookHandlersTestSuite struct {
	suite.Suite
	mockPaystack *MockPaystackService
	mockOrders   *MockOrderService
	handlers     *WebhookHandlers
	echo         *echo.Echo
}

func (suite *WebhookHandlersTestSuite) SetupTest() {
	suite.mockPaystack = &MockPaystackService{}
	suite.mockOrders = &MockOrderService{}
	suite.handlers = NewWebhookHandlers(suite.mockPaystack, suite.mockOrders)
	suite.echo = echo.New()

	suite.mockPaystack.Test(suite.T())
	suite.mockOrders.Test(suite.T())
}

func (suite *WebhookHandlersTestSuite) TearDownTest() {
	suite.mockPaystack.AssertExpectations(suite.T())
	suite.mockOrders.AssertExpectations(suite.T())
}

func TestWebhookHandlersTestSuite(t *testing.T) {
	suite.Run(t, new(WebhookHandlersTestSuite))
}

func (suite *WebhookHandlersTestSuite) post(body, signature string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/paystack", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if signature != "" {
		req.Header.Set("x-paystack-signature", signature)
	}
	rec := httptest.NewRecorder()
	return suite.echo.NewContext(req, rec), rec
}

func (suite *WebhookHandlersTestSuite) TestPaystackWebhook_InvalidSignature() {
	body := `{"event":"charge.success","data":{"reference":"TXN-1-abcdefghi"}}`

	suite.mockPaystack.On("VerifyWebhookSignature", []byte(body), "bad-signature").Return(false).Once()

	c, rec := suite.post(body, "bad-signature")
	assert.NoError(suite.T(), suite.handlers.PaystackWebhook(c))
	assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)
	assert.Contains(suite.T(), rec.Body.String(), "SIGNATURE_INVALID")
	suite.mockOrders.AssertNotCalled(suite.T(), "ReconcilePayment", mock.Anything, mock.Anything)
}

func (suite *WebhookHandlersTestSuite) TestPaystackWebhook_MissingSignature() {
	body := `{"event":"charge.success","data":{"reference":"TXN-1-abcdefghi"}}`

	suite.mockPaystack.On("VerifyWebhookSignature", []byte(body), "").Return(false).Once()

	c, rec := suite.post(body, "")
	assert.NoError(suite.T(), suite.handlers.PaystackWebhook(c))
	assert.Equal(suite.T(), http.StatusUnauthorized, rec.Code)
}

func (suite *WebhookHandlersTestSuite) TestPaystackWebhook_IgnoresOtherEvents() {
	body := `{"event":"charge.dispute.create","data":{"reference":"TXN-1-abcdefghi"}}`

	suite.mockPaystack.On("VerifyWebhookSignature", []byte(body), "good-signature").Return(true).Once()

	c, rec := suite.post(body, "good-signature")
	assert.NoError(suite.T(), suite.handlers.PaystackWebhook(c))
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Contains(suite.T(), rec.Body.String(), "Event ignored")
	suite.mockOrders.AssertNotCalled(suite.T(), "ReconcilePayment", mock.Anything, mock.Anything)
}

func (suite *WebhookHandlersTestSuite) TestPaystackWebhook_ChargeSuccess() {
	body := `{"event":"charge.success","data":{"reference":"TXN-1-abcdefghi","amount":18000,"status":"success"}}`
	order := &models.Order{
		ID:        uuid.New(),
		Reference: "TXN-1-abcdefghi",
		Status:    models.OrderStatusCompleted,
	}

	suite.mockPaystack.On("VerifyWebhookSignature", []byte(body), "good-signature").Return(true).Once()
	suite.mockOrders.On("ReconcilePayment", mock.Anything, "TXN-1-abcdefghi").Return(order, nil).Once()

	c, rec := suite.post(body, "good-signature")
	assert.NoError(suite.T(), suite.handlers.PaystackWebhook(c))
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Contains(suite.T(), rec.Body.String(), "Order marked as paid")
	assert.Contains(suite.T(), rec.Body.String(), "TXN-1-abcdefghi")
}

func (suite *WebhookHandlersTestSuite) TestPaystackWebhook_UnknownReferenceIsAcked() {
	body := `{"event":"charge.success","data":{"reference":"TXN-0-unknown00"}}`

	suite.mockPaystack.On("VerifyWebhookSignature", []byte(body), "good-signature").Return(true).Once()
	suite.mockOrders.On("ReconcilePayment", mock.Anything, "TXN-0-unknown00").Return(nil, services.ErrOrderNotFound).Once()

	c, rec := suite.post(body, "good-signature")
	assert.NoError(suite.T(), suite.handlers.PaystackWebhook(c))
	// Acked with 200 so the gateway stops retrying.
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Contains(suite.T(), rec.Body.String(), "Reference not recognized")
}

func (suite *WebhookHandlersTestSuite) TestPaystackWebhook_UnconfirmedCharge() {
	body := `{"event":"charge.success","data":{"reference":"TXN-1-abcdefghi"}}`

	suite.mockPaystack.On("VerifyWebhookSignature", []byte(body), "good-signature").Return(true).Once()
	suite.mockOrders.On("ReconcilePayment", mock.Anything, "TXN-1-abcdefghi").Return(nil, services.ErrPaymentNotConfirmed).Once()

	c, _ := suite.post(body, "good-signature")
	err := suite.handlers.PaystackWebhook(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), http.StatusBadRequest, httpErr.Code)
}

func (suite *WebhookHandlersTestSuite) TestPaystackWebhook_ReconciliationFailure() {
	body := `{"event":"charge.success","data":{"reference":"TXN-1-abcdefghi"}}`

	suite.mockPaystack.On("VerifyWebhookSignature", []byte(body), "good-signature").Return(true).Once()
	suite.mockOrders.On("ReconcilePayment", mock.Anything, "TXN-1-abcdefghi").
		Return(nil, errors.New("database connection failed")).Once()

	c, _ := suite.post(body, "good-signature")
	err := suite.handlers.PaystackWebhook(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), http.StatusInternalServerError, httpErr.Code)
}

func (suite *WebhookHandlersTestSuite) TestPaystackWebhook_MalformedPayload() {
	body := `{"event":`

	suite.mockPaystack.On("VerifyWebhookSignature", []byte(body), "good-signature").Return(true).Once()

	c, _ := suite.post(body, "good-signature")
	err := suite.handlers.PaystackWebhook(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), http.StatusBadRequest, httpErr.Code)
}
