package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/Stepheeeen/flairecosystem/internal/common"
	"github.com/Stepheeeen/flairecosystem/internal/models"
	"github.com/Stepheeeen/flairecosystem/internal/services"
)

type MockCompanyService struct {
	mock.Mock
}

func (m *MockCompanyService) ResolveHost(ctx context.Context, host string) (*models.Company, error) {
	args := m.Called(ctx, host)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Company), args.Error(1)
}

func (m *MockCompanyService) ResolveIdentifier(ctx context.Context, identifier string) (*models.Company, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Company), args.Error(1)
}

func (m *MockCompanyService) Create(ctx context.Context, company *models.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyService) UpdateProfile(ctx context.Context, company *models.Company) error {
	args := m.Called(ctx, company)
	return args.Error(0)
}

func (m *MockCompanyService) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockCompanyService) List(ctx context.Context, limit, offset int) ([]*models.Company, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Company), args.Error(1)
}

func (m *MockCompanyService) GetByID(ctx context.Context, id uuid.UUID) (*models.Company, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Company), args.Error(1)
}

type TenantMiddlewareTestSuite struct {
	suite.Suite
	mockCompanies *MockCompanyService
	echo          *echo.Echo

	company *models.Company
}

func (suite *TenantMiddlewareTestSuite) SetupTest() {
	suite.mockCompanies = &MockCompanyService{}
	suite.echo = echo.New()

	suite.company = &models.Company{
		ID:     uuid.New(),
		Name:   "Flair Threads",
		Slug:   "flair-threads",
		Status: models.CompanyStatusActive,
	}

	suite.mockCompanies.Test(suite.T())
}

func (suite *TenantMiddlewareTestSuite) TearDownTest() {
	suite.mockCompanies.AssertExpectations(suite.T())
}

func TestTenantMiddlewareTestSuite(t *testing.T) {
	suite.Run(t, new(TenantMiddlewareTestSuite))
}

// okHandler records the tenant it saw so tests can assert on it.
func (suite *TenantMiddlewareTestSuite) okHandler(seen **models.Company) echo.HandlerFunc {
	return func(c echo.Context) error {
		if tenant, ok := TenantFromContext(c); ok {
			*seen = tenant
		}
		return c.NoContent(http.StatusOK)
	}
}

func (suite *TenantMiddlewareTestSuite) request(target, path string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Host = target
	rec := httptest.NewRecorder()
	return suite.echo.NewContext(req, rec), rec
}

func (suite *TenantMiddlewareTestSuite) TestTenantResolver_BindsTenantAndCompanyID() {
	suite.mockCompanies.On("ResolveHost", mock.Anything, "flair-threads.flairecosystem.com").Return(suite.company, nil).Once()

	var seen *models.Company
	var companyIDInContext uuid.UUID
	handler := TenantResolver(suite.mockCompanies)(func(c echo.Context) error {
		seen, _ = TenantFromContext(c)
		companyIDInContext, _ = common.GetCompanyIDFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	c, rec := suite.request("flair-threads.flairecosystem.com", "/v1/products")
	assert.NoError(suite.T(), handler(c))
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Equal(suite.T(), suite.company.ID, seen.ID)
	assert.Equal(suite.T(), suite.company.ID, companyIDInContext)
}

func (suite *TenantMiddlewareTestSuite) TestTenantResolver_SuspendedStoreRedirects() {
	suite.company.Status = models.CompanyStatusSuspended
	suite.mockCompanies.On("ResolveHost", mock.Anything, "flair-threads.flairecosystem.com").Return(suite.company, nil)

	var seen *models.Company
	handler := TenantResolver(suite.mockCompanies)(suite.okHandler(&seen))

	// Every path redirects, storefront and admin alike.
	for _, path := range []string{"/", "/v1/store/flair-threads/products", "/v1/admin/orders"} {
		c, rec := suite.request("flair-threads.flairecosystem.com", path)
		assert.NoError(suite.T(), handler(c))
		assert.Equal(suite.T(), http.StatusFound, rec.Code)
		assert.Equal(suite.T(), "/suspended", rec.Header().Get(echo.HeaderLocation))
	}
	assert.Nil(suite.T(), seen)
}

func (suite *TenantMiddlewareTestSuite) TestTenantResolver_SuspensionPageItselfIsReachable() {
	suite.company.Status = models.CompanyStatusSuspended
	suite.mockCompanies.On("ResolveHost", mock.Anything, "flair-threads.flairecosystem.com").Return(suite.company, nil).Once()

	var seen *models.Company
	handler := TenantResolver(suite.mockCompanies)(suite.okHandler(&seen))

	c, rec := suite.request("flair-threads.flairecosystem.com", "/suspended")
	assert.NoError(suite.T(), handler(c))
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
}

func (suite *TenantMiddlewareTestSuite) TestTenantResolver_UnknownHostPassesThrough() {
	suite.mockCompanies.On("ResolveHost", mock.Anything, "flairecosystem.com").Return(nil, services.ErrCompanyNotFound).Once()

	var seen *models.Company
	handler := TenantResolver(suite.mockCompanies)(suite.okHandler(&seen))

	c, rec := suite.request("flairecosystem.com", "/v1/platform/stats")
	assert.NoError(suite.T(), handler(c))
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Nil(suite.T(), seen)
}

func (suite *TenantMiddlewareTestSuite) TestRequireTenant_RejectsWithoutTenant() {
	handler := RequireTenant()(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	c, _ := suite.request("flairecosystem.com", "/v1/store/unknown/products")
	err := handler(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), http.StatusNotFound, httpErr.Code)
}

func (suite *TenantMiddlewareTestSuite) TestAdminTenant_FallsBackToSessionCompany() {
	suite.mockCompanies.On("GetByID", mock.Anything, suite.company.ID).Return(suite.company, nil).Once()

	var seen *models.Company
	handler := AdminTenant(suite.mockCompanies)(suite.okHandler(&seen))

	c, rec := suite.request("flairecosystem.com", "/v1/admin/orders")
	c.SetRequest(c.Request().WithContext(common.WithCompanyID(c.Request().Context(), suite.company.ID)))

	assert.NoError(suite.T(), handler(c))
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Equal(suite.T(), suite.company.ID, seen.ID)
}

func (suite *TenantMiddlewareTestSuite) TestAdminTenant_NoSessionCompany() {
	handler := AdminTenant(suite.mockCompanies)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	c, _ := suite.request("flairecosystem.com", "/v1/admin/orders")
	err := handler(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), http.StatusForbidden, httpErr.Code)
}

func (suite *TenantMiddlewareTestSuite) TestAdminTenant_SuspendedSessionCompanyRedirects() {
	suite.company.Status = models.CompanyStatusSuspended
	suite.mockCompanies.On("GetByID", mock.Anything, suite.company.ID).Return(suite.company, nil).Once()

	handler := AdminTenant(suite.mockCompanies)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	c, rec := suite.request("flairecosystem.com", "/v1/admin/orders")
	c.SetRequest(c.Request().WithContext(common.WithCompanyID(c.Request().Context(), suite.company.ID)))

	assert.NoError(suite.T(), handler(c))
	assert.Equal(suite.T(), http.StatusFound, rec.Code)
	assert.Equal(suite.T(), "/suspended", rec.Header().Get(echo.HeaderLocation))
}

func (suite *TenantMiddlewareTestSuite) TestTenantFromParam_ResolvesSlug() {
	suite.mockCompanies.On("ResolveIdentifier", mock.Anything, "flair-threads").Return(suite.company, nil).Once()

	var seen *models.Company
	handler := TenantFromParam(suite.mockCompanies, "company")(suite.okHandler(&seen))

	c, rec := suite.request("flairecosystem.com", "/v1/store/flair-threads/products")
	c.SetParamNames("company")
	c.SetParamValues("flair-threads")

	assert.NoError(suite.T(), handler(c))
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Equal(suite.T(), suite.company.ID, seen.ID)
}

func (suite *TenantMiddlewareTestSuite) TestTenantFromParam_UnknownStore() {
	suite.mockCompanies.On("ResolveIdentifier", mock.Anything, "ghost-store").Return(nil, services.ErrCompanyNotFound).Once()

	handler := TenantFromParam(suite.mockCompanies, "company")(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	c, _ := suite.request("flairecosystem.com", "/v1/store/ghost-store/products")
	c.SetParamNames("company")
	c.SetParamValues("ghost-store")

	err := handler(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), http.StatusNotFound, httpErr.Code)
}

func (suite *TenantMiddlewareTestSuite) TestTenantFromParam_HostTenantWins() {
	var seen *models.Company
	handler := TenantFromParam(suite.mockCompanies, "company")(suite.okHandler(&seen))

	c, rec := suite.request("flair-threads.flairecosystem.com", "/v1/store/other-store/products")
	c.Set("tenant", suite.company)
	c.SetParamNames("company")
	c.SetParamValues("other-store")

	assert.NoError(suite.T(), handler(c))
	assert.Equal(suite.T(), http.StatusOK, rec.Code)
	assert.Equal(suite.T(), suite.company.ID, seen.ID)
	suite.mockCompanies.AssertNotCalled(suite.T(), "ResolveIdentifier", mock.Anything, mock.Anything)
}
