package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"travkings/internal/domain/models"
	"travkings/internal/repository"
	"travkings/internal/storage"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"travkings/internal/transport/http/dto"
)

type testValidator struct {
	validator *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

type MockPackageService struct {
	mock.Mock
}

func (m *MockPackageService) CreatePackage(ctx context.Context, req dto.CreatePackageRequest, thumbnail *multipart.FileHeader) (*models.TravelPackage, error) {
	args := m.Called(ctx, req, thumbnail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TravelPackage), args.Error(1)
}

func (m *MockPackageService) UpdatePackage(ctx context.Context, id uuid.UUID, req dto.UpdatePackageRequest, thumbnail *multipart.FileHeader) (*models.TravelPackage, error) {
	args := m.Called(ctx, id, req, thumbnail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TravelPackage), args.Error(1)
}

func (m *MockPackageService) GetPackageByID(ctx context.Context, id uuid.UUID) (*models.TravelPackage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TravelPackage), args.Error(1)
}

func (m *MockPackageService) GetPackageBySlug(ctx context.Context, slug string) (*models.TravelPackage, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TravelPackage), args.Error(1)
}

func (m *MockPackageService) ListPackages(ctx context.Context, filter repository.PackageFilter) ([]models.TravelPackage, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.TravelPackage), args.Error(1)
}

func (m *MockPackageService) DeletePackage(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPackageService) CountPackages(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

type MockQueryService struct {
	mock.Mock
}

func (m *MockQueryService) CreateQuery(ctx context.Context, req dto.CreateQueryRequest) (*models.Query, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Query), args.Error(1)
}

func (m *MockQueryService) GetQueryByID(ctx context.Context, id uuid.UUID) (*models.Query, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Query), args.Error(1)
}

func (m *MockQueryService) ListQueries(ctx context.Context, filter repository.QueryFilter) ([]models.Query, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.Query), args.Error(1)
}

func (m *MockQueryService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.QueryStatus) (*models.Query, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Query), args.Error(1)
}

func (m *MockQueryService) DeleteQuery(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQueryService) CountQueries(ctx context.Context, status models.QueryStatus) (int, error) {
	args := m.Called(ctx, status)
	return args.Int(0), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Login(ctx context.Context, username, password string) (string, models.Admin, error) {
	args := m.Called(ctx, username, password)
	return args.String(0), args.Get(1).(models.Admin), args.Error(2)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = &testValidator{validator: validator.New()}
	e.Use(session.Middleware(sessions.NewCookieStore([]byte("test-secret"))))
	return e
}

func newTestRouters(pkg *MockPackageService, query *MockQueryService, auth *MockAuthService) *Routers {
	return NewRouter(slog.Default(), pkg, nil, query, auth)
}

func TestCreateQuery(t *testing.T) {
	t.Run("valid query returns 201", func(t *testing.T) {
		queries := new(MockQueryService)
		r := newTestRouters(nil, queries, nil)
		e := newTestEcho()

		saved := &models.Query{ID: uuid.New(), Status: models.QueryStatusPending}
		queries.On("CreateQuery", mock.Anything, mock.AnythingOfType("dto.CreateQueryRequest")).Return(saved, nil)

		body := `{"name":"Ivan","email":"ivan@example.com","service":"honeymoon","message":"Need a package"}`
		req := httptest.NewRequest(http.MethodPost, "/api/queries", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		err := r.CreateQuery(e.NewContext(req, rec))

		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, rec.Code)
		queries.AssertExpectations(t)
	})

	t.Run("invalid email returns 400", func(t *testing.T) {
		queries := new(MockQueryService)
		r := newTestRouters(nil, queries, nil)
		e := newTestEcho()

		body := `{"name":"Ivan","email":"nope","service":"honeymoon","message":"Hi"}`
		req := httptest.NewRequest(http.MethodPost, "/api/queries", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()

		err := r.CreateQuery(e.NewContext(req, rec))

		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		queries.AssertNotCalled(t, "CreateQuery")
	})
}

func TestGetPackage(t *testing.T) {
	t.Run("bad uuid returns 400", func(t *testing.T) {
		packages := new(MockPackageService)
		r := newTestRouters(packages, nil, nil)
		e := newTestEcho()

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/api/packages/:id")
		c.SetParamNames("id")
		c.SetParamValues("not-a-uuid")

		require.NoError(t, r.GetPackage(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown id returns 404", func(t *testing.T) {
		packages := new(MockPackageService)
		r := newTestRouters(packages, nil, nil)
		e := newTestEcho()

		id := uuid.New()
		packages.On("GetPackageByID", mock.Anything, id).Return(nil, storage.ErrPackageNotFound)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetPath("/api/packages/:id")
		c.SetParamNames("id")
		c.SetParamValues(id.String())

		require.NoError(t, r.GetPackage(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListPackages_DefaultFilter(t *testing.T) {
	packages := new(MockPackageService)
	r := newTestRouters(packages, nil, nil)
	e := newTestEcho()

	packages.On("ListPackages", mock.Anything, mock.MatchedBy(func(f repository.PackageFilter) bool {
		// публичный список по умолчанию показывает только активные пакеты
		return f.IsActive != nil && *f.IsActive && f.IsFeatured == nil
	})).Return([]models.TravelPackage{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/packages", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, r.ListPackages(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
	packages.AssertExpectations(t)
}

func TestCreatePackage_SlugConflict(t *testing.T) {
	packages := new(MockPackageService)
	r := newTestRouters(packages, nil, nil)
	e := newTestEcho()

	packages.On("CreatePackage", mock.Anything, mock.AnythingOfType("dto.CreatePackageRequest"), mock.Anything).
		Return(nil, storage.ErrSlugExists)

	body := `{"title":"Bali","slug":"bali","description":"d","currency":"USD","duration":7,"destination":"Bali","category":"luxury","minTravelers":1}`
	req := httptest.NewRequest(http.MethodPost, "/api/packages", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	require.NoError(t, r.CreatePackage(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "slug_exists", resp["error"])
}

func TestLogin(t *testing.T) {
	t.Run("success sets session and redirects", func(t *testing.T) {
		auth := new(MockAuthService)
		r := newTestRouters(nil, nil, auth)
		e := newTestEcho()
		e.POST("/api/auth/login", r.Login)

		auth.On("Login", mock.Anything, "admin", "secret").
			Return("signed-token", models.Admin{ID: "1", Username: "admin"}, nil)

		body := `{"username":"admin","password":"secret"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/admin", rec.Header().Get(echo.HeaderLocation))
		assert.NotEmpty(t, rec.Result().Cookies())
	})

	t.Run("bad credentials return 401", func(t *testing.T) {
		auth := new(MockAuthService)
		r := newTestRouters(nil, nil, auth)
		e := newTestEcho()
		e.POST("/api/auth/login", r.Login)

		auth.On("Login", mock.Anything, "admin", "wrong").
			Return("", models.Admin{}, storage.ErrInvalidCredentials)

		body := `{"username":"admin","password":"wrong"}`
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("missing fields return 400", func(t *testing.T) {
		auth := new(MockAuthService)
		r := newTestRouters(nil, nil, auth)
		e := newTestEcho()
		e.POST("/api/auth/login", r.Login)

		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"username":"admin"}`))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		auth.AssertNotCalled(t, "Login")
	})
}
