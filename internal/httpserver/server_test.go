package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/inventory/internal/logging"
	loggingmw "github.com/Skotchmaster/inventory/internal/middleware/logging"
	"github.com/Skotchmaster/inventory/internal/middleware/auth"
	"github.com/Skotchmaster/inventory/internal/models"
	"github.com/Skotchmaster/inventory/internal/repo"
	"github.com/Skotchmaster/inventory/internal/service"
	"github.com/Skotchmaster/inventory/internal/testutil"
	"github.com/Skotchmaster/inventory/internal/tokens"
)

type testEnv struct {
	E    *echo.Echo
	DB   *gorm.DB
	Auth *service.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewDB(t)
	r := repo.New(db)
	authSvc := &service.AuthService{Users: r, Tokens: r, Issuer: tokens.NewIssuer([]byte("test-secret"), 0)}

	logger := logging.New("error", "json")
	logger.SetOutput(io.Discard)

	e := echo.New()
	e.Use(loggingmw.RequestLogger(logger))
	Register(e, &Deps{
		AuthHandler:     &AuthHTTP{Svc: authSvc},
		CategoryHandler: &CategoryHTTP{Svc: &service.CategoryService{Repo: r}},
		ProductHandler:  &ProductHTTP{Svc: &service.ProductService{Repo: r, Categories: r}},
		TokenAuth:       auth.NewTokenAuth(authSvc),
	})

	return &testEnv{E: e, DB: db, Auth: authSvc}
}

func (env *testEnv) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()

	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, rdr)
	if rdr != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (env *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	_, err := env.Auth.SeedAdmin(ctx, "Admin", "admin@example.com", "admin-pass")
	require.NoError(t, err)
	return env.login(t, "admin@example.com", "admin-pass")
}

func (env *testEnv) userToken(t *testing.T, email string) string {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/register", map[string]any{
		"name": "User", "email": email, "password": "secret123", "password_confirmation": "secret123",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return env.login(t, email, "secret123")
}

func (env *testEnv) login(t *testing.T, email, password string) string {
	t.Helper()
	rec := env.do(t, http.MethodPost, "/login", map[string]string{"email": email, "password": password}, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	tok := decode[map[string]string](t, rec)["token"]
	require.NotEmpty(t, tok)
	return tok
}

func (env *testEnv) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, env.DB.Model(model).Count(&n).Error)
	return n
}

type errorBody struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
	Error   *string             `json:"error"`
}

func TestEndToEnd_AdminCreatesCategoryAndProduct(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken(t)

	rec := env.do(t, http.MethodPost, "/categories", map[string]any{"name": "Tools"}, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	category := decode[models.Category](t, rec)

	rec = env.do(t, http.MethodPost, "/products", map[string]any{
		"category_id": category.ID, "name": "Hammer", "price": 9.99, "stock": 3,
	}, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	product := decode[models.Product](t, rec)

	rec = env.do(t, http.MethodGet, fmt.Sprintf("/products/%d", product.ID), nil, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[models.Product](t, rec)
	assert.Equal(t, "Hammer", got.Name)
	assert.InDelta(t, 9.99, got.Price, 0.0001)
	assert.Equal(t, 3, got.Stock)
	require.NotNil(t, got.Category)
	assert.Equal(t, "Tools", got.Category.Name)

	rec = env.do(t, http.MethodGet, "/products", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[map[string]any](t, rec)
	assert.EqualValues(t, 1, page["current_page"])
	assert.EqualValues(t, 10, page["per_page"])
	assert.EqualValues(t, 1, page["total"])
	data := page["data"].([]any)
	require.Len(t, data, 1)
	assert.Equal(t, "Tools", data[0].(map[string]any)["category"].(map[string]any)["name"])
}

func TestEndToEnd_NonAdminIsForbiddenWithoutSideEffects(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken(t)
	user := env.userToken(t, "jane@example.com")

	rec := env.do(t, http.MethodPost, "/categories", map[string]any{"name": "Tools"}, admin)
	require.Equal(t, http.StatusCreated, rec.Code)
	category := decode[models.Category](t, rec)

	rec = env.do(t, http.MethodPost, "/products", map[string]any{
		"category_id": category.ID, "name": "Hammer", "price": 9.99, "stock": 3,
	}, user)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, msgForbidden, decode[errorBody](t, rec).Message)
	assert.Zero(t, env.count(t, &models.Product{}))

	rec = env.do(t, http.MethodDelete, fmt.Sprintf("/categories/%d", category.ID), nil, user)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.EqualValues(t, 1, env.count(t, &models.Category{}))

	rec = env.do(t, http.MethodGet, "/categories", nil, user)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEndToEnd_Unauthenticated(t *testing.T) {
	env := newTestEnv(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/products"},
		{http.MethodGet, "/products/1"},
		{http.MethodPost, "/products"},
		{http.MethodGet, "/categories"},
		{http.MethodPost, "/logout"},
	} {
		rec := env.do(t, tc.method, tc.path, nil, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, tc.path)
		assert.Equal(t, msgUnauthenticated, decode[errorBody](t, rec).Message)
	}

	rec := env.do(t, http.MethodGet, "/products", nil, "forged-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEndToEnd_ProductValidation(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken(t)

	rec := env.do(t, http.MethodPost, "/products", map[string]any{
		"category_id": 999, "name": "Hammer", "price": 9.99, "stock": 3,
	}, admin)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode[errorBody](t, rec)
	assert.Contains(t, body.Errors, "category_id")

	rec = env.do(t, http.MethodPost, "/products", `{"category_id": 1, "name": "Hammer", "price": "abc", "stock": 3}`, admin)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode[errorBody](t, rec).Errors, "price")

	rec = env.do(t, http.MethodPost, "/products", `{"name": `, admin)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Zero(t, env.count(t, &models.Product{}))
}

func TestEndToEnd_PartialUpdate(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken(t)

	rec := env.do(t, http.MethodPost, "/categories", map[string]any{"name": "Tools", "description": "hand tools"}, admin)
	require.Equal(t, http.StatusCreated, rec.Code)
	category := decode[models.Category](t, rec)

	rec = env.do(t, http.MethodPost, "/products", map[string]any{
		"category_id": category.ID, "name": "Hammer", "description": "steel", "price": 9.99, "stock": 3,
	}, admin)
	require.Equal(t, http.StatusCreated, rec.Code)
	product := decode[models.Product](t, rec)

	rec = env.do(t, http.MethodPut, fmt.Sprintf("/products/%d", product.ID), map[string]any{"stock": 5}, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[models.Product](t, rec)
	assert.Equal(t, 5, got.Stock)
	assert.Equal(t, "Hammer", got.Name)
	assert.InDelta(t, 9.99, got.Price, 0.0001)
	require.NotNil(t, got.Description)
	assert.Equal(t, "steel", *got.Description)

	rec = env.do(t, http.MethodPut, fmt.Sprintf("/categories/%d", category.ID), map[string]any{"name": "Hand Tools"}, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	cat := decode[models.Category](t, rec)
	assert.Equal(t, "Hand Tools", cat.Name)
	require.NotNil(t, cat.Description)
	assert.Equal(t, "hand tools", *cat.Description)

	rec = env.do(t, http.MethodPut, "/products/999", map[string]any{"stock": 5}, admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodPut, fmt.Sprintf("/products/%d", product.ID), map[string]any{"description": nil}, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got = decode[models.Product](t, rec)
	assert.Nil(t, got.Description)
	assert.Equal(t, 5, got.Stock)

	rec = env.do(t, http.MethodPatch, fmt.Sprintf("/categories/%d", category.ID), map[string]any{"description": nil}, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	cat = decode[models.Category](t, rec)
	assert.Nil(t, cat.Description)
	assert.Equal(t, "Hand Tools", cat.Name)

	rec = env.do(t, http.MethodPatch, fmt.Sprintf("/categories/%d", category.ID), map[string]any{"description": 12}, admin)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	assert.Contains(t, decode[errorBody](t, rec).Errors, "description")
}

func TestEndToEnd_Deletes(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken(t)

	rec := env.do(t, http.MethodPost, "/categories", map[string]any{"name": "Tools"}, admin)
	require.Equal(t, http.StatusCreated, rec.Code)
	category := decode[models.Category](t, rec)

	rec = env.do(t, http.MethodPost, "/products", map[string]any{
		"category_id": category.ID, "name": "Hammer", "price": 1, "stock": 1,
	}, admin)
	require.Equal(t, http.StatusCreated, rec.Code)
	product := decode[models.Product](t, rec)

	rec = env.do(t, http.MethodDelete, fmt.Sprintf("/categories/%d", category.ID), nil, admin)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, http.MethodDelete, fmt.Sprintf("/products/%d", product.ID), nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[map[string]string](t, rec)["message"])

	rec = env.do(t, http.MethodDelete, fmt.Sprintf("/products/%d", product.ID), nil, admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(t, http.MethodDelete, fmt.Sprintf("/categories/%d", category.ID), nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, env.count(t, &models.Category{}))
}

func TestEndToEnd_RegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	reg := map[string]any{
		"name": "Jane", "email": "jane@example.com", "password": "secret123",
		"password_confirmation": "secret123", "role": "admin",
	}
	rec := env.do(t, http.MethodPost, "/register", reg, "")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotEmpty(t, decode[map[string]string](t, rec)["message"])

	var jane models.User
	require.NoError(t, env.DB.Where("email = ?", "jane@example.com").First(&jane).Error)
	assert.Equal(t, models.RoleUser, jane.Role)

	rec = env.do(t, http.MethodPost, "/register", reg, "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode[errorBody](t, rec).Errors, "email")
	assert.EqualValues(t, 1, env.count(t, &models.User{}))

	admin := env.adminToken(t)
	rec = env.do(t, http.MethodPost, "/register", map[string]any{
		"name": "Boss", "email": "boss@example.com", "password": "secret123",
		"password_confirmation": "secret123", "role": "admin",
	}, admin)
	require.Equal(t, http.StatusCreated, rec.Code)
	var boss models.User
	require.NoError(t, env.DB.Where("email = ?", "boss@example.com").First(&boss).Error)
	assert.Equal(t, models.RoleAdmin, boss.Role)

	rec = env.do(t, http.MethodPost, "/register", map[string]any{"email": "x"}, "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode[errorBody](t, rec)
	assert.Contains(t, body.Errors, "name")
	assert.Contains(t, body.Errors, "password")

	wrongPw := env.do(t, http.MethodPost, "/login", map[string]string{"email": "jane@example.com", "password": "nope-nope"}, "")
	noUser := env.do(t, http.MethodPost, "/login", map[string]string{"email": "ghost@example.com", "password": "secret123"}, "")
	assert.Equal(t, http.StatusUnauthorized, wrongPw.Code)
	assert.Equal(t, http.StatusUnauthorized, noUser.Code)
	assert.Equal(t, wrongPw.Body.String(), noUser.Body.String())
}

func TestEndToEnd_RegisterRejectsOverlongPassword(t *testing.T) {
	env := newTestEnv(t)

	pw := strings.Repeat("a", 73)
	rec := env.do(t, http.MethodPost, "/register", map[string]any{
		"name": "Long", "email": "long@example.com", "password": pw, "password_confirmation": pw,
	}, "")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	assert.Contains(t, decode[errorBody](t, rec).Errors, "password")
	assert.EqualValues(t, 0, env.count(t, &models.User{}))
}

func TestEndToEnd_LogoutRevokesOnlyCurrentToken(t *testing.T) {
	env := newTestEnv(t)
	first := env.userToken(t, "jane@example.com")
	second := env.login(t, "jane@example.com", "secret123")

	rec := env.do(t, http.MethodPost, "/logout", nil, first)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/categories", nil, first).Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/categories", nil, second).Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodPost, "/logout", nil, first).Code)
}

func TestEndToEnd_RoutingErrors(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken(t)

	rec := env.do(t, http.MethodGet, "/nowhere", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, msgNotFound, decode[errorBody](t, rec).Message)

	rec = env.do(t, http.MethodGet, "/register", nil, "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, msgMethod, decode[errorBody](t, rec).Message)

	rec = env.do(t, http.MethodGet, "/products/999", nil, admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product not found", decode[errorBody](t, rec).Message)

	rec = env.do(t, http.MethodGet, "/categories/abc", nil, admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEndToEnd_APIPrefixAndSearch(t *testing.T) {
	env := newTestEnv(t)
	admin := env.adminToken(t)

	rec := env.do(t, http.MethodPost, "/api/categories", map[string]any{"name": "Tools"}, admin)
	require.Equal(t, http.StatusCreated, rec.Code)
	category := decode[models.Category](t, rec)

	for _, name := range []string{"Claw Hammer", "Screwdriver"} {
		rec = env.do(t, http.MethodPost, "/api/products", map[string]any{
			"category_id": category.ID, "name": name, "price": 1, "stock": 1,
		}, admin)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/products/search?q=hammer", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[map[string]any](t, rec)
	assert.EqualValues(t, 1, page["total"])

	rec = env.do(t, http.MethodGet, "/products/search", nil, admin)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/products?page=9223372036854775807", nil, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	far := decode[map[string]any](t, rec)
	assert.Empty(t, far["data"])
	assert.Nil(t, far["from"])
	assert.Nil(t, far["to"])
	assert.EqualValues(t, 2, far["total"])
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodGet, "/health/live", nil, "").Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health/ready", nil, "").Code)
}

func TestMain(m *testing.M) {
	logrus.SetOutput(io.Discard)
	m.Run()
}
