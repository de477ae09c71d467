package router

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"fintrack/internal/auth"
	"fintrack/internal/db/dbtest"
	"fintrack/internal/handler"
	"fintrack/internal/repository"
	"fintrack/internal/service"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type testAPI struct {
	t *testing.T
	e *echo.Echo
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gormDB := dbtest.New(t)

	jwtService, err := auth.NewJWTService(testSecret, 30*time.Minute)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(gormDB)
	expenseRepo := repository.NewExpenseRepository(gormDB)
	incomeRepo := repository.NewIncomeRepository(gormDB)

	authService := service.NewAuthService(userRepo, auth.NewPasswordHasher(bcrypt.MinCost), jwtService, nil, nil, "admin")
	userService := service.NewUserService(userRepo, nil, nil)

	e := echo.New()
	Register(e, zap.NewNop(), authService, Handlers{
		Users:    handler.NewUserHandler(authService, userService),
		Expenses: handler.NewExpenseHandler(service.NewExpenseService(expenseRepo)),
		Incomes:  handler.NewIncomeHandler(service.NewIncomeService(incomeRepo)),
		Summary:  handler.NewSummaryHandler(service.NewSummaryService(expenseRepo, incomeRepo)),
	})
	return &testAPI{t: t, e: e}
}

func (a *testAPI) do(method, path, token, body string) *httptest.ResponseRecorder {
	a.t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) register(username, password string) {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/users/register", "",
		fmt.Sprintf(`{"username":%q,"fullname":%q,"password":%q}`, username, strings.ToUpper(username), password))
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
}

func (a *testAPI) login(username, password string) string {
	a.t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/users/token", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())

	var resp service.TokenResponse
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(a.t, "bearer", resp.TokenType)
	return resp.AccessToken
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestRegister(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(http.MethodPost, "/users/register", "", `{"username":"alice","fullname":"Alice","password":"secret123"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "alice", body["username"])
	assert.Equal(t, false, body["disabled"])
	assert.NotContains(t, body, "password")

	rec = api.do(http.MethodPost, "/users/register", "", `{"username":"alice","fullname":"Other","password":"x"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"CONFLICT"`)

	rec = api.do(http.MethodPost, "/users/register", "", `{"username":"bob"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(http.MethodPost, "/users/register", "", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUsernamesIgnoreCase(t *testing.T) {
	api := newTestAPI(t)
	api.register("Alice", "secret123")

	rec := api.do(http.MethodPost, "/users/register", "", `{"username":"ALICE","fullname":"Other","password":"secret123"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	token := api.login("aLiCe", "secret123")
	rec = api.do(http.MethodGet, "/users/me", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", decode[auth.Identity](t, rec).Username)

	rec = api.do(http.MethodDelete, "/users/ALICE", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice has been deactivated by alice", decode[handler.MessageResponse](t, rec).Msg)
}

func TestToken(t *testing.T) {
	api := newTestAPI(t)
	api.register("alice", "secret123")

	token := api.login("alice", "secret123")
	assert.NotEmpty(t, token)

	// JSON body is accepted too
	rec := api.do(http.MethodPost, "/users/token", "", `{"username":"alice","password":"secret123"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	for _, body := range []string{
		`{"username":"alice","password":"wrong"}`,
		`{"username":"nobody","password":"secret123"}`,
	} {
		rec := api.do(http.MethodPost, "/users/token", "", body)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
		assert.Contains(t, rec.Body.String(), `"code":"INVALID_CREDENTIALS"`)
	}
}

func TestDeactivatedUserIsForbidden(t *testing.T) {
	api := newTestAPI(t)
	api.register("alice", "secret123")
	token := api.login("alice", "secret123")

	rec := api.do(http.MethodGet, "/users/me", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[auth.Identity](t, rec)
	assert.Equal(t, "alice", me.Username)
	assert.False(t, me.Disabled)

	rec = api.do(http.MethodDelete, "/users/alice", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice has been deactivated by alice", decode[handler.MessageResponse](t, rec).Msg)

	rec = api.do(http.MethodGet, "/users/me", token, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "inactive user")
}

func TestUnauthenticatedRequests(t *testing.T) {
	api := newTestAPI(t)
	api.register("alice", "secret123")

	tests := []struct {
		name  string
		path  string
		token string
	}{
		{name: "no token on me", path: "/users/me"},
		{name: "garbage token", path: "/users/me", token: "garbage"},
		{name: "no token on expenses", path: "/expenses"},
		{name: "no token on summary", path: "/summary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := api.do(http.MethodGet, tt.path, tt.token, "")
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Bearer", rec.Header().Get(echo.HeaderWWWAuthenticate))
		})
	}

	// token for a user that was never registered
	jwtService, err := auth.NewJWTService(testSecret, 0)
	require.NoError(t, err)
	ghost, _, err := jwtService.Issue("ghost", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/users/me", ghost, "").Code)
}

func TestListAllAndDeactivateAuthorization(t *testing.T) {
	api := newTestAPI(t)
	api.register("admin", "admin-pass")
	api.register("alice", "secret123")
	api.register("bob", "secret456")

	adminToken := api.login("admin", "admin-pass")
	aliceToken := api.login("alice", "secret123")

	rec := api.do(http.MethodGet, "/users/all", aliceToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(http.MethodGet, "/users/all", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]interface{}](t, rec), 3)

	rec = api.do(http.MethodDelete, "/users/bob", aliceToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(http.MethodDelete, "/users/ghost", adminToken, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(http.MethodDelete, "/users/bob", adminToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bob has been deactivated by admin", decode[handler.MessageResponse](t, rec).Msg)
}

func TestExpenseOwnership(t *testing.T) {
	api := newTestAPI(t)
	api.register("alice", "secret123")
	api.register("bob", "secret456")
	aliceToken := api.login("alice", "secret123")
	bobToken := api.login("bob", "secret456")

	rec := api.do(http.MethodPost, "/expenses", aliceToken, `{"amount":42.5,"description":"lunch","category":"Groceries"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[map[string]interface{}](t, rec)
	id := int(created["id"].(float64))
	assert.Equal(t, "Groceries", created["category"])

	path := fmt.Sprintf("/expenses/%d", id)

	rec = api.do(http.MethodGet, path, bobToken, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = api.do(http.MethodPatch, path, bobToken, `{"amount":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(http.MethodGet, "/expenses", bobToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]map[string]interface{}](t, rec))

	rec = api.do(http.MethodPatch, path, aliceToken, `{"description":"team lunch"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "team lunch", updated["description"])
	assert.Equal(t, 42.5, updated["amount"])
	assert.Equal(t, "Groceries", updated["category"])

	rec = api.do(http.MethodGet, "/expenses?q=TEAM", aliceToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]map[string]interface{}](t, rec), 1)

	rec = api.do(http.MethodGet, "/expenses/?query=cinema", aliceToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]map[string]interface{}](t, rec))

	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodGet, "/expenses/abc", aliceToken, "").Code)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/expenses", aliceToken, `{"amount":-3,"description":"x"}`).Code)
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/expenses", aliceToken, `{"amount":3,"description":"x","category":"Yachts"}`).Code)
}

func TestIncomesAndSummary(t *testing.T) {
	api := newTestAPI(t)
	api.register("alice", "secret123")
	token := api.login("alice", "secret123")

	for _, body := range []string{
		`{"amount":1000,"description":"salary","source":"Salary"}`,
		`{"amount":250.25,"description":"logo design","source":"freelance"}`,
	} {
		rec := api.do(http.MethodPost, "/incomes", token, body)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}
	rec := api.do(http.MethodPost, "/expenses", token, `{"amount":100.5,"description":"power bill","category":"Utility"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = api.do(http.MethodGet, "/incomes?q=freelance", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	incomes := decode[[]map[string]interface{}](t, rec)
	require.Len(t, incomes, 1)
	assert.Equal(t, "Freelance", incomes[0]["source"])

	rec = api.do(http.MethodGet, "/summary", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[map[string]interface{}](t, rec)
	assert.Equal(t, "1250.25", summary["total_income"])
	assert.Equal(t, "100.5", summary["total_expenses"])
	assert.Equal(t, "1149.75", summary["balance"])
}

func TestHealthz(t *testing.T) {
	rec := newTestAPI(t).do(http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
