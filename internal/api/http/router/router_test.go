package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apicontext "github.com/dtroode/employee-directory/internal/api/http/context"
	"github.com/dtroode/employee-directory/internal/metrics"
	"github.com/dtroode/employee-directory/internal/mocks"
	"github.com/dtroode/employee-directory/internal/model"
	"github.com/dtroode/employee-directory/internal/password"
	"github.com/dtroode/employee-directory/internal/service"
	"github.com/dtroode/employee-directory/internal/testutil"
	"github.com/dtroode/employee-directory/internal/token"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memUsers is an in-memory model.UserStore.
type memUsers struct {
	mu    sync.Mutex
	users []model.User
}

func (s *memUsers) find(match func(model.User) bool) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if match(u) {
			return u, nil
		}
	}
	return model.User{}, model.ErrNotFound
}

func (s *memUsers) GetByID(_ context.Context, id uuid.UUID) (model.User, error) {
	return s.find(func(u model.User) bool { return u.ID == id })
}

func (s *memUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	return s.find(func(u model.User) bool { return strings.EqualFold(u.Email, email) })
}

func (s *memUsers) GetByLogin(_ context.Context, login string) (model.User, error) {
	return s.find(func(u model.User) bool { return strings.EqualFold(u.Email, login) || u.Username == login })
}

func (s *memUsers) Create(_ context.Context, user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = append(s.users, user)
	return user, nil
}

type fixture struct {
	engine    *gin.Engine
	employees *mocks.EmployeeService
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	log := testutil.MakeNoopLogger()
	users := &memUsers{}
	tokens := token.NewJWT("test-secret", time.Hour)
	employees := &mocks.EmployeeService{}
	uploads := &mocks.UploadManager{}
	uploads.On("MaxSize").Return(int64(5 << 20))
	m := metrics.New()

	r := New(Dependencies{
		AuthService:     service.NewAuth(users, password.NewBcrypt(4), tokens, log),
		EmployeeService: employees,
		Uploads:         uploads,
		TokenManager:    tokens,
		UserStore:       users,
		ContextManager:  apicontext.NewManager(),
		Observer:        m,
		MetricsHandler:  m.Handler(),
		Logger:          log,
	})
	return fixture{engine: r.Register(), employees: employees}
}

func (f fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.engine.ServeHTTP(rec, req)
	return rec
}

func postJSON(t *testing.T, target string, body any) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Message
}

func TestRouter_Health(t *testing.T) {
	f := newFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Employee Directory API","status":"Running"}`, rec.Body.String())
}

func TestRouter_UnknownRoute(t *testing.T) {
	f := newFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/nothing", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", message(t, rec))
}

func TestRouter_EmployeesRequireToken(t *testing.T) {
	f := newFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authorized, no token", message(t, rec))
	f.employees.AssertNotCalled(t, "List", mock.Anything)
}

func TestRouter_CORSPreflight(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/employees", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	rec := f.do(req)

	assert.Less(t, rec.Code, 300)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouter_SignupLoginAndList(t *testing.T) {
	f := newFixture(t)

	rec := f.do(postJSON(t, "/api/v1/users/signup", map[string]string{
		"username": "ada",
		"email":    "Ada@Example.com",
		"password": "secret1",
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(postJSON(t, "/api/v1/users/signup", map[string]string{
		"username": "ada",
		"email":    "other@example.com",
		"password": "secret1",
	}))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(postJSON(t, "/api/v1/users/login", map[string]string{
		"email":    "ada",
		"password": "wrong-password",
	}))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid email or password", message(t, rec))

	rec = f.do(postJSON(t, "/api/v1/users/login", map[string]string{
		"email":    "ada@example.com",
		"password": "secret1",
	}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var login struct {
		Token string         `json:"token"`
		User  model.Identity `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)
	assert.Equal(t, "ada", login.User.Username)

	f.employees.On("List", mock.Anything).Return([]model.Employee{{ID: uuid.New(), FirstName: "Grace"}}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	rec = f.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"first_name":"Grace"`)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token+"x")
	rec = f.do(req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Not authorized, token failed", message(t, rec))
}

func TestRouter_Metrics(t *testing.T) {
	f := newFixture(t)

	f.do(httptest.NewRequest(http.MethodGet, "/", nil))
	rec := f.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `employee_api_http_requests_total{method="GET",route="/",status="200"} 1`)
}
