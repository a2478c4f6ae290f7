package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/nimeshabuddhika/account-service/app"
	"github.com/nimeshabuddhika/account-service/internal/handlers"
	"github.com/nimeshabuddhika/account-service/internal/models"
	"github.com/nimeshabuddhika/account-service/internal/services"
	"github.com/nimeshabuddhika/account-service/internal/views"
	"github.com/nimeshabuddhika/account-service/pkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryRepo is an in-memory AccountRepository so the full router,
// handlers, service and views run without a database.
type memoryRepo struct {
	nextID   int64
	accounts []models.Account
}

func (m *memoryRepo) Create(_ context.Context, _ pgx.Tx, account models.Account) (models.Account, error) {
	m.nextID++
	account.ID = m.nextID
	m.accounts = append(m.accounts, account)
	return account, nil
}

func (m *memoryRepo) FindByID(_ context.Context, id int64) (models.Account, error) {
	for _, a := range m.accounts {
		if a.ID == id {
			return a, nil
		}
	}
	return models.Account{}, pgx.ErrNoRows
}

func (m *memoryRepo) FindAll(_ context.Context) ([]models.Account, error) {
	out := make([]models.Account, len(m.accounts))
	copy(out, m.accounts)
	return out, nil
}

func (m *memoryRepo) FindByIDForUpdate(ctx context.Context, _ pgx.Tx, id int64) (models.Account, error) {
	return m.FindByID(ctx, id)
}

func (m *memoryRepo) Update(_ context.Context, _ pgx.Tx, account models.Account) error {
	for i, a := range m.accounts {
		if a.ID == account.ID {
			m.accounts[i] = account
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (m *memoryRepo) Delete(_ context.Context, _ pgx.Tx, id int64) error {
	for i, a := range m.accounts {
		if a.ID == id {
			m.accounts = append(m.accounts[:i], m.accounts[i+1:]...)
			return nil
		}
	}
	return nil
}

// nopRunner satisfies services.TxRunner without a connection.
type nopRunner struct{}

func (nopRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx pgx.Tx) error) error {
	return fn(ctx, nil)
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()
	svc := services.NewAccountService(logger, nopRunner{}, &memoryRepo{})
	return app.NewRouter(logger, handlers.NewAccountHandler(logger, svc), handlers.NewBaseHandler(logger))
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func doRequest(r *gin.Engine, method, path string, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func validPayload() map[string]any {
	return map[string]any{
		"name":         "A",
		"email":        "a@x.com",
		"address":      "1 St",
		"phone_number": "555-0100",
	}
}

func TestGetIndex(t *testing.T) {
	r := newTestRouter()

	rec := doRequest(r, http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Account REST API Service", body["name"])
	assert.Equal(t, "/accounts", body["paths"])
}

func TestGetHealth(t *testing.T) {
	r := newTestRouter()

	rec := doRequest(r, http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "OK", body["status"])
}

func TestCreateAccount(t *testing.T) {
	r := newTestRouter()

	rec := postJSON(t, r, "/accounts", validPayload())

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "/accounts/1", rec.Header().Get("Location"))
	assert.NotEmpty(t, rec.Header().Get(pkg.HeaderTraceId))

	var account views.AccountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &account))
	assert.Equal(t, int64(1), account.ID)
	assert.Equal(t, "A", account.Name)
	assert.Equal(t, "a@x.com", account.Email)
	assert.Equal(t, "1 St", account.Address)
	assert.Equal(t, "555-0100", account.PhoneNumber)
	// date_joined defaults to the creation date
	assert.Equal(t, time.Now().UTC().Format(views.DateLayout), account.DateJoined)
}

func TestCreateAccountWithJoinDate(t *testing.T) {
	r := newTestRouter()

	payload := validPayload()
	payload["date_joined"] = "2020-05-17"
	rec := postJSON(t, r, "/accounts", payload)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var account views.AccountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &account))
	assert.Equal(t, "2020-05-17", account.DateJoined)
}

func TestCreateAccountMissingField(t *testing.T) {
	r := newTestRouter()

	rec := postJSON(t, r, "/accounts", map[string]any{"name": "not enough data"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body pkg.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, pkg.ErrInvalidInputCode.Code, body.Code)
	assert.NotEmpty(t, body.Message)
}

func TestCreateAccountWrongFieldType(t *testing.T) {
	r := newTestRouter()

	payload := validPayload()
	payload["name"] = 42
	rec := postJSON(t, r, "/accounts", payload)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateAccountBadJoinDate(t *testing.T) {
	r := newTestRouter()

	payload := validPayload()
	payload["date_joined"] = "17/05/2020"
	rec := postJSON(t, r, "/accounts", payload)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateAccountUnsupportedMediaType(t *testing.T) {
	r := newTestRouter()

	b, _ := json.Marshal(validPayload())
	req := httptest.NewRequest(http.MethodPost, "/accounts", bytes.NewReader(b))
	req.Header.Set("Content-Type", "test/html")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestListAccountsEmpty(t *testing.T) {
	r := newTestRouter()

	rec := doRequest(r, http.MethodGet, "/accounts", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestListAccountsInsertionOrder(t *testing.T) {
	r := newTestRouter()

	const count = 5
	for i := 0; i < count; i++ {
		payload := validPayload()
		payload["name"] = fmt.Sprintf("account-%d", i)
		rec := postJSON(t, r, "/accounts", payload)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doRequest(r, http.MethodGet, "/accounts", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var accounts []views.AccountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &accounts))
	require.Len(t, accounts, count)
	for i, account := range accounts {
		assert.Equal(t, int64(i+1), account.ID)
		assert.Equal(t, fmt.Sprintf("account-%d", i), account.Name)
	}
}

func TestGetAccount(t *testing.T) {
	r := newTestRouter()

	created := postJSON(t, r, "/accounts", validPayload())
	require.Equal(t, http.StatusCreated, created.Code)

	rec := doRequest(r, http.MethodGet, "/accounts/1", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	var account views.AccountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &account))
	assert.Equal(t, "A", account.Name)
	assert.Equal(t, "a@x.com", account.Email)
	assert.Equal(t, "1 St", account.Address)
	assert.Equal(t, "555-0100", account.PhoneNumber)
}

func TestGetAccountNotFound(t *testing.T) {
	r := newTestRouter()

	rec := doRequest(r, http.MethodGet, "/accounts/999", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body pkg.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, pkg.ErrRecordNotFoundCode.Code, body.Code)
}

func TestGetAccountBadID(t *testing.T) {
	r := newTestRouter()

	rec := doRequest(r, http.MethodGet, "/accounts/abc", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateAccount(t *testing.T) {
	r := newTestRouter()

	created := postJSON(t, r, "/accounts", validPayload())
	require.Equal(t, http.StatusCreated, created.Code)

	rec := doRequest(r, http.MethodPatch, "/accounts/1", `{"email":"b@x.com"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	var account views.AccountResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &account))
	// only the submitted field changes; identifier is preserved
	assert.Equal(t, int64(1), account.ID)
	assert.Equal(t, "b@x.com", account.Email)
	assert.Equal(t, "A", account.Name)
	assert.Equal(t, "1 St", account.Address)
	assert.Equal(t, "555-0100", account.PhoneNumber)
}

func TestUpdateAccountNotFound(t *testing.T) {
	r := newTestRouter()

	rec := doRequest(r, http.MethodPatch, "/accounts/999", `{"email":"b@x.com"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateAccountZeroID(t *testing.T) {
	r := newTestRouter()

	rec := doRequest(r, http.MethodPatch, "/accounts/0", `{"email":"b@x.com"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateAccountEmptyField(t *testing.T) {
	r := newTestRouter()

	created := postJSON(t, r, "/accounts", validPayload())
	require.Equal(t, http.StatusCreated, created.Code)

	rec := doRequest(r, http.MethodPatch, "/accounts/1", `{"name":""}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteAccount(t *testing.T) {
	r := newTestRouter()

	created := postJSON(t, r, "/accounts", validPayload())
	require.Equal(t, http.StatusCreated, created.Code)

	rec := doRequest(r, http.MethodDelete, "/accounts/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	// the identifier is invalid for all operations afterwards
	rec = doRequest(r, http.MethodGet, "/accounts/1", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteAccountNonexistentIsIdempotent(t *testing.T) {
	r := newTestRouter()

	rec := doRequest(r, http.MethodDelete, "/accounts/999", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestCollectionMethodNotAllowed(t *testing.T) {
	r := newTestRouter()

	for _, method := range []string{http.MethodPatch, http.MethodDelete} {
		rec := doRequest(r, method, "/accounts", "")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, "method %s", method)
	}
}

func TestTraceIDHeaderEchoed(t *testing.T) {
	r := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/accounts", nil)
	req.Header.Set(pkg.HeaderTraceId, "trace-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "trace-123", rec.Header().Get(pkg.HeaderTraceId))
}
