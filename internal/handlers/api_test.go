package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/necroledger/necroledger-api/internal/config"
	"github.com/necroledger/necroledger-api/internal/jobs"
	"github.com/necroledger/necroledger-api/internal/models"
	"github.com/necroledger/necroledger-api/internal/repository"
	"github.com/necroledger/necroledger-api/internal/services"
	"github.com/necroledger/necroledger-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	defaultWait  = 2 * time.Second
	pollInterval = 10 * time.Millisecond
)

type testAPI struct {
	router *gin.Engine
	repos  *repository.Repositories
	svcs   *services.Services
	token  string
	userID uint
}

func newTestAPI(t *testing.T, worker *jobs.Worker) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{JWTSecret: "test-secret", JWTExpirationHours: 1, AdminPassword: "Popete13"}
	repos := repository.NewRepositories(testutil.NewTestDB(t))
	svcs := services.NewServices(repos, worker, cfg)
	_, err := svcs.Setup.EnsureDefaults(context.Background())
	require.NoError(t, err)

	router := gin.New()
	NewHandlers(svcs).RegisterRoutes(router.Group("/api/v1"), cfg.JWTSecret)

	api := &testAPI{router: router, repos: repos, svcs: svcs}
	w := api.do(t, http.MethodPost, "/api/v1/auth/login", `{"username": "admin", "password": "Popete13"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var login services.LoginResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	api.token = login.Token
	api.userID = login.User.ID
	return api
}

func (a *testAPI) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testAPI) accountID(t *testing.T, code string) uint {
	t.Helper()
	account, err := a.repos.Account.FindByCode(context.Background(), code)
	require.NoError(t, err)
	return account.ID
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func entryBody(number, date string, debitAccount, creditAccount uint, debit, credit string) string {
	return fmt.Sprintf(`{"number": %q, "date": %q, "description": "Depósito", "lines": [
		{"account_id": %d, "debit": %q, "credit": "0"},
		{"account_id": %d, "debit": "0", "credit": %q}]}`,
		number, date, debitAccount, debit, creditAccount, credit)
}

func TestAPI_Login(t *testing.T) {
	api := newTestAPI(t, nil)
	api.token = ""

	w := api.do(t, http.MethodPost, "/api/v1/auth/login", `{"username": "admin", "password": "wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "credenciales inválidas", body["message"])

	w = api.do(t, http.MethodPost, "/api/v1/auth/login", `{"username": "admin"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/accounts", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	_, succeeded, err := api.repos.Audit.List(context.Background(), &repository.AuditQuery{Action: models.AuditLoginSucceeded})
	require.NoError(t, err)
	assert.Equal(t, int64(1), succeeded)
	_, failed, err := api.repos.Audit.List(context.Background(), &repository.AuditQuery{Action: models.AuditLoginFailed})
	require.NoError(t, err)
	assert.Equal(t, int64(1), failed)
}

func TestAPI_Accounts(t *testing.T) {
	api := newTestAPI(t, nil)

	w := api.do(t, http.MethodGet, "/api/v1/accounts", "")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(len(services.DefaultAccounts)), body["total"])

	id := api.accountID(t, "1.2")
	w = api.do(t, http.MethodGet, fmt.Sprintf("/api/v1/accounts/%d", id), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "BANCOS", decode(t, w)["name"])

	w = api.do(t, http.MethodGet, "/api/v1/accounts/9999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/accounts/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAPI_JournalLifecycle(t *testing.T) {
	api := newTestAPI(t, nil)
	caja, bancos := api.accountID(t, "1.1"), api.accountID(t, "1.2")

	w := api.do(t, http.MethodPost, "/api/v1/journal/entries",
		entryBody("AS-20240101-001", "2024-01-01", caja, bancos, "500.00", "500.00"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode(t, w)
	assert.Equal(t, true, created["success"])
	assert.Equal(t, "Asiento AS-20240101-001 creado exitosamente. Total: Q 500.00, Líneas: 2", created["message"])
	entryID := uint(created["entry"].(map[string]interface{})["id"].(float64))

	w = api.do(t, http.MethodGet, "/api/v1/journal/entries?from=2024-01-01&to=2024-01-31", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode(t, w)
	assert.Equal(t, float64(1), list["total"])
	entry := list["entries"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "500", entry["total_debit"])
	assert.Equal(t, entry["total_debit"], entry["total_credit"])

	w = api.do(t, http.MethodGet, "/api/v1/journal/summary/daily?date=2024-01-01", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["entry_count"])

	w = api.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/journal/entries/%d", entryID), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Asiento AS-20240101-001 eliminado exitosamente", decode(t, w)["message"])

	w = api.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/journal/entries/%d", entryID), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, decode(t, w)["success"])

	w = api.do(t, http.MethodGet, "/api/v1/audits?per_page=10", "")
	require.Equal(t, http.StatusOK, w.Code)
	audits := decode(t, w)["audits"].([]interface{})
	assert.Equal(t, models.AuditDeleteEntry, audits[0].(map[string]interface{})["action"])
}

func TestAPI_CreateEntry_Failures(t *testing.T) {
	api := newTestAPI(t, nil)
	caja, bancos := api.accountID(t, "1.1"), api.accountID(t, "1.2")

	w := api.do(t, http.MethodPost, "/api/v1/journal/entries",
		entryBody("AS-20240101-001", "2024-01-01", caja, bancos, "100.00", "90.00"))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, decode(t, w)["message"], "no está cuadrada")

	w = api.do(t, http.MethodPost, "/api/v1/journal/entries",
		entryBody("AS-20240101-001", "2024-01-01", caja, 9999, "10", "10"))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Línea 2: la cuenta con ID 9999 no existe", decode(t, w)["message"])

	w = api.do(t, http.MethodPost, "/api/v1/journal/entries",
		entryBody("AS-20240101-001", "2024-01-01", caja, bancos, "-10", "-10"))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = api.do(t, http.MethodPost, "/api/v1/journal/entries",
		entryBody("AS-20240101-001", "01/01/2024", caja, bancos, "10", "10"))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodPost, "/api/v1/journal/entries",
		entryBody("AS-20240101-001", "2024-01-01", caja, bancos, "10", "10"))
	require.Equal(t, http.StatusCreated, w.Code)
	w = api.do(t, http.MethodPost, "/api/v1/journal/entries",
		entryBody("AS-20240101-001", "2024-01-01", caja, bancos, "10", "10"))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "El número de asiento AS-20240101-001 ya existe", decode(t, w)["message"])
}

func TestAPI_CreateEntry_GeneratedNumberAndNestedBody(t *testing.T) {
	api := newTestAPI(t, nil)
	caja, bancos := api.accountID(t, "1.1"), api.accountID(t, "1.2")

	w := api.do(t, http.MethodGet, "/api/v1/journal/next_number", "")
	require.Equal(t, http.StatusOK, w.Code)
	next := decode(t, w)["number"].(string)
	assert.Regexp(t, `^AS-\d{8}-001$`, next)

	body := fmt.Sprintf(`{"entry": {"lines": [{"account_id": %d, "debit": 25}, {"account_id": %d, "credit": 25}]}}`, caja, bancos)
	w = api.do(t, http.MethodPost, "/api/v1/journal/entries", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, next, decode(t, w)["number"])

	w = api.do(t, http.MethodGet, "/api/v1/journal/next_number", "")
	assert.Regexp(t, `^AS-\d{8}-002$`, decode(t, w)["number"])
}

func TestAPI_PeriodSummaryValidation(t *testing.T) {
	api := newTestAPI(t, nil)

	w := api.do(t, http.MethodGet, "/api/v1/journal/summary/period?from=2024-01-01", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/journal/summary/period?from=2024-02-01&to=2024-01-01", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/journal/summary/period?from=2024-01-01&to=2024-01-31", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode(t, w)["entry_count"])
}

func TestAPI_ChangePassword(t *testing.T) {
	api := newTestAPI(t, nil)

	w := api.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/users/%d/change_password", api.userID+1), `{"new_password": "nuevo-secreto"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/users/%d/change_password", api.userID), `{"new_password": "123"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = api.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/users/%d/change_password", api.userID), `{"user": {"new_password": "nuevo-secreto"}}`)
	require.Equal(t, http.StatusOK, w.Code)

	api.token = ""
	w = api.do(t, http.MethodPost, "/api/v1/auth/login", `{"username": "admin", "password": "nuevo-secreto"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAPI_Jobs(t *testing.T) {
	api := newTestAPI(t, nil)

	w := api.do(t, http.MethodGet, "/api/v1/jobs/status", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decode(t, w)["enabled"])

	w = api.do(t, http.MethodPost, "/api/v1/jobs/integrity_check", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	worker := jobs.NewWorker(1)
	t.Cleanup(worker.Shutdown)
	api = newTestAPI(t, worker)

	w = api.do(t, http.MethodPost, "/api/v1/jobs/integrity_check", "")
	assert.Equal(t, http.StatusAccepted, w.Code)

	require.Eventually(t, func() bool {
		return worker.GetStats().CompletedJobs == 1
	}, defaultWait, pollInterval)

	w = api.do(t, http.MethodGet, "/api/v1/jobs/status", "")
	status := decode(t, w)
	assert.Equal(t, true, status["enabled"])
	assert.Equal(t, float64(0), status["failed_jobs"])
}
