package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cmlabs-hris/workforce-guard/internal/config"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/role"
	"github.com/cmlabs-hris/workforce-guard/internal/domain/user"
	"github.com/cmlabs-hris/workforce-guard/internal/fixtures"
	"github.com/cmlabs-hris/workforce-guard/internal/handler/http/response"
	"github.com/cmlabs-hris/workforce-guard/internal/pkg/cache"
	"github.com/cmlabs-hris/workforce-guard/internal/pkg/clock"
	"github.com/cmlabs-hris/workforce-guard/internal/pkg/jwt"
	"github.com/cmlabs-hris/workforce-guard/internal/pkg/metrics"
	"github.com/cmlabs-hris/workforce-guard/internal/repository/memory"
	attendancesvc "github.com/cmlabs-hris/workforce-guard/internal/service/attendance"
	expensesvc "github.com/cmlabs-hris/workforce-guard/internal/service/expense"
	"github.com/cmlabs-hris/workforce-guard/internal/service/guard"
	permissionsvc "github.com/cmlabs-hris/workforce-guard/internal/service/permission"
	rolesvc "github.com/cmlabs-hris/workforce-guard/internal/service/role"
	settingsvc "github.com/cmlabs-hris/workforce-guard/internal/service/setting"
	shiftsvc "github.com/cmlabs-hris/workforce-guard/internal/service/shift"
	usersvc "github.com/cmlabs-hris/workforce-guard/internal/service/user"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	handler http.Handler
	jwt     jwt.Service
	system  map[string]role.Role
	admin   user.User
	staff   user.User
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	clk := &clock.Fixed{T: time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)}

	store := memory.NewStore()
	roleRepo := memory.NewRoleRepository(store)
	userRepo := memory.NewUserRepository(store)
	shiftRepo := memory.NewShiftRepository(store)
	lockRepo := memory.NewRegistrationLockRepository(store)
	attendanceRepo := memory.NewAttendanceRepository(store)
	correctionRepo := memory.NewCorrectionRepository(store)
	expenseRepo := memory.NewExpenseRepository(store)
	settingRepo := memory.NewSettingRepository(store)

	ts := &testServer{
		jwt:    jwt.NewJWTService("test-secret", "15m"),
		system: make(map[string]role.Role),
	}

	seeded, err := fixtures.SeedSystemRoles(ctx, roleRepo)
	require.NoError(t, err)
	for _, r := range seeded {
		ts.system[r.Name] = r
	}
	ts.admin, err = userRepo.Create(ctx, user.User{Name: "admin", RoleID: ts.system[role.NameSuperAdmin].ID})
	require.NoError(t, err)
	ts.staff, err = userRepo.Create(ctx, user.User{Name: "staff", RoleID: ts.system[role.NameStaff].ID})
	require.NoError(t, err)

	registry := prometheus.NewRegistry()
	recorder := metrics.New(registry)

	evaluator := permissionsvc.NewEvaluator(userRepo, roleRepo,
		cache.NewMemory[user.User](time.Minute, nil), cache.NewMemory[role.Role](time.Minute, nil), recorder)
	settingService := settingsvc.NewSettingService(settingRepo, evaluator, 3)
	lockService := guard.NewRegistrationGuard(lockRepo, settingService, evaluator, time.Hour)

	roleService := rolesvc.NewRoleService(roleRepo, userRepo, evaluator)
	userService := usersvc.NewUserService(userRepo, roleRepo, shiftRepo, lockRepo,
		attendanceRepo, correctionRepo, expenseRepo, store, evaluator)
	shiftService := shiftsvc.NewShiftService(shiftRepo, userRepo, lockService, evaluator, store, clk, recorder)
	attendanceService := attendancesvc.NewAttendanceService(attendanceRepo, correctionRepo, userRepo,
		evaluator, store, recorder, 5*time.Minute)
	expenseService := expensesvc.NewExpenseService(expenseRepo, userRepo, evaluator, recorder, 3)

	ts.handler = NewRouter(
		config.AppConfig{Env: "test", CORSOrigin: "http://localhost:3000"},
		ts.jwt,
		metrics.Handler(registry),
		NewRoleHandler(roleService),
		NewUserHandler(userService),
		NewShiftHandler(shiftService, lockService, clk),
		NewAttendanceHandler(attendanceService, clk),
		NewExpenseHandler(expenseService, clk),
		NewSettingHandler(settingService),
	)
	return ts
}

func (ts *testServer) token(t *testing.T, userID string) string {
	t.Helper()
	token, _, err := ts.jwt.GenerateAccessToken(userID)
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, response.Response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	var resp response.Response
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestRouter_RequiresToken(t *testing.T) {
	ts := newTestServer(t)

	rec, resp := ts.do(t, http.MethodGet, "/api/v1/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, resp.Success)
}

func TestRouter_RevokedTokenRejected(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, ts.staff.ID)

	rec, _ := ts.do(t, http.MethodGet, "/api/v1/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	ts.jwt.RevokeToken(token)
	rec, resp := ts.do(t, http.MethodGet, "/api/v1/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
}

func TestRouter_PageAccess(t *testing.T) {
	ts := newTestServer(t)

	rec, resp := ts.do(t, http.MethodGet, "/api/v1/me/page-access", ts.token(t, ts.staff.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	pages, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, pages[string(role.PageShifts)])
	assert.NotEqual(t, true, pages[string(role.PageRoles)])
}

func TestRouter_DeleteSystemRoleForbidden(t *testing.T) {
	ts := newTestServer(t)

	rec, resp := ts.do(t, http.MethodDelete, "/api/v1/roles/"+ts.system[role.NameManager].ID, ts.token(t, ts.admin.ID), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)
}

func TestRouter_DeleteRoleInUseConflict(t *testing.T) {
	ts := newTestServer(t)
	adminToken := ts.token(t, ts.admin.ID)

	rec, resp := ts.do(t, http.MethodPost, "/api/v1/roles", adminToken, role.UpsertRoleRequest{
		Name:        "SHIFT_LEAD",
		DisplayName: "Shift Lead",
		Permissions: role.Permissions{}.Grant(role.CategoryShiftManagement, role.ActionViewAssigned),
		PageAccess:  role.PageAccess{role.PageShifts: true},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := resp.Data.(map[string]interface{})
	roleID := created["id"].(string)

	rec, _ = ts.do(t, http.MethodPut, "/api/v1/users/"+ts.staff.ID+"/role", adminToken, map[string]string{"role_id": roleID})
	require.Equal(t, http.StatusOK, rec.Code)

	rec, resp = ts.do(t, http.MethodDelete, "/api/v1/roles/"+roleID, adminToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", resp.Error.Code)
	assert.Equal(t, "1", resp.Error.Details["user_count"])
}

func TestRouter_ValidationError(t *testing.T) {
	ts := newTestServer(t)

	rec, resp := ts.do(t, http.MethodPost, "/api/v1/shifts", ts.token(t, ts.staff.ID), map[string]string{
		"date":       "2025-06-20",
		"start_time": "18:00",
		"end_time":   "09:00",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Details, "end_time")
}

func TestRouter_ShiftRequestAndApprove(t *testing.T) {
	ts := newTestServer(t)

	rec, resp := ts.do(t, http.MethodPost, "/api/v1/shifts", ts.token(t, ts.staff.ID), map[string]string{
		"date":       "2025-06-20",
		"start_time": "09:00",
		"end_time":   "18:00",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := resp.Data.(map[string]interface{})
	assert.Equal(t, "PENDING", created["status"])
	shiftID := created["id"].(string)

	rec, _ = ts.do(t, http.MethodPost, "/api/v1/shifts/"+shiftID+"/approve", ts.token(t, ts.staff.ID), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, resp = ts.do(t, http.MethodPost, "/api/v1/shifts/"+shiftID+"/approve", ts.token(t, ts.admin.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "APPROVED", resp.Data.(map[string]interface{})["status"])

	rec, resp = ts.do(t, http.MethodPost, "/api/v1/shifts/"+shiftID+"/reject", ts.token(t, ts.admin.ID), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "INVALID_STATE", resp.Error.Code)
}

func TestRouter_ShiftRegistrationLocked(t *testing.T) {
	ts := newTestServer(t)

	rec, resp := ts.do(t, http.MethodPost, "/api/v1/shifts", ts.token(t, ts.staff.ID), map[string]string{
		"date":       "2025-05-20",
		"start_time": "09:00",
		"end_time":   "18:00",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "OUT_OF_WINDOW", resp.Error.Code)
}

func TestRouter_LockStatusDefaultsToActor(t *testing.T) {
	ts := newTestServer(t)

	rec, resp := ts.do(t, http.MethodGet, "/api/v1/shift-locks", ts.token(t, ts.staff.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	status := resp.Data.(map[string]interface{})
	assert.Equal(t, ts.staff.ID, status["user_id"])
	assert.Equal(t, float64(6), status["month"])
	assert.Equal(t, false, status["locked"])
}

func TestRouter_LockStatusOfOtherUserForbidden(t *testing.T) {
	ts := newTestServer(t)

	rec, resp := ts.do(t, http.MethodGet, "/api/v1/shift-locks?user_id="+ts.admin.ID+"&year=2025&month=6", ts.token(t, ts.staff.ID), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", resp.Error.Code)

	rec, resp = ts.do(t, http.MethodGet, "/api/v1/shift-locks?user_id="+ts.staff.ID+"&year=2025&month=6", ts.token(t, ts.admin.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ts.staff.ID, resp.Data.(map[string]interface{})["user_id"])
}

func TestRouter_LockStatusMalformedMonth(t *testing.T) {
	ts := newTestServer(t)

	rec, resp := ts.do(t, http.MethodGet, "/api/v1/shift-locks?month=abc", ts.token(t, ts.staff.ID), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp.Error.Details, "month")

	rec, resp = ts.do(t, http.MethodGet, "/api/v1/shift-locks?year=20x5", ts.token(t, ts.staff.ID), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp.Error.Details, "year")
}

func TestRouter_ExpenseDeadline(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, ts.staff.ID)

	rec, resp := ts.do(t, http.MethodPost, "/api/v1/expenses", token, map[string]interface{}{
		"date":   "2025-04-10",
		"type":   "MEAL",
		"amount": 1200,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "OUT_OF_WINDOW", resp.Error.Code)

	rec, _ = ts.do(t, http.MethodPost, "/api/v1/expenses", token, map[string]interface{}{
		"date":   "2025-05-28",
		"type":   "MEAL",
		"amount": 1200,
	})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec, resp = ts.do(t, http.MethodGet, "/api/v1/expenses", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, resp.Meta.TotalItems)
}

func TestRouter_AttendanceUndo(t *testing.T) {
	ts := newTestServer(t)
	token := ts.token(t, ts.staff.ID)

	rec, resp := ts.do(t, http.MethodPost, "/api/v1/attendance", token, map[string]string{"type": "CLOCK_IN"})
	require.Equal(t, http.StatusCreated, rec.Code)
	id := resp.Data.(map[string]interface{})["id"].(string)

	rec, _ = ts.do(t, http.MethodDelete, "/api/v1/attendance/"+id, token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = ts.do(t, http.MethodGet, "/api/v1/attendance/"+id, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_InvalidQueryDate(t *testing.T) {
	ts := newTestServer(t)

	rec, resp := ts.do(t, http.MethodGet, "/api/v1/shifts?from=06-01-2025", ts.token(t, ts.staff.ID), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, resp.Error.Details, "from")
}

func TestRouter_Metrics(t *testing.T) {
	ts := newTestServer(t)
	ts.do(t, http.MethodGet, "/api/v1/me", ts.token(t, ts.staff.ID), nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
