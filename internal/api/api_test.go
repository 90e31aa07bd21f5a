package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmhodges/clock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remindly/remindly-server/internal/auth"
	"github.com/remindly/remindly-server/internal/model"
	"github.com/remindly/remindly-server/internal/services"
	"github.com/remindly/remindly-server/internal/store/sqlite"
)

type testEnv struct {
	srv   *httptest.Server
	token string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st, err := sqlite.New(context.Background(), filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)

	fc := clock.NewFake()
	fc.Set(time.Date(2024, 5, 10, 9, 0, 0, 0, time.Local))
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	log := zerolog.Nop()

	authSvc := services.NewAuthService(st, issuer, nil, nil, log)
	deps := Deps{
		Auth:      authSvc,
		Items:     services.NewItemService(st, nil, fc),
		Insights:  services.NewInsightService(st, fc),
		Assistant: services.NewAssistantService(st, nil, fc, 0.7, log),
		Issuer:    issuer,
	}
	srv := httptest.NewServer(NewRouter(deps))
	t.Cleanup(srv.Close)

	env := &testEnv{srv: srv}
	env.do(t, http.MethodPost, "/api/auth/register", map[string]string{
		"username": "somchai", "password": "s3cret",
	}, http.StatusCreated, nil)

	var login struct {
		Token string `json:"token"`
	}
	env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "somchai", "password": "s3cret",
	}, http.StatusOK, &login)
	require.NotEmpty(t, login.Token)
	env.token = login.Token
	return env
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}, wantStatus int, out interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if e.token != "" {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, wantStatus, resp.StatusCode, "%s %s", method, path)
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	env.token = ""
	env.do(t, http.MethodPost, "/api/auth/login", map[string]string{
		"username": "somchai", "password": "wrong",
	}, http.StatusUnauthorized, nil)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)
	env.token = ""
	env.do(t, http.MethodGet, "/api/items", nil, http.StatusUnauthorized, nil)
}

func TestItemLifecycle(t *testing.T) {
	env := newTestEnv(t)

	var created model.ReminderItem
	env.do(t, http.MethodPost, "/api/items", map[string]interface{}{
		"title":      "ผ่อนรถ",
		"category":   "การเงิน",
		"recurrence": "monthly",
		"dueDate":    "2024-05-10",
		"fields": []map[string]interface{}{
			{"label": "ค่างวด", "type": "number", "value": 9500},
			{"label": "ยอดหนี้คงเหลือ", "type": "number", "value": 450000},
		},
	}, http.StatusCreated, &created)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, model.PriorityLow, created.Priority)

	// Complete: births a successor with the balance rolled forward.
	var completed struct {
		Item      model.ReminderItem  `json:"item"`
		Successor *model.ReminderItem `json:"successor"`
	}
	env.do(t, http.MethodPost, "/api/items/"+created.ID+"/complete", nil, http.StatusOK, &completed)
	assert.True(t, completed.Item.IsCompleted)
	require.NotNil(t, completed.Successor)
	assert.Equal(t, "2024-06-10", completed.Successor.DueDate.String())

	var list struct {
		Items []model.ReminderItem `json:"items"`
	}
	env.do(t, http.MethodGet, "/api/items", nil, http.StatusOK, &list)
	require.Len(t, list.Items, 2)
	assert.Equal(t, completed.Successor.ID, list.Items[0].ID)

	// Update the successor's title.
	successor := *completed.Successor
	successor.Title = "ผ่อนรถ (งวดใหม่)"
	var updated model.ReminderItem
	env.do(t, http.MethodPut, "/api/items/"+successor.ID, successor, http.StatusOK, &updated)
	assert.Equal(t, "ผ่อนรถ (งวดใหม่)", updated.Title)

	env.do(t, http.MethodDelete, "/api/items/"+successor.ID, nil, http.StatusNoContent, nil)
	env.do(t, http.MethodDelete, "/api/items/"+successor.ID, nil, http.StatusNotFound, nil)
}

func TestItemValidation(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/items", map[string]interface{}{
		"title": "x", "recurrence": "biweekly",
	}, http.StatusBadRequest, nil)
	env.do(t, http.MethodPost, "/api/items", map[string]interface{}{
		"priority": "high",
	}, http.StatusBadRequest, nil)
}

func TestBucketsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodPost, "/api/items", map[string]interface{}{
		"title": "เมื่อวาน", "dueDate": "2024-05-09",
	}, http.StatusCreated, nil)
	env.do(t, http.MethodPost, "/api/items", map[string]interface{}{
		"title": "วันนี้", "dueDate": "2024-05-10",
	}, http.StatusCreated, nil)

	var buckets struct {
		Overdue []model.ReminderItem `json:"overdue"`
		Today   []model.ReminderItem `json:"today"`
	}
	env.do(t, http.MethodGet, "/api/items/buckets", nil, http.StatusOK, &buckets)
	require.Len(t, buckets.Overdue, 1)
	require.Len(t, buckets.Today, 1)
	assert.Equal(t, "เมื่อวาน", buckets.Overdue[0].Title)
}

func TestLoanEndpoint(t *testing.T) {
	env := newTestEnv(t)

	var plain model.ReminderItem
	env.do(t, http.MethodPost, "/api/items", map[string]interface{}{"title": "ธรรมดา"}, http.StatusCreated, &plain)
	env.do(t, http.MethodGet, "/api/items/"+plain.ID+"/loan", nil, http.StatusNotFound, nil)

	var loan model.ReminderItem
	env.do(t, http.MethodPost, "/api/items", map[string]interface{}{
		"title": "ผ่อนบ้าน",
		"fields": []map[string]interface{}{
			{"label": "ยอดหนี้คงเหลือ", "type": "number", "value": 2500000},
			{"label": "ดอกเบี้ย", "type": "number", "value": 3.25},
			{"label": "ค่างวด", "type": "number", "value": 14500},
		},
	}, http.StatusCreated, &loan)

	var insight struct {
		MonthlyInterest  float64 `json:"monthlyInterest"`
		MonthlyPrincipal float64 `json:"monthlyPrincipal"`
	}
	env.do(t, http.MethodGet, "/api/items/"+loan.ID+"/loan", nil, http.StatusOK, &insight)
	assert.InDelta(t, 6770.83, insight.MonthlyInterest, 0.01)
	assert.InDelta(t, 7729.17, insight.MonthlyPrincipal, 0.01)
}

func TestPrefsRoundTrip(t *testing.T) {
	env := newTestEnv(t)

	var prefs model.Preferences
	env.do(t, http.MethodGet, "/api/prefs", nil, http.StatusOK, &prefs)
	assert.Equal(t, "light", prefs.Theme)

	env.do(t, http.MethodPut, "/api/prefs", map[string]interface{}{
		"theme": "dark", "locale": "en", "fontScale": 112,
	}, http.StatusOK, &prefs)
	assert.Equal(t, "dark", prefs.Theme)

	env.do(t, http.MethodGet, "/api/prefs", nil, http.StatusOK, &prefs)
	assert.Equal(t, 112, prefs.FontScale)
}

func TestSyncEndpointsWithoutWorker(t *testing.T) {
	env := newTestEnv(t)

	var status struct {
		State string `json:"state"`
	}
	env.do(t, http.MethodGet, "/api/sync/status", nil, http.StatusOK, &status)
	assert.Equal(t, "idle", status.State)

	env.do(t, http.MethodPost, "/api/sync/flush", nil, http.StatusServiceUnavailable, nil)
}

func TestAssistantFallsBackWithoutProvider(t *testing.T) {
	env := newTestEnv(t)

	var chat struct {
		Reply string `json:"reply"`
	}
	env.do(t, http.MethodPost, "/api/assistant/chat", map[string]interface{}{
		"query": "มีอะไรค้างบ้าง",
	}, http.StatusOK, &chat)
	assert.Contains(t, chat.Reply, "ขออภัย")
}

func TestHealthEndpointIsPublic(t *testing.T) {
	env := newTestEnv(t)
	resp, err := http.Get(fmt.Sprintf("%s/api/health", env.srv.URL))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
