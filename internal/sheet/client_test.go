package sheet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remindly/remindly-server/internal/model"
)

func TestReadNormalizesLegacyRecurrence(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "read", r.URL.Query().Get("action"))
		assert.Equal(t, "somchai", r.URL.Query().Get("username"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[{"id":"a","title":"ผ่อนรถ","recurrence":"monthly_3"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zerolog.Nop())
	items, err := c.Read(context.Background(), "somchai")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "monthly-3", items[0].Recurrence)
	assert.Equal(t, "somchai", items[0].Owner)
}

func TestReadRetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zerolog.Nop(), WithRetry(3, time.Millisecond))
	items, err := c.Read(context.Background(), "somchai")
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Equal(t, int32(3), calls.Load())
}

func TestSaveSendsActionEnvelope(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zerolog.Nop())
	err := c.Save(context.Background(), "somchai", []model.ReminderItem{{ID: "a", Title: "จ่ายค่าน้ำ"}})
	require.NoError(t, err)
	assert.Equal(t, "save", got["action"])
	assert.Equal(t, "somchai", got["username"])
	require.Len(t, got["items"], 1)
}

func TestSaveRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false,"error":"quota exceeded"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zerolog.Nop())
	err := c.Save(context.Background(), "somchai", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")
}

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "login", body["action"])
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"username":"somchai","apiKey":"sk-test"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, zerolog.Nop())
	res, err := c.Login(context.Background(), "somchai", "s3cret")
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.NotNil(t, res.APIKey)
	assert.Equal(t, "sk-test", *res.APIKey)
}
