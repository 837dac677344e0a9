package api

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolapsis/crier/internal/activity"
	"github.com/kolapsis/crier/internal/hub"
	"github.com/kolapsis/crier/internal/service"
	"github.com/kolapsis/crier/internal/store"
)

func newTestRouter(t *testing.T) (chi.Router, *service.Service) {
	t.Helper()
	r, svc, _ := newTestRouterHub(t)
	return r, svc
}

func newTestRouterHub(t *testing.T) (chi.Router, *service.Service, *hub.Hub) {
	t.Helper()
	st, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	h := hub.New(0)
	svc := service.New(st, h)

	r := chi.NewRouter()
	NewHandler(svc).Register(r)
	return r, svc, h
}

func postJSON(t *testing.T, r chi.Router, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func getRec(t *testing.T, r chi.Router, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func validBody(expires *time.Time) map[string]interface{} {
	body := map[string]interface{}{
		"title":    "Sched 1",
		"message":  "Maintenance window tonight",
		"category": "Maintenance",
	}
	if expires != nil {
		body["expires_at"] = expires.Format(time.RFC3339)
	}
	return body
}

func TestCreateActivity_Success(t *testing.T) {
	t.Parallel()
	r, _ := newTestRouter(t)

	exp := time.Now().Add(time.Hour)
	rec := postJSON(t, r, "/api/activities", validBody(&exp))
	require.Equal(t, http.StatusCreated, rec.Code)

	var a activity.Activity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &a))
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, "Sched 1", a.Title)
	assert.True(t, a.Active)

	// Immediately visible through the listing.
	list := getRec(t, r, "/api/activities")
	require.Equal(t, http.StatusOK, list.Code)

	var listed []activity.Activity
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, a.ID, listed[0].ID)
}

func TestCreateActivity_ValidationErrors(t *testing.T) {
	t.Parallel()
	r, _ := newTestRouter(t)

	rec := postJSON(t, r, "/api/activities", map[string]interface{}{
		"title":    "ab",
		"message":  "too short",
		"category": "Outage",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Error  string                `json:"error"`
		Fields []activity.FieldError `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "validation_error", resp.Error)
	assert.Len(t, resp.Fields, 3)
}

func TestCreateActivity_PastExpiryRejectedAtBoundary(t *testing.T) {
	t.Parallel()
	r, _ := newTestRouter(t)

	past := time.Now().Add(-time.Hour)
	rec := postJSON(t, r, "/api/activities", validBody(&past))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateActivity_MalformedBody(t *testing.T) {
	t.Parallel()
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/activities", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListActivities_Filters(t *testing.T) {
	t.Parallel()
	r, svc := newTestRouter(t)

	_, err := svc.Create(activity.CreateInput{
		Title:    "Sched 1",
		Message:  "Maintenance window tonight",
		Category: activity.CategoryMaintenance,
	})
	require.NoError(t, err)
	feat, err := svc.Create(activity.CreateInput{
		Title:    "New dashboards",
		Message:  "Dashboards shipped today",
		Category: activity.CategoryFeature,
	})
	require.NoError(t, err)

	rec := getRec(t, r, "/api/activities?category=Feature")
	require.Equal(t, http.StatusOK, rec.Code)

	var listed []activity.Activity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, feat.ID, listed[0].ID)

	assert.Equal(t, http.StatusBadRequest, getRec(t, r, "/api/activities?category=Bogus").Code)
	assert.Equal(t, http.StatusBadRequest, getRec(t, r, "/api/activities?limit=zero").Code)
}

func TestListActivities_EmptyIsJSONArray(t *testing.T) {
	t.Parallel()
	r, _ := newTestRouter(t)

	rec := getRec(t, r, "/api/activities")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestGetActivity(t *testing.T) {
	t.Parallel()
	r, svc := newTestRouter(t)

	created, err := svc.Create(activity.CreateInput{
		Title:    "Sched 1",
		Message:  "Maintenance window tonight",
		Category: activity.CategoryMaintenance,
	})
	require.NoError(t, err)

	rec := getRec(t, r, "/api/activities/"+created.ID)
	require.Equal(t, http.StatusOK, rec.Code)

	var got activity.Activity
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, created.ID, got.ID)

	assert.Equal(t, http.StatusNotFound, getRec(t, r, "/api/activities/missing").Code)
}

// --- SSE stream ---

// openStream connects to the SSE endpoint and returns once the
// subscription is registered server-side.
func openStream(t *testing.T, baseURL string) (*http.Response, *bufio.Reader) {
	t.Helper()
	resp, err := http.Get(baseURL + "/api/activities/stream")
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))
	return resp, bufio.NewReader(resp.Body)
}

// readActivityEvent reads frames until it finds an activity event's
// data line and decodes it.
func readActivityEvent(t *testing.T, br *bufio.Reader) activity.Activity {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		line, err := br.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "data: ") {
			var a activity.Activity
			require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(strings.TrimSpace(line), "data: ")), &a))
			return a
		}
	}
	t.Fatal("no activity event received")
	return activity.Activity{}
}

func TestStream_TwoSubscribersReceiveSamePush(t *testing.T) {
	t.Parallel()
	r, svc := newTestRouter(t)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	_, brA := openStream(t, srv.URL)
	_, brB := openStream(t, srv.URL)

	created, err := svc.Create(activity.CreateInput{
		Title:    "Sched 1",
		Message:  "Maintenance window tonight",
		Category: activity.CategoryMaintenance,
	})
	require.NoError(t, err)

	gotA := readActivityEvent(t, brA)
	gotB := readActivityEvent(t, brB)
	assert.Equal(t, created.ID, gotA.ID)
	assert.Equal(t, created.ID, gotB.ID)
}

func TestStream_DeliveryInCreationOrder(t *testing.T) {
	t.Parallel()
	r, svc := newTestRouter(t)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	_, br := openStream(t, srv.URL)

	var ids []string
	for i := 0; i < 3; i++ {
		a, err := svc.Create(activity.CreateInput{
			Title:    fmt.Sprintf("Notice %d", i),
			Message:  "Something happened just now",
			Category: activity.CategoryUpdate,
		})
		require.NoError(t, err)
		ids = append(ids, a.ID)
	}

	for i := 0; i < 3; i++ {
		assert.Equal(t, ids[i], readActivityEvent(t, br).ID)
	}
}

func TestStream_DisconnectThenCreateSucceeds(t *testing.T) {
	t.Parallel()
	r, svc, h := newTestRouterHub(t)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	resp, _ := openStream(t, srv.URL)
	require.Equal(t, 1, h.Subscribers())
	_ = resp.Body.Close()

	// The handler notices the disconnect via the request context and
	// deregisters; only then is no delivery attempted at all.
	require.Eventually(t, func() bool {
		return h.Subscribers() == 0
	}, 2*time.Second, 10*time.Millisecond)

	rec := postJSON(t, r, "/api/activities", validBody(nil))
	assert.Equal(t, http.StatusCreated, rec.Code)

	listed, err := svc.List(service.Filter{})
	require.NoError(t, err)
	assert.NotEmpty(t, listed)
}
