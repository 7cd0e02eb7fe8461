package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/qsim/internal/database"
	"github.com/aristath/qsim/internal/events"
	"github.com/aristath/qsim/internal/modules/register"
	"github.com/aristath/qsim/internal/modules/snapshots"
	"github.com/aristath/qsim/pkg/algebra"
)

type stubSource struct {
	reg   *register.Register
	runID string
	ok    bool
}

func (s *stubSource) CurrentState() (*register.Register, string, bool) {
	return s.reg, s.runID, s.ok
}

func setupTestHandler(t *testing.T, source snapshots.StateSource) *Handler {
	t.Helper()
	log := zerolog.New(nil).Level(zerolog.Disabled)

	dir := t.TempDir()
	db, err := database.New(database.Config{
		Path:    filepath.Join(dir, "runs.db"),
		Profile: database.ProfileRuns,
		Name:    "runs",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate())

	repo := snapshots.NewSnapshotRepository(db.Conn(), log)
	svc := snapshots.NewService(repo, nil, events.NewBus(log), filepath.Join(dir, "state"),
		algebra.PrecisionDouble, log)
	return NewHandler(svc, source, log)
}

func activeSource(t *testing.T) *stubSource {
	t.Helper()
	reg, err := register.New(2, 1, 0)
	require.NoError(t, err)
	reg.Real[0] = 1
	return &stubSource{reg: reg, runID: "run-1", ok: true}
}

func TestHandleTakeSnapshot(t *testing.T) {
	handler := setupTestHandler(t, activeSource(t))

	req := httptest.NewRequest("POST", "/api/snapshots", nil)
	w := httptest.NewRecorder()
	handler.HandleTakeSnapshot(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "msgpack", data["format"])
	assert.Equal(t, "run-1", data["run_id"])
}

func TestHandleWriteCSV(t *testing.T) {
	handler := setupTestHandler(t, activeSource(t))

	req := httptest.NewRequest("POST", "/api/snapshots/csv", nil)
	w := httptest.NewRecorder()
	handler.HandleWriteCSV(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, "csv", data["format"])
}

func TestHandleSnapshotWithoutSimulation(t *testing.T) {
	handler := setupTestHandler(t, &stubSource{})

	req := httptest.NewRequest("POST", "/api/snapshots", nil)
	w := httptest.NewRecorder()
	handler.HandleTakeSnapshot(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandleRemoteWithoutStore(t *testing.T) {
	handler := setupTestHandler(t, activeSource(t))
	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/snapshots/remote", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("DELETE", "/snapshots/remote?key=snapshots%2Fx.mp", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHandleDeleteRemoteNeedsKey(t *testing.T) {
	handler := setupTestHandler(t, activeSource(t))

	req := httptest.NewRequest("DELETE", "/api/snapshots/remote", nil)
	w := httptest.NewRecorder()
	handler.HandleDeleteRemote(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleListByRun(t *testing.T) {
	source := activeSource(t)
	handler := setupTestHandler(t, source)

	// Take two snapshots for run-1 through the handler
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		handler.HandleTakeSnapshot(w, httptest.NewRequest("POST", "/api/snapshots", nil))
		require.Equal(t, http.StatusCreated, w.Code)
	}

	router := chi.NewRouter()
	handler.RegisterRoutes(router)

	req := httptest.NewRequest("GET", "/snapshots/run/run-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["count"])
}
