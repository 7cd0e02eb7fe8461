package handlers

import (
	"bytes"
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
	"github.com/aristath/qsim/internal/modules/rng"
	"github.com/aristath/qsim/internal/modules/runs"
)

func setupTestRouter(t *testing.T) (chi.Router, *rng.Source) {
	t.Helper()
	log := zerolog.New(nil).Level(zerolog.Disabled)

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), "runs.db"),
		Profile: database.ProfileRuns,
		Name:    "runs",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.Migrate())

	repo := runs.NewRunRepository(db.Conn(), log)
	service := runs.NewService(repo, events.NewBus(log), log)

	src := rng.NewSource()
	handler := NewHandler(service, rng.NewSeeder(src, log), log)

	router := chi.NewRouter()
	handler.RegisterRoutes(router)
	return router, src
}

func createRun(t *testing.T, router chi.Router, body map[string]interface{}) *httptest.ResponseRecorder {
	t.Helper()
	bodyBytes, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/runs/", bytes.NewReader(bodyBytes))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleCreateAndGet(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := createRun(t, router, map[string]interface{}{
		"label":      "test",
		"num_qubits": 3,
		"seed_keys":  []uint64{1, 2, 3},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	data := response["data"].(map[string]interface{})
	id := data["id"].(string)
	require.NotEmpty(t, id)
	assert.Equal(t, "created", data["status"])
	assert.Equal(t, "double", data["precision"])

	req := httptest.NewRequest("GET", "/runs/"+id, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleCreateRejectsBadGeometry(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := createRun(t, router, map[string]interface{}{
		"num_qubits": 0,
		"seed_keys":  []uint64{1},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	errBody := response["error"].(map[string]interface{})
	assert.Equal(t, "Invalid number of qubits.", errBody["message"])
}

func TestHandleGetUnknownRun(t *testing.T) {
	router, _ := setupTestRouter(t)

	req := httptest.NewRequest("GET", "/runs/nope", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandleList(t *testing.T) {
	router, _ := setupTestRouter(t)

	for i := 0; i < 2; i++ {
		w := createRun(t, router, map[string]interface{}{
			"num_qubits": 2,
			"seed_keys":  []uint64{uint64(i + 1)},
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	req := httptest.NewRequest("GET", "/runs/", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	data := response["data"].(map[string]interface{})
	assert.Equal(t, float64(2), data["count"])
}

func TestHandleReproduce(t *testing.T) {
	router, src := setupTestRouter(t)

	w := createRun(t, router, map[string]interface{}{
		"num_qubits": 2,
		"seed_keys":  []uint64{42, 7},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	id := response["data"].(map[string]interface{})["id"].(string)

	req := httptest.NewRequest("POST", "/runs/"+id+"/reproduce", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// The handler's generator now matches one seeded directly
	log := zerolog.New(nil).Level(zerolog.Disabled)
	direct := rng.NewSource()
	require.NoError(t, rng.NewSeeder(direct, log).SeedExplicit([]uint64{42, 7}))
	for i := 0; i < 8; i++ {
		assert.Equal(t, direct.Uint64(), src.Uint64())
	}
}
