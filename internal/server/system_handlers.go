// Package server provides the HTTP server and routing for qsim.
package server

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/aristath/qsim/internal/database"
)

// SystemHandlers handles system-wide monitoring endpoints
type SystemHandlers struct {
	log         zerolog.Logger
	dataDir     string
	startupTime time.Time
	runsDB      *database.DB
}

// NewSystemHandlers creates a new system handlers instance
func NewSystemHandlers(log zerolog.Logger, dataDir string, runsDB *database.DB) *SystemHandlers {
	return &SystemHandlers{
		log:         log.With().Str("component", "system_handlers").Logger(),
		dataDir:     dataDir,
		startupTime: time.Now(),
		runsDB:      runsDB,
	}
}

// SystemStatusResponse represents the system status response
type SystemStatusResponse struct {
	Status       string  `json:"status"` // "healthy" or "unhealthy"
	UptimeHours  float64 `json:"uptime_hours"`
	CPUPercent   float64 `json:"cpu_percent"`
	RAMPercent   float64 `json:"ram_percent"`
	TotalRuns    int     `json:"total_runs"`
	FinishedRuns int     `json:"finished_runs"`
	FailedRuns   int     `json:"failed_runs"`
	LastRun      string  `json:"last_run,omitempty"`
}

// DatabaseStatsResponse represents database statistics
type DatabaseStatsResponse struct {
	Name          string  `json:"name"`
	Path          string  `json:"path"`
	SizeMB        float64 `json:"size_mb"`
	WALSizeMB     float64 `json:"wal_size_mb"`
	PageCount     int64   `json:"page_count"`
	PageSize      int64   `json:"page_size"`
	FreelistCount int64   `json:"freelist_count"`
	LastChecked   string  `json:"last_checked"`
}

// DiskUsageResponse represents disk usage statistics
type DiskUsageResponse struct {
	DataDirMB     float64 `json:"data_dir_mb"`
	SnapshotsMB   float64 `json:"snapshots_mb"`
	TotalMB       float64 `json:"total_mb"`
	SnapshotFiles int     `json:"snapshot_files"`
}

// HandleSystemStatus returns comprehensive system status
func (h *SystemHandlers) HandleSystemStatus(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting system status")

	response := SystemStatusResponse{
		Status:      "healthy",
		UptimeHours: time.Since(h.startupTime).Hours(),
	}
	response.CPUPercent, response.RAMPercent = h.getSystemStats()

	var lastRun sql.NullString
	err := h.runsDB.Conn().QueryRow(`
		SELECT COUNT(*),
		       COUNT(CASE WHEN status = 'finished' THEN 1 END),
		       COUNT(CASE WHEN status = 'failed' THEN 1 END),
		       MAX(created_at)
		FROM runs
	`).Scan(&response.TotalRuns, &response.FinishedRuns, &response.FailedRuns, &lastRun)
	if err != nil && err != sql.ErrNoRows {
		h.log.Error().Err(err).Msg("Failed to query runs")
		response.Status = "unhealthy"
	}
	if lastRun.Valid {
		response.LastRun = lastRun.String
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// HandleDatabaseStats returns database statistics
func (h *SystemHandlers) HandleDatabaseStats(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting database stats")

	stats, err := h.runsDB.GetStats()
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to get database stats")
		http.Error(w, "Failed to get database stats", http.StatusInternalServerError)
		return
	}

	response := DatabaseStatsResponse{
		Name:          h.runsDB.Name(),
		Path:          h.runsDB.Path(),
		SizeMB:        float64(stats.SizeBytes) / 1024 / 1024,
		WALSizeMB:     float64(stats.WALSizeBytes) / 1024 / 1024,
		PageCount:     stats.PageCount,
		PageSize:      stats.PageSize,
		FreelistCount: stats.FreelistCount,
		LastChecked:   time.Now().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// HandleDiskUsage returns disk usage statistics for state artifacts
func (h *SystemHandlers) HandleDiskUsage(w http.ResponseWriter, r *http.Request) {
	h.log.Debug().Msg("Getting disk usage")

	dataDirSize, _ := h.getDirSize(h.dataDir)
	snapshotsSize, snapshotFiles := h.getDirSize(h.dataDir, ".mp", ".csv")

	response := DiskUsageResponse{
		DataDirMB:     dataDirSize,
		SnapshotsMB:   snapshotsSize,
		TotalMB:       dataDirSize,
		SnapshotFiles: snapshotFiles,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// getDirSize calculates the total size of a directory in MB, counting
// only files with one of the given extensions when any are provided
func (h *SystemHandlers) getDirSize(dirPath string, extensions ...string) (float64, int) {
	var totalSize int64
	var count int

	err := filepath.Walk(dirPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // Skip errors
		}
		if info.IsDir() {
			return nil
		}
		if len(extensions) > 0 {
			ext := filepath.Ext(path)
			matched := false
			for _, want := range extensions {
				if ext == want {
					matched = true
					break
				}
			}
			if !matched {
				return nil
			}
		}
		totalSize += info.Size()
		count++
		return nil
	})

	if err != nil {
		h.log.Warn().Err(err).Str("dir", dirPath).Msg("Failed to calculate directory size")
		return 0, 0
	}

	return float64(totalSize) / 1024 / 1024, count
}

// getSystemStats calculates CPU and RAM usage percentages.
// Uses a short interval (100ms) so status calls stay responsive.
func (h *SystemHandlers) getSystemStats() (float64, float64) {
	cpuPercent, err := cpu.Percent(100*time.Millisecond, false)
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get CPU percentage")
		cpuPercent = []float64{0}
	}

	memStat, err := mem.VirtualMemory()
	if err != nil {
		h.log.Warn().Err(err).Msg("Failed to get memory statistics")
		return 0, 0
	}

	cpuAvg := 0.0
	if len(cpuPercent) > 0 {
		cpuAvg = cpuPercent[0]
	}

	return cpuAvg, memStat.UsedPercent
}
