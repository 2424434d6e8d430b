package handlers

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"sync"
	"time"

	"github.com/haoyuan-z/trigate/internal/contracts"
	"github.com/haoyuan-z/trigate/internal/pipeline"
	"github.com/haoyuan-z/trigate/pkg/logger"
)

// Broadcaster pushes progress events to connected clients
type Broadcaster interface {
	Broadcast(v interface{})
}

// ScanHandler triggers pipeline runs over HTTP.
// SSOT: scan trigger endpoints live only in this struct.
type ScanHandler struct {
	runner    *pipeline.Runner
	repo      contracts.SignalRepository
	broadcast Broadcaster
	exportDir string
	logger    *logger.Logger

	mu       sync.Mutex
	running  bool
	lastScan *ScanStatus
}

// ScanStatus summarizes the most recent scan
type ScanStatus struct {
	Running     bool      `json:"running"`
	StartedAt   time.Time `json:"started_at,omitempty"`
	FinishedAt  time.Time `json:"finished_at,omitempty"`
	Signals     int       `json:"signals"`
	Prefiltered int       `json:"prefiltered"`
	Errors      int       `json:"errors"`
	Error       string    `json:"error,omitempty"`
}

// NewScanHandler creates a new scan handler. The repository and
// broadcaster may be nil.
func NewScanHandler(runner *pipeline.Runner, repo contracts.SignalRepository, b Broadcaster, exportDir string, log *logger.Logger) *ScanHandler {
	return &ScanHandler{
		runner:    runner,
		repo:      repo,
		broadcast: b,
		exportDir: exportDir,
		logger:    log,
	}
}

// TriggerScan starts an asynchronous scan. At most one scan runs at a
// time; a second trigger while one is in flight returns 409.
// POST /api/scan
func (h *ScanHandler) TriggerScan(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	if h.running {
		h.mu.Unlock()
		respondError(w, http.StatusConflict, "A scan is already running")
		return
	}
	h.running = true
	started := time.Now()
	h.lastScan = &ScanStatus{Running: true, StartedAt: started}
	h.mu.Unlock()

	go h.runScan()

	respondJSON(w, http.StatusAccepted, map[string]string{
		"status":  "started",
		"message": "Scan started, follow progress on /ws",
	})
}

// GetStatus returns the state of the current or last scan
// GET /api/scan/status
func (h *ScanHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	status := h.lastScan
	h.mu.Unlock()

	if status == nil {
		respondJSON(w, http.StatusOK, &ScanStatus{})
		return
	}

	respondJSON(w, http.StatusOK, status)
}

func (h *ScanHandler) runScan() {
	ctx := context.Background()

	var progress pipeline.ProgressFunc
	if h.broadcast != nil {
		progress = func(ev pipeline.ProgressEvent) {
			h.broadcast.Broadcast(ev)
		}
	}

	result, err := h.runner.Run(ctx, progress)
	if err == nil {
		err = h.persist(ctx, result)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.running = false
	h.lastScan.Running = false
	h.lastScan.FinishedAt = time.Now()

	if err != nil {
		h.logger.WithError(err).Error("Triggered scan failed")
		h.lastScan.Error = err.Error()
		return
	}

	h.lastScan.Signals = len(result.Signals)
	h.lastScan.Prefiltered = result.Prefiltered
	h.lastScan.Errors = result.Errors
}

func (h *ScanHandler) persist(ctx context.Context, result *pipeline.Result) error {
	if h.repo != nil {
		if err := h.repo.SaveSignals(ctx, result.Date, result.Signals); err != nil {
			return fmt.Errorf("failed to persist signals: %w", err)
		}
	}

	if h.exportDir != "" {
		path := filepath.Join(h.exportDir, fmt.Sprintf("signals_%s.csv", result.Date.Format("2006-01-02")))
		if err := pipeline.ExportCSV(path, result.Signals); err != nil {
			return fmt.Errorf("failed to export signals: %w", err)
		}
	}

	return nil
}
