// Package jobs tracks scraping runs for the API front end. Runs are queued
// and executed one at a time: each run owns its own cookie session, and the
// pipeline is strictly sequential by design, so there is never more than one
// fetch in flight process-wide.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/maltedev/luluka-scraper/internal/auth"
	"github.com/maltedev/luluka-scraper/internal/config"
	"github.com/maltedev/luluka-scraper/internal/fetch"
	"github.com/maltedev/luluka-scraper/internal/models"
	"github.com/maltedev/luluka-scraper/internal/scraper"
	"github.com/maltedev/luluka-scraper/internal/session"
)

const (
	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// RunRequest configures one pipeline run.
type RunRequest struct {
	UseAuth     bool     `json:"use_auth"`
	Username    string   `json:"username,omitempty"`
	Password    string   `json:"password,omitempty"`
	Categories  []string `json:"categories,omitempty"`
	MaxProducts int      `json:"max_products,omitempty"`
}

// Run is one scraping run and its progress. Results are held in memory for
// the lifetime of the process only; nothing is persisted across restarts.
type Run struct {
	ID              string     `json:"id"`
	Status          string     `json:"status"`
	Stage           string     `json:"stage,omitempty"`
	StageCurrent    int        `json:"stage_current"`
	StageTotal      int        `json:"stage_total"`
	Message         string     `json:"message,omitempty"`
	CategoriesFound int        `json:"categories_found"`
	ProductsFound   int        `json:"products_found"`
	DetailRows      int        `json:"detail_rows"`
	CreatedAt       time.Time  `json:"created_at"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	Error           string     `json:"error,omitempty"`

	request RunRequest
	result  *models.Result
}

type Manager struct {
	cfg    *config.Config
	logger *slog.Logger

	mu    sync.RWMutex
	runs  map[string]*Run
	order []string
	queue chan string
}

func NewManager(cfg *config.Config, logger *slog.Logger) *Manager {
	return &Manager{
		cfg:    cfg,
		logger: logger.With("component", "job_manager"),
		runs:   make(map[string]*Run),
		queue:  make(chan string, 100),
	}
}

// CreateRun registers a run and queues it for the worker.
func (m *Manager) CreateRun(req RunRequest) (*Run, error) {
	run := &Run{
		ID:        uuid.New().String(),
		Status:    StatusPending,
		CreatedAt: time.Now(),
		request:   req,
	}

	m.mu.Lock()
	m.runs[run.ID] = run
	m.order = append(m.order, run.ID)
	m.mu.Unlock()

	select {
	case m.queue <- run.ID:
	default:
		m.mu.Lock()
		run.Status = StatusFailed
		run.Error = "run queue is full"
		m.mu.Unlock()
		return nil, fmt.Errorf("run queue is full")
	}

	m.logger.Info("run created", "id", run.ID)
	return m.snapshot(run.ID), nil
}

// GetRun returns a copy of a run's current state.
func (m *Manager) GetRun(runID string) (*Run, error) {
	if run := m.snapshot(runID); run != nil {
		return run, nil
	}
	return nil, fmt.Errorf("run not found: %s", runID)
}

// ListRuns returns all runs, newest first.
func (m *Manager) ListRuns() []*Run {
	m.mu.RLock()
	defer m.mu.RUnlock()

	runs := make([]*Run, 0, len(m.order))
	for i := len(m.order) - 1; i >= 0; i-- {
		copied := *m.runs[m.order[i]]
		runs = append(runs, &copied)
	}
	return runs
}

// Result returns the record sets of a completed run.
func (m *Manager) Result(runID string) (*models.Result, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	run, ok := m.runs[runID]
	if !ok {
		return nil, fmt.Errorf("run not found: %s", runID)
	}
	if run.result == nil {
		return nil, fmt.Errorf("run %s has no result yet", runID)
	}
	return run.result, nil
}

// StartWorker consumes queued runs until the context is cancelled. Runs
// execute strictly one after another.
func (m *Manager) StartWorker(ctx context.Context) {
	m.logger.Info("worker started")
	for {
		select {
		case <-ctx.Done():
			m.logger.Info("worker stopped")
			return
		case runID := <-m.queue:
			m.execute(ctx, runID)
		}
	}
}

func (m *Manager) execute(ctx context.Context, runID string) {
	m.mu.Lock()
	run, ok := m.runs[runID]
	if !ok {
		m.mu.Unlock()
		return
	}
	now := time.Now()
	run.Status = StatusRunning
	run.StartedAt = &now
	req := run.request
	m.mu.Unlock()

	m.logger.Info("run started", "id", runID)

	result, err := m.runPipeline(ctx, runID, req)

	m.mu.Lock()
	defer m.mu.Unlock()
	done := time.Now()
	run.CompletedAt = &done
	if err != nil {
		run.Status = StatusFailed
		run.Error = err.Error()
		m.logger.Error("run failed", "id", runID, "error", err)
		return
	}
	run.Status = StatusCompleted
	run.result = result
	run.CategoriesFound = len(result.Categories)
	run.ProductsFound = len(result.Products)
	run.DetailRows = len(result.Details)
	m.logger.Info("run completed", "id", runID,
		"categories", run.CategoriesFound,
		"products", run.ProductsFound,
		"rows", run.DetailRows)
}

func (m *Manager) runPipeline(ctx context.Context, runID string, req RunRequest) (*models.Result, error) {
	sess, err := session.New(session.Options{
		UserAgent:      m.cfg.Site.UserAgent,
		AcceptLanguage: m.cfg.Site.AcceptLanguage,
		Timeout:        m.cfg.Scraper.HTTPTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	if req.UseAuth {
		authenticator := auth.New(sess, m.cfg.Site.BaseURL, m.cfg.Site.LoginPath, m.logger)
		if !authenticator.Login(ctx, req.Username, req.Password) {
			return nil, fmt.Errorf("authentication failed")
		}
	}

	fetcher := fetch.New(sess, m.logger)
	service := scraper.NewService(fetcher, scraper.Options{
		BaseURL: m.cfg.Site.BaseURL,
		Delay:   m.cfg.Scraper.Delay,
		OnProgress: func(stage string, current, total int, message string) {
			m.updateProgress(runID, stage, current, total, message)
		},
	}, m.logger)

	categories := service.ExtractCategories(ctx)
	products := service.ExtractProductList(ctx, categories, req.Categories)
	details := service.ExtractProductDetails(ctx, products, req.MaxProducts)

	return &models.Result{
		Categories: categories,
		Products:   products,
		Details:    details,
	}, nil
}

func (m *Manager) updateProgress(runID, stage string, current, total int, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if run, ok := m.runs[runID]; ok {
		run.Stage = stage
		run.StageCurrent = current
		run.StageTotal = total
		run.Message = message
	}
}

func (m *Manager) snapshot(runID string) *Run {
	m.mu.RLock()
	defer m.mu.RUnlock()
	run, ok := m.runs[runID]
	if !ok {
		return nil
	}
	copied := *run
	return &copied
}
