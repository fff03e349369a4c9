package exporter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"jobboard/internal/domain"
	"jobboard/internal/service"
	"jobboard/internal/storage"
)

const snapshotFile = "snapshot.json"

// Manager runs report exports in the background.
type Manager interface {
	Start(ctx context.Context) error
	Shutdown()
	Enqueue(ctx context.Context, exportID int64) error
	Resume(ctx context.Context) error
	Cancel(ctx context.Context, exportID int64) error
	Discard(ctx context.Context, exportID int64) error
	PurgeCompany(ctx context.Context, companyID int64) error
}

type Config struct {
	DataDir       string
	MaxConcurrent int
	UploadOptions storage.UploadOptions
	Logger        *logrus.Logger
}

type manager struct {
	cfg     Config
	exports service.ExportService
	reports service.ReportService
	storage storage.Service

	sem    chan struct{}
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
	active map[int64]*exportHandle
}

type exportHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// snapshotDocument is the JSON written for every export.
type snapshotDocument struct {
	ExportID    int64                  `json:"export_id"`
	CompanyID   int64                  `json:"company_id"`
	GeneratedAt time.Time              `json:"generated_at"`
	Snapshot    *domain.ReportSnapshot `json:"snapshot"`
}

// NewManager builds an export manager. A nil store keeps exports on local disk.
func NewManager(cfg Config, exports service.ExportService, reports service.ReportService, store storage.Service) Manager {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 2
	}
	if cfg.DataDir == "" {
		cfg.DataDir = filepath.Join("data", "exports")
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	return &manager{
		cfg:     cfg,
		exports: exports,
		reports: reports,
		storage: store,
		sem:     make(chan struct{}, cfg.MaxConcurrent),
		active:  make(map[int64]*exportHandle),
	}
}

func (m *manager) Start(ctx context.Context) error {
	if err := os.MkdirAll(m.cfg.DataDir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	m.ctx, m.cancel = context.WithCancel(ctx)
	m.cfg.Logger.Infof("export manager started, data dir: %s", m.cfg.DataDir)
	return nil
}

func (m *manager) Shutdown() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
	m.cfg.Logger.Info("export manager stopped")
}

func (m *manager) Enqueue(ctx context.Context, exportID int64) error {
	if m.ctx == nil {
		return errors.New("export manager not started")
	}
	export, err := m.exports.Get(ctx, exportID)
	if err != nil {
		return err
	}
	m.spawn(*export)
	return nil
}

// Resume re-enqueues exports interrupted by a previous shutdown.
func (m *manager) Resume(ctx context.Context) error {
	if m.ctx == nil {
		return errors.New("export manager not started")
	}
	exports, err := m.exports.ListByStatuses(ctx, domain.ExportStatusPending, domain.ExportStatusRunning)
	if err != nil {
		return err
	}
	for i := range exports {
		m.spawn(exports[i])
	}
	if len(exports) > 0 {
		m.cfg.Logger.Infof("resumed %d exports", len(exports))
	}
	return nil
}

func (m *manager) spawn(export domain.ReportExport) {
	m.mu.Lock()
	if _, running := m.active[export.ID]; running {
		m.mu.Unlock()
		return
	}
	exportCtx, cancel := context.WithCancel(m.ctx)
	handle := &exportHandle{cancel: cancel, done: make(chan struct{})}
	m.active[export.ID] = handle
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer func() {
			cancel()
			m.mu.Lock()
			delete(m.active, export.ID)
			m.mu.Unlock()
			close(handle.done)
		}()
		select {
		case <-exportCtx.Done():
			return
		case m.sem <- struct{}{}:
			defer func() { <-m.sem }()
			m.run(exportCtx, &export)
		}
	}()
}

// Cancel stops a queued or running export and waits for its goroutine to exit.
func (m *manager) Cancel(ctx context.Context, exportID int64) error {
	m.mu.Lock()
	handle, ok := m.active[exportID]
	m.mu.Unlock()
	if !ok {
		return nil
	}

	handle.cancel()
	select {
	case <-handle.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *manager) run(ctx context.Context, export *domain.ReportExport) {
	logger := m.cfg.Logger.WithFields(logrus.Fields{
		"export_id":  export.ID,
		"company_id": export.CompanyID,
	})
	if export.Status == domain.ExportStatusCompleted || export.Status == domain.ExportStatusFailed {
		logger.Debug("export already finished, skipping")
		return
	}

	if err := m.exports.MarkRunning(ctx, export.ID); err != nil {
		logger.Errorf("update status failed: %v", err)
		return
	}

	snapshot, err := m.reports.Snapshot(ctx, export.CompanyID)
	if err != nil {
		if ctx.Err() != nil {
			logger.Info("export interrupted, will resume on next start")
			return
		}
		m.fail(ctx, export.ID, fmt.Errorf("build snapshot: %w", err))
		return
	}

	dir := filepath.Join(m.cfg.DataDir, "export-"+uuid.NewString())
	if err := writeSnapshot(dir, snapshotDocument{
		ExportID:    export.ID,
		CompanyID:   export.CompanyID,
		GeneratedAt: time.Now().UTC(),
		Snapshot:    snapshot,
	}); err != nil {
		m.removeDir(dir, logger)
		if ctx.Err() != nil {
			logger.Info("export interrupted, will resume on next start")
			return
		}
		m.fail(ctx, export.ID, err)
		return
	}

	location, err := m.publish(ctx, export, dir)
	if err != nil {
		m.removeDir(dir, logger)
		if ctx.Err() != nil {
			logger.Info("export interrupted, will resume on next start")
			return
		}
		m.fail(ctx, export.ID, err)
		return
	}

	if err := m.exports.MarkCompleted(ctx, export.ID, location); err != nil {
		logger.Errorf("mark completed: %v", err)
		return
	}
	logger.Infof("export completed at %s", location)
}

// publish uploads the export directory, or keeps it locally when no store is configured.
func (m *manager) publish(ctx context.Context, export *domain.ReportExport, dir string) (string, error) {
	if m.storage == nil {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return "", fmt.Errorf("resolve export dir: %w", err)
		}
		return "file://" + filepath.ToSlash(abs), nil
	}

	opts := m.cfg.UploadOptions
	opts.KeyPrefix = m.exportPrefix(export.CompanyID, export.ID)

	location, err := m.storage.UploadDirectory(ctx, dir, opts)
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	m.removeDir(dir, m.cfg.Logger.WithField("export_id", export.ID))
	return location, nil
}

// Discard stops an export and deletes its files and its record.
func (m *manager) Discard(ctx context.Context, exportID int64) error {
	if err := m.Cancel(ctx, exportID); err != nil {
		return err
	}
	// reload after the worker exits; it may have completed in the meantime
	export, err := m.exports.Get(ctx, exportID)
	if err != nil {
		return err
	}
	if err := m.removeArtifacts(ctx, export); err != nil {
		return err
	}
	if err := m.exports.Delete(ctx, exportID); err != nil {
		return err
	}
	m.cfg.Logger.WithFields(logrus.Fields{
		"export_id":  export.ID,
		"company_id": export.CompanyID,
	}).Info("export discarded")
	return nil
}

// PurgeCompany discards every export of a company and sweeps its storage prefix.
func (m *manager) PurgeCompany(ctx context.Context, companyID int64) error {
	exports, err := m.exports.ListForCompany(ctx, companyID)
	if err != nil {
		return err
	}
	for _, export := range exports {
		if err := m.Discard(ctx, export.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("discard export %d: %w", export.ID, err)
		}
	}
	if m.storage == nil {
		return nil
	}
	prefix := path.Join(m.keyRoot(), fmt.Sprintf("company-%d", companyID)) + "/"
	if err := m.storage.DeletePrefix(ctx, m.cfg.UploadOptions.Bucket, prefix); err != nil {
		return fmt.Errorf("purge company %d objects: %w", companyID, err)
	}
	return nil
}

func (m *manager) removeArtifacts(ctx context.Context, export *domain.ReportExport) error {
	if local, ok := strings.CutPrefix(export.Location, "file://"); ok {
		dir := filepath.FromSlash(local)
		if !m.insideDataDir(dir) {
			return fmt.Errorf("export %d location %q is outside the export dir", export.ID, export.Location)
		}
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("remove export dir: %w", err)
		}
	}
	if m.storage == nil {
		return nil
	}
	// trailing slash keeps export-1 from matching export-10
	prefix := m.exportPrefix(export.CompanyID, export.ID) + "/"
	if err := m.storage.DeletePrefix(ctx, m.cfg.UploadOptions.Bucket, prefix); err != nil {
		return fmt.Errorf("delete export objects: %w", err)
	}
	return nil
}

func (m *manager) insideDataDir(dir string) bool {
	root, err := filepath.Abs(m.cfg.DataDir)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func (m *manager) keyRoot() string {
	return strings.Trim(m.cfg.UploadOptions.KeyPrefix, "/")
}

func (m *manager) exportPrefix(companyID, exportID int64) string {
	return path.Join(m.keyRoot(),
		fmt.Sprintf("company-%d", companyID),
		fmt.Sprintf("export-%d", exportID))
}

func (m *manager) removeDir(dir string, logger *logrus.Entry) {
	if err := os.RemoveAll(dir); err != nil {
		logger.Warnf("cleanup export dir: %v", err)
	}
}

func (m *manager) fail(ctx context.Context, exportID int64, cause error) {
	logger := m.cfg.Logger.WithField("export_id", exportID)
	// the export context may already be cancelled; the failure still has to be recorded
	if err := m.exports.MarkFailed(context.WithoutCancel(ctx), exportID, cause); err != nil {
		logger.Errorf("persist failure status: %v", err)
	}
	logger.Error(cause.Error())
}

func writeSnapshot(dir string, doc snapshotDocument) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, snapshotFile), data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

var _ Manager = (*manager)(nil)
