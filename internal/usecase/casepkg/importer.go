package casepkg

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"drmp-backend/internal/domain/apperr"
	"drmp-backend/internal/domain/casepkg"
	"drmp-backend/internal/domain/cases"
	"drmp-backend/internal/domain/uow"
	caseuc "drmp-backend/internal/usecase/cases"
	"drmp-backend/pkg/crypto"
	"drmp-backend/pkg/excel"
	"drmp-backend/pkg/workerpool"
)

// Import progress checkpoints. The gaps are where the real work happens.
const (
	progressParsed    = 20
	progressValidated = 40
	progressPersisted = 80
	progressDone      = 100
)

// Importer runs case imports on a bounded pool and tracks their progress in
// process memory. Progress is lost on restart; the sweeper fails the
// orphaned DB rows afterwards.
type Importer struct {
	pkgs    casepkg.Repository
	uow     uow.UnitOfWork
	cipher  *crypto.Cipher
	pool    *workerpool.Pool
	log     *zap.Logger
	timeout time.Duration

	mu        sync.Mutex
	tasks     map[string]*ImportTask
	summaries map[string]*ImportSummary
}

func NewImporter(pkgs casepkg.Repository, u uow.UnitOfWork, cipher *crypto.Cipher, pool *workerpool.Pool, log *zap.Logger, timeout time.Duration) *Importer {
	return &Importer{
		pkgs:      pkgs,
		uow:       u,
		cipher:    cipher,
		pool:      pool,
		log:       log,
		timeout:   timeout,
		tasks:     make(map[string]*ImportTask),
		summaries: make(map[string]*ImportSummary),
	}
}

// Start schedules an import of the stored file into the package and returns
// the task handle immediately.
func (i *Importer) Start(ctx context.Context, packageID uint64, filePath string) (*ImportTask, error) {
	p, err := i.pkgs.GetByID(ctx, packageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrPackageNotFound
		}
		return nil, err
	}
	if !p.CanEdit() {
		return nil, apperr.ErrPackageCannotModify
	}

	if err := i.pkgs.UpdateImportStatus(ctx, packageID, casepkg.ImportProcessing, 0, ""); err != nil {
		return nil, err
	}

	task := &ImportTask{
		TaskID:    uuid.NewString(),
		PackageID: packageID,
		Status:    string(casepkg.ImportProcessing),
		StartedAt: time.Now().UTC(),
	}
	i.mu.Lock()
	i.tasks[task.TaskID] = task
	i.mu.Unlock()

	i.pool.Submit(func() { i.run(task.TaskID, packageID, filePath) })
	return i.snapshot(task.TaskID)
}

// Progress returns a copy of the task state.
func (i *Importer) Progress(taskID string) (*ImportTask, error) {
	return i.snapshot(taskID)
}

// Summary is available once the task has finished.
func (i *Importer) Summary(taskID string) (*ImportSummary, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	s, ok := i.summaries[taskID]
	if !ok {
		return nil, apperr.ErrImportTaskNotFound
	}
	out := *s
	return &out, nil
}

func (i *Importer) run(taskID string, packageID uint64, filePath string) {
	ctx := context.Background()

	defer func() {
		if r := recover(); r != nil {
			i.log.Error("case import panicked",
				zap.String("task_id", taskID),
				zap.Uint64("package_id", packageID),
				zap.Any("panic", r))
			i.finish(ctx, taskID, packageID, casepkg.ImportFailed, "import failed unexpectedly")
		}
	}()

	rows, err := excel.ParseFile(filePath)
	if err != nil {
		i.finish(ctx, taskID, packageID, casepkg.ImportFailed, apperr.ErrImportFileFormat.Message)
		return
	}
	if len(rows) == 0 {
		i.finish(ctx, taskID, packageID, casepkg.ImportFailed, apperr.ErrImportFileEmpty.Message)
		return
	}
	i.setProgress(ctx, taskID, packageID, progressParsed, func(t *ImportTask) {
		t.TotalRows = len(rows)
	})

	// validate: bad rows are recorded, good ones continue
	var valid []*caseRow
	var rowErrs []RowError
	seen := make(map[string]int, len(rows))
	for _, r := range rows {
		cr, err := parseRow(r)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: r.Number, Message: err.Error()})
			continue
		}
		if first, dup := seen[cr.ReceiptNumber]; dup {
			rowErrs = append(rowErrs, RowError{
				Row:     cr.RowNumber,
				Message: fmt.Sprintf("duplicate receipt number (first seen at row %d)", first),
			})
			continue
		}
		seen[cr.ReceiptNumber] = cr.RowNumber
		valid = append(valid, cr)
	}
	i.setProgress(ctx, taskID, packageID, progressValidated, nil)

	// persist: each row is checked against the DB inside the package tx
	summary := &ImportSummary{TotalRows: len(rows), OverdueDistribution: make(map[string]int)}
	sumOverdue := 0
	err = i.uow.WithinPackageTx(ctx, packageID, func(r uow.Repos, p *casepkg.CasePackage) error {
		for _, cr := range valid {
			exists, err := r.Cases.ExistsByReceiptNumber(ctx, cr.ReceiptNumber, 0)
			if err != nil {
				return err
			}
			if exists {
				rowErrs = append(rowErrs, RowError{Row: cr.RowNumber, Message: "receipt number already exists"})
				continue
			}
			c, err := i.toCase(packageID, cr)
			if err != nil {
				return err
			}
			if err := r.Cases.Create(ctx, c); err != nil {
				rowErrs = append(rowErrs, RowError{Row: cr.RowNumber, Message: "failed to save row"})
				continue
			}
			summary.SuccessCount++
			summary.TotalAmount += cr.RemainingAmount
			sumOverdue += cr.OverdueDays
			if summary.SuccessCount == 1 || cr.OverdueDays < summary.MinOverdueDays {
				summary.MinOverdueDays = cr.OverdueDays
			}
			if cr.OverdueDays > summary.MaxOverdueDays {
				summary.MaxOverdueDays = cr.OverdueDays
			}
			summary.OverdueDistribution[caseuc.CalculateOverdueLevel(&cr.OverdueDays)]++
		}
		i.setProgress(ctx, taskID, packageID, progressPersisted, nil)

		n, sum, err := r.Cases.CountAndSumByPackage(ctx, p.ID)
		if err != nil {
			return err
		}
		return r.Packages.UpdateStatistics(ctx, p.ID, int(n), sum)
	})
	if err != nil {
		i.log.Error("case import failed",
			zap.String("task_id", taskID),
			zap.Uint64("package_id", packageID),
			zap.Error(err))
		i.finish(ctx, taskID, packageID, casepkg.ImportFailed, "import failed unexpectedly")
		return
	}

	summary.FailCount = len(rowErrs)
	if summary.SuccessCount > 0 {
		summary.AverageAmount = summary.TotalAmount / float64(summary.SuccessCount)
		summary.AvgOverdueDays = float64(sumOverdue) / float64(summary.SuccessCount)
	}

	status := casepkg.ImportSuccess
	switch {
	case summary.SuccessCount == 0:
		status = casepkg.ImportFailed
	case len(rowErrs) > 0:
		status = casepkg.ImportPartialSuccess
	}

	i.mu.Lock()
	if t, ok := i.tasks[taskID]; ok {
		t.SuccessCount = summary.SuccessCount
		t.FailCount = summary.FailCount
		t.Errors = rowErrs
	}
	i.summaries[taskID] = summary
	i.mu.Unlock()

	i.finish(ctx, taskID, packageID, status, summarizeErrors(rowErrs))
	i.log.Info("case import finished",
		zap.String("task_id", taskID),
		zap.Uint64("package_id", packageID),
		zap.String("status", string(status)),
		zap.Int("success", summary.SuccessCount),
		zap.Int("failed", summary.FailCount))
}

// SweepStuck fails imports that have sat in PROCESSING past the timeout.
func (i *Importer) SweepStuck(ctx context.Context) error {
	stuck, err := i.pkgs.ListStuckImports(ctx, time.Now().Add(-i.timeout))
	if err != nil {
		return err
	}
	for _, p := range stuck {
		if err := i.pkgs.UpdateImportStatus(ctx, p.ID, casepkg.ImportFailed, p.ImportProgress, apperr.ErrImportTaskTimeout.Message); err != nil {
			return err
		}
		i.log.Warn("import task timed out", zap.Uint64("package_id", p.ID))
	}
	return nil
}

// RunSweeper blocks, sweeping on a fixed interval until ctx is done.
func (i *Importer) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := i.SweepStuck(ctx); err != nil {
				i.log.Error("import sweep failed", zap.Error(err))
			}
		}
	}
}

func (i *Importer) toCase(packageID uint64, cr *caseRow) (*cases.Case, error) {
	c := &cases.Case{
		CasePackageID:    packageID,
		ReceiptNumber:    cr.ReceiptNumber,
		LoanProduct:      cr.LoanProduct,
		LoanAmount:       cr.LoanAmount,
		RemainingAmount:  cr.RemainingAmount,
		OverdueDays:      cr.OverdueDays,
		Consigner:        cr.Consigner,
		ConsignStartDate: cr.ConsignStartDate,
		ConsignEndDate:   cr.ConsignEndDate,
		FundProvider:     cr.FundProvider,
		CurrentStatus:    cases.StatusPendingAssignment,
	}
	var err error
	if c.DebtorName, err = i.cipher.Encrypt(cr.DebtorName); err != nil {
		return nil, err
	}
	if c.DebtorIDCard, err = i.cipher.Encrypt(cr.DebtorIDCard); err != nil {
		return nil, err
	}
	if c.DebtorPhone, err = i.cipher.Encrypt(cr.DebtorPhone); err != nil {
		return nil, err
	}
	return c, nil
}

func (i *Importer) snapshot(taskID string) (*ImportTask, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	t, ok := i.tasks[taskID]
	if !ok {
		return nil, apperr.ErrImportTaskNotFound
	}
	out := *t
	out.Errors = append([]RowError(nil), t.Errors...)
	return &out, nil
}

func (i *Importer) setProgress(ctx context.Context, taskID string, packageID uint64, progress int, mutate func(*ImportTask)) {
	i.mu.Lock()
	if t, ok := i.tasks[taskID]; ok {
		t.Progress = progress
		if mutate != nil {
			mutate(t)
		}
	}
	i.mu.Unlock()
	if err := i.pkgs.UpdateImportStatus(ctx, packageID, casepkg.ImportProcessing, progress, ""); err != nil {
		i.log.Warn("failed to persist import progress",
			zap.String("task_id", taskID), zap.Error(err))
	}
}

func (i *Importer) finish(ctx context.Context, taskID string, packageID uint64, status casepkg.ImportStatus, errMsg string) {
	now := time.Now().UTC()
	i.mu.Lock()
	if t, ok := i.tasks[taskID]; ok {
		t.Status = string(status)
		t.Progress = progressDone
		t.FinishedAt = &now
	}
	i.mu.Unlock()
	if err := i.pkgs.UpdateImportStatus(ctx, packageID, status, progressDone, errMsg); err != nil {
		i.log.Error("failed to persist import result",
			zap.String("task_id", taskID), zap.Error(err))
	}
}

// summarizeErrors keeps the stored message short; the full list stays on the
// task.
func summarizeErrors(errs []RowError) string {
	if len(errs) == 0 {
		return ""
	}
	n := len(errs)
	if n > 5 {
		errs = errs[:5]
	}
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, fmt.Sprintf("row %d: %s", e.Row, e.Message))
	}
	if n > 5 {
		parts = append(parts, fmt.Sprintf("and %d more", n-5))
	}
	return strings.Join(parts, "; ")
}
