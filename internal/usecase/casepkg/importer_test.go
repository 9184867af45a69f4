package casepkg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"drmp-backend/internal/domain/apperr"
	domain "drmp-backend/internal/domain/casepkg"
	"drmp-backend/internal/domain/cases"
	"drmp-backend/internal/domain/uow"
	"drmp-backend/pkg/crypto"
	"drmp-backend/pkg/workerpool"
)

const csvHeader = "receipt,name,idcard,phone,product,loan,remaining,overdue,consigner,start,end,fund\n"

func goodCSVRow(receipt string) string {
	return fmt.Sprintf("%s,张三,110101199003077858,13812345678,cash-loan,20000,15000,75,Acme Finance,2025-01-01,2025-12-31,Acme Bank\n", receipt)
}

func writeImportCSV(t *testing.T, rows ...string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "import.csv")
	if err := os.WriteFile(p, []byte(csvHeader+strings.Join(rows, "")), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return p
}

type importFixture struct {
	importer *Importer
	pkgs     *mockPkgRepo
	cases    *mockCaseRepo

	created      []*cases.Case
	finalStatus  domain.ImportStatus
	finalMsg     string
	finalPercent int
}

// newImportFixture wires an Importer whose pool executes inline, so Start
// has finished the whole import by the time it returns.
func newImportFixture(t *testing.T) *importFixture {
	t.Helper()
	f := &importFixture{}

	f.pkgs = &mockPkgRepo{
		GetByIDFn: func(ctx context.Context, id uint64) (*domain.CasePackage, error) {
			p := draftPackage(id)
			return p, nil
		},
		UpdateImportStatusFn: func(ctx context.Context, id uint64, st domain.ImportStatus, progress int, msg string) error {
			f.finalStatus = st
			f.finalMsg = msg
			f.finalPercent = progress
			return nil
		},
	}
	f.cases = &mockCaseRepo{
		CreateFn: func(ctx context.Context, c *cases.Case) error {
			f.created = append(f.created, c)
			return nil
		},
		CountAndSumByPackageFn: func(ctx context.Context, p uint64) (int64, float64, error) {
			var sum float64
			for _, c := range f.created {
				sum += c.RemainingAmount
			}
			return int64(len(f.created)), sum, nil
		},
	}

	cipher, err := crypto.NewCipher(strings.Repeat("cd", 32))
	if err != nil {
		t.Fatalf("NewCipher: %v", err)
	}
	pool := workerpool.New(1, 1)
	pool.Shutdown() // force inline execution for deterministic tests

	u := &mockUoW{repos: uow.Repos{Cases: f.cases, Packages: f.pkgs}, pkgs: f.pkgs}
	f.importer = NewImporter(f.pkgs, u, cipher, pool, zap.NewNop(), 2*time.Hour)
	return f
}

func TestImport_AllRowsSucceed(t *testing.T) {
	f := newImportFixture(t)
	path := writeImportCSV(t, goodCSVRow("R-1"), goodCSVRow("R-2"), goodCSVRow("R-3"))

	task, err := f.importer.Start(context.Background(), 1, path)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	got, err := f.importer.Progress(task.TaskID)
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if got.Status != string(domain.ImportSuccess) || got.Progress != 100 {
		t.Fatalf("task = %+v", got)
	}
	if got.TotalRows != 3 || got.SuccessCount != 3 || got.FailCount != 0 {
		t.Fatalf("counts: %+v", got)
	}
	if len(f.created) != 3 {
		t.Fatalf("created %d cases, want 3", len(f.created))
	}
	if f.created[0].DebtorName == "张三" {
		t.Fatal("PII must be encrypted before persistence")
	}
	if f.finalStatus != domain.ImportSuccess {
		t.Fatalf("persisted status = %s", f.finalStatus)
	}

	sum, err := f.importer.Summary(task.TaskID)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.TotalAmount != 45000 || sum.AverageAmount != 15000 || sum.MaxOverdueDays != 75 {
		t.Fatalf("summary: %+v", sum)
	}
	if sum.MinOverdueDays != 75 || sum.AvgOverdueDays != 75 {
		t.Fatalf("overdue stats: %+v", sum)
	}
	if sum.OverdueDistribution["M3"] != 3 {
		t.Fatalf("distribution: %+v", sum.OverdueDistribution)
	}
}

func TestImport_PartialSuccess(t *testing.T) {
	f := newImportFixture(t)
	bad := "R-9,,notanid,notaphone,product,0,15000,75,consigner,2025-01-01,2025-12-31,fund\n"
	path := writeImportCSV(t, goodCSVRow("R-1"), bad, goodCSVRow("R-2"))

	task, _ := f.importer.Start(context.Background(), 1, path)
	got, _ := f.importer.Progress(task.TaskID)

	if got.Status != string(domain.ImportPartialSuccess) {
		t.Fatalf("status = %s, want PARTIAL_SUCCESS", got.Status)
	}
	if got.SuccessCount != 2 || got.FailCount != 1 {
		t.Fatalf("counts: %+v", got)
	}
	if len(got.Errors) != 1 || got.Errors[0].Row != 3 {
		t.Fatalf("row errors: %+v", got.Errors)
	}
	if !strings.Contains(f.finalMsg, "row 3") {
		t.Fatalf("persisted message must point at the row: %q", f.finalMsg)
	}
}

func TestImport_AllRowsFail(t *testing.T) {
	f := newImportFixture(t)
	bad := ",,x,x,,0,0,-1,,x,x,\n"
	path := writeImportCSV(t, bad, bad)

	task, _ := f.importer.Start(context.Background(), 1, path)
	got, _ := f.importer.Progress(task.TaskID)

	if got.Status != string(domain.ImportFailed) {
		t.Fatalf("status = %s, want FAILED", got.Status)
	}
	if len(f.created) != 0 {
		t.Fatalf("no cases should persist, got %d", len(f.created))
	}
}

func TestImport_EmptyFile(t *testing.T) {
	f := newImportFixture(t)
	path := writeImportCSV(t) // header only

	task, _ := f.importer.Start(context.Background(), 1, path)
	got, _ := f.importer.Progress(task.TaskID)

	if got.Status != string(domain.ImportFailed) {
		t.Fatalf("status = %s, want FAILED", got.Status)
	}
	if !strings.Contains(f.finalMsg, "empty") {
		t.Fatalf("message = %q", f.finalMsg)
	}
}

func TestImport_DuplicateReceiptInFile(t *testing.T) {
	f := newImportFixture(t)
	path := writeImportCSV(t, goodCSVRow("R-1"), goodCSVRow("R-1"))

	task, _ := f.importer.Start(context.Background(), 1, path)
	got, _ := f.importer.Progress(task.TaskID)

	if got.SuccessCount != 1 || got.FailCount != 1 {
		t.Fatalf("counts: %+v", got)
	}
	if len(got.Errors) != 1 || !strings.Contains(got.Errors[0].Message, "duplicate receipt") {
		t.Fatalf("errors: %+v", got.Errors)
	}
}

func TestImport_ReceiptAlreadyInDB(t *testing.T) {
	f := newImportFixture(t)
	f.cases.ExistsByReceiptNumberFn = func(ctx context.Context, r string, ex uint64) (bool, error) {
		return r == "R-1", nil
	}
	path := writeImportCSV(t, goodCSVRow("R-1"), goodCSVRow("R-2"))

	task, _ := f.importer.Start(context.Background(), 1, path)
	got, _ := f.importer.Progress(task.TaskID)

	if got.Status != string(domain.ImportPartialSuccess) || got.SuccessCount != 1 {
		t.Fatalf("task: %+v", got)
	}
}

func TestImport_RejectsNonDraftPackage(t *testing.T) {
	f := newImportFixture(t)
	f.pkgs.GetByIDFn = func(ctx context.Context, id uint64) (*domain.CasePackage, error) {
		p := draftPackage(id)
		p.Status = domain.StatusPublished
		return p, nil
	}

	_, err := f.importer.Start(context.Background(), 1, writeImportCSV(t, goodCSVRow("R-1")))
	if !errors.Is(err, apperr.ErrPackageCannotModify) {
		t.Fatalf("err = %v, want cannot modify", err)
	}
}

func TestProgress_UnknownTask(t *testing.T) {
	f := newImportFixture(t)
	if _, err := f.importer.Progress("no-such-task"); !errors.Is(err, apperr.ErrImportTaskNotFound) {
		t.Fatalf("err = %v, want task not found", err)
	}
	if _, err := f.importer.Summary("no-such-task"); !errors.Is(err, apperr.ErrImportTaskNotFound) {
		t.Fatalf("err = %v, want task not found", err)
	}
}

func TestSweepStuck(t *testing.T) {
	f := newImportFixture(t)
	stuck := draftPackage(5)
	stuck.ImportStatus = domain.ImportProcessing
	stuck.ImportProgress = 40

	var cutoff time.Time
	f.pkgs.ListStuckImportsFn = func(ctx context.Context, before time.Time) ([]domain.CasePackage, error) {
		cutoff = before
		return []domain.CasePackage{*stuck}, nil
	}
	var failedID uint64
	f.pkgs.UpdateImportStatusFn = func(ctx context.Context, id uint64, st domain.ImportStatus, progress int, msg string) error {
		failedID = id
		if st != domain.ImportFailed || progress != 40 {
			t.Errorf("sweep wrote %s/%d", st, progress)
		}
		return nil
	}

	if err := f.importer.SweepStuck(context.Background()); err != nil {
		t.Fatalf("SweepStuck: %v", err)
	}
	if failedID != 5 {
		t.Fatalf("failed package = %d, want 5", failedID)
	}
	if time.Since(cutoff) < 2*time.Hour-time.Minute {
		t.Fatalf("cutoff should be ~2h ago, got %v", cutoff)
	}
}
