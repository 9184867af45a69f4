package casepkg

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "drmp-backend/internal/domain/casepkg"
	"drmp-backend/internal/domain/cases"
	"drmp-backend/internal/domain/uow"
)

type mockPkgRepo struct {
	CreateFn                     func(ctx context.Context, p *domain.CasePackage) error
	SaveFn                       func(ctx context.Context, p *domain.CasePackage) error
	GetByIDFn                    func(ctx context.Context, id uint64) (*domain.CasePackage, error)
	ExistsByNameFn               func(ctx context.Context, orgID uint64, name string, excludeID uint64) (bool, error)
	ListFn                       func(ctx context.Context, f domain.ListFilter) ([]domain.CasePackage, int64, error)
	ListPublishedFn              func(ctx context.Context, page, size int) ([]domain.CasePackage, int64, error)
	UpdateStatisticsFn           func(ctx context.Context, id uint64, n int, amount float64) error
	UpdateAssignmentStatisticsFn func(ctx context.Context, id uint64, n int, amount float64) error
	UpdateImportStatusFn         func(ctx context.Context, id uint64, st domain.ImportStatus, progress int, msg string) error
	ListStuckImportsFn           func(ctx context.Context, before time.Time) ([]domain.CasePackage, error)
	CountByStatusFn              func(ctx context.Context) ([]domain.StatusCount, error)
}

func (m *mockPkgRepo) Create(ctx context.Context, p *domain.CasePackage) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

func (m *mockPkgRepo) Save(ctx context.Context, p *domain.CasePackage) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, p)
	}
	return nil
}

func (m *mockPkgRepo) GetByID(ctx context.Context, id uint64) (*domain.CasePackage, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockPkgRepo) ExistsByName(ctx context.Context, orgID uint64, name string, ex uint64) (bool, error) {
	if m.ExistsByNameFn != nil {
		return m.ExistsByNameFn(ctx, orgID, name, ex)
	}
	return false, nil
}

func (m *mockPkgRepo) List(ctx context.Context, f domain.ListFilter) ([]domain.CasePackage, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, 0, nil
}

func (m *mockPkgRepo) ListPublished(ctx context.Context, page, size int) ([]domain.CasePackage, int64, error) {
	if m.ListPublishedFn != nil {
		return m.ListPublishedFn(ctx, page, size)
	}
	return nil, 0, nil
}

func (m *mockPkgRepo) UpdateStatistics(ctx context.Context, id uint64, n int, amount float64) error {
	if m.UpdateStatisticsFn != nil {
		return m.UpdateStatisticsFn(ctx, id, n, amount)
	}
	return nil
}

func (m *mockPkgRepo) UpdateAssignmentStatistics(ctx context.Context, id uint64, n int, amount float64) error {
	if m.UpdateAssignmentStatisticsFn != nil {
		return m.UpdateAssignmentStatisticsFn(ctx, id, n, amount)
	}
	return nil
}

func (m *mockPkgRepo) UpdateImportStatus(ctx context.Context, id uint64, st domain.ImportStatus, progress int, msg string) error {
	if m.UpdateImportStatusFn != nil {
		return m.UpdateImportStatusFn(ctx, id, st, progress, msg)
	}
	return nil
}

func (m *mockPkgRepo) ListStuckImports(ctx context.Context, before time.Time) ([]domain.CasePackage, error) {
	if m.ListStuckImportsFn != nil {
		return m.ListStuckImportsFn(ctx, before)
	}
	return nil, nil
}

func (m *mockPkgRepo) CountByStatus(ctx context.Context) ([]domain.StatusCount, error) {
	if m.CountByStatusFn != nil {
		return m.CountByStatusFn(ctx)
	}
	return nil, nil
}

// mockCaseRepo implements only the methods the package usecases touch.
type mockCaseRepo struct {
	cases.Repository

	CreateFn                       func(ctx context.Context, c *cases.Case) error
	ExistsByReceiptNumberFn        func(ctx context.Context, receipt string, excludeID uint64) (bool, error)
	CountAndSumByPackageFn         func(ctx context.Context, packageID uint64) (int64, float64, error)
	CountAndSumAssignedByPackageFn func(ctx context.Context, packageID uint64) (int64, float64, error)
}

func (m *mockCaseRepo) Create(ctx context.Context, c *cases.Case) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, c)
	}
	return nil
}

func (m *mockCaseRepo) ExistsByReceiptNumber(ctx context.Context, r string, ex uint64) (bool, error) {
	if m.ExistsByReceiptNumberFn != nil {
		return m.ExistsByReceiptNumberFn(ctx, r, ex)
	}
	return false, nil
}

func (m *mockCaseRepo) CountAndSumByPackage(ctx context.Context, p uint64) (int64, float64, error) {
	if m.CountAndSumByPackageFn != nil {
		return m.CountAndSumByPackageFn(ctx, p)
	}
	return 0, 0, nil
}

func (m *mockCaseRepo) CountAndSumAssignedByPackage(ctx context.Context, p uint64) (int64, float64, error) {
	if m.CountAndSumAssignedByPackageFn != nil {
		return m.CountAndSumAssignedByPackageFn(ctx, p)
	}
	return 0, 0, nil
}

// mockUoW resolves WithinPackageTx against the pkg repo's GetByID.
type mockUoW struct {
	repos uow.Repos
	pkgs  *mockPkgRepo
}

func (m *mockUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return fn(m.repos)
}

func (m *mockUoW) WithinPackageTx(ctx context.Context, id uint64, fn func(r uow.Repos, p *domain.CasePackage) error) error {
	p, err := m.pkgs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return fn(m.repos, p)
}
