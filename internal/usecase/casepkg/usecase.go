package casepkg

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"drmp-backend/internal/domain/apperr"
	"drmp-backend/internal/domain/casepkg"
	"drmp-backend/internal/domain/uow"
)

type Usecase struct {
	repo casepkg.Repository
	uow  uow.UnitOfWork
}

func NewUsecase(repo casepkg.Repository, u uow.UnitOfWork) *Usecase {
	return &Usecase{repo: repo, uow: u}
}

func (u *Usecase) Create(ctx context.Context, in CreatePackageInput) (*PackageDTO, error) {
	exists, err := u.repo.ExistsByName(ctx, in.SourceOrgID, in.Name, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.ErrPackageNameExists
	}

	p := &casepkg.CasePackage{
		Name:                 in.Name,
		Description:          in.Description,
		SourceOrgID:          in.SourceOrgID,
		Status:               casepkg.StatusDraft,
		ExpectedRecoveryRate: in.ExpectedRecoveryRate,
		ExpectedPeriod:       in.ExpectedPeriod,
		PreferredMethods:     in.PreferredMethods,
		ImportStatus:         casepkg.ImportPending,
	}
	if err := u.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toDTO(p), nil
}

func (u *Usecase) Get(ctx context.Context, id uint64) (*PackageDTO, error) {
	p, err := u.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDTO(p), nil
}

func (u *Usecase) Update(ctx context.Context, id uint64, in UpdatePackageInput) (*PackageDTO, error) {
	p, err := u.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.CanEdit() {
		return nil, apperr.ErrPackageCannotModify
	}

	if in.Name != "" && in.Name != p.Name {
		exists, err := u.repo.ExistsByName(ctx, p.SourceOrgID, in.Name, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperr.ErrPackageNameExists
		}
		p.Name = in.Name
	}
	if in.Description != "" {
		p.Description = in.Description
	}
	if in.ExpectedRecoveryRate != nil {
		p.ExpectedRecoveryRate = in.ExpectedRecoveryRate
	}
	if in.ExpectedPeriod != nil {
		p.ExpectedPeriod = in.ExpectedPeriod
	}
	if in.PreferredMethods != "" {
		p.PreferredMethods = in.PreferredMethods
	}

	if err := u.repo.Save(ctx, p); err != nil {
		return nil, err
	}
	return toDTO(p), nil
}

// Delete soft-deletes a draft package together with its cases.
func (u *Usecase) Delete(ctx context.Context, id uint64) error {
	p, err := u.get(ctx, id)
	if err != nil {
		return err
	}
	if p.Status == casepkg.StatusPublished || p.Status == casepkg.StatusProcessing {
		return apperr.ErrPackageCannotDelete
	}

	return u.uow.WithinPackageTx(ctx, id, func(r uow.Repos, locked *casepkg.CasePackage) error {
		locked.Deleted = true
		return r.Packages.Save(ctx, locked)
	})
}

// Publish exposes a package to disposal orgs. Requires at least one case.
func (u *Usecase) Publish(ctx context.Context, id uint64) (*PackageDTO, error) {
	var out *casepkg.CasePackage
	err := u.uow.WithinPackageTx(ctx, id, func(r uow.Repos, p *casepkg.CasePackage) error {
		if p.Status != casepkg.StatusDraft && p.Status != casepkg.StatusWithdrawn {
			return apperr.ErrPackageCannotPublish
		}
		// publish against fresh counts, not the cached ones
		n, sum, err := r.Cases.CountAndSumByPackage(ctx, p.ID)
		if err != nil {
			return err
		}
		if n == 0 {
			return apperr.ErrPackageNoCases
		}
		p.TotalCount = int(n)
		p.TotalAmount = sum
		p.Status = casepkg.StatusPublished
		now := time.Now().UTC()
		p.PublishTime = &now
		out = p
		return r.Packages.Save(ctx, p)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrPackageNotFound
		}
		return nil, err
	}
	return toDTO(out), nil
}

// Withdraw pulls a published package back. Blocked once any case is assigned.
func (u *Usecase) Withdraw(ctx context.Context, id uint64) (*PackageDTO, error) {
	var out *casepkg.CasePackage
	err := u.uow.WithinPackageTx(ctx, id, func(r uow.Repos, p *casepkg.CasePackage) error {
		if p.Status != casepkg.StatusPublished {
			return apperr.ErrPackageCannotWithdraw
		}
		n, _, err := r.Cases.CountAndSumAssignedByPackage(ctx, p.ID)
		if err != nil {
			return err
		}
		if n > 0 {
			return apperr.ErrPackageCannotWithdraw.WithMessage("package has %d assigned cases", n)
		}
		p.Status = casepkg.StatusWithdrawn
		out = p
		return r.Packages.Save(ctx, p)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrPackageNotFound
		}
		return nil, err
	}
	return toDTO(out), nil
}

// Close marks a package as completed once disposal work wraps up.
func (u *Usecase) Close(ctx context.Context, id uint64) (*PackageDTO, error) {
	var out *casepkg.CasePackage
	err := u.uow.WithinPackageTx(ctx, id, func(r uow.Repos, p *casepkg.CasePackage) error {
		if p.Status != casepkg.StatusPublished && p.Status != casepkg.StatusProcessing {
			return apperr.ErrPackageCannotModify.WithMessage("only published or processing packages can be closed")
		}
		p.Status = casepkg.StatusCompleted
		out = p
		return r.Packages.Save(ctx, p)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrPackageNotFound
		}
		return nil, err
	}
	return toDTO(out), nil
}

// NameAvailable reports whether a package name is still free within the source org.
func (u *Usecase) NameAvailable(ctx context.Context, sourceOrgID uint64, name string) (bool, error) {
	exists, err := u.repo.ExistsByName(ctx, sourceOrgID, name, 0)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

func (u *Usecase) List(ctx context.Context, f casepkg.ListFilter) ([]PackageDTO, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Size < 1 {
		f.Size = 20
	}
	if f.Size > 200 {
		f.Size = 200
	}
	items, total, err := u.repo.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return toDTOs(items), total, nil
}

// ListPublished is the disposal-side marketplace view.
func (u *Usecase) ListPublished(ctx context.Context, page, size int) ([]PackageDTO, int64, error) {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	if size > 200 {
		size = 200
	}
	items, total, err := u.repo.ListPublished(ctx, page, size)
	if err != nil {
		return nil, 0, err
	}
	return toDTOs(items), total, nil
}

// RefreshStatistics recomputes the cached aggregates from the child cases.
func (u *Usecase) RefreshStatistics(ctx context.Context, id uint64) (*PackageDTO, error) {
	err := u.uow.WithinPackageTx(ctx, id, func(r uow.Repos, p *casepkg.CasePackage) error {
		n, sum, err := r.Cases.CountAndSumByPackage(ctx, p.ID)
		if err != nil {
			return err
		}
		if err := r.Packages.UpdateStatistics(ctx, p.ID, int(n), sum); err != nil {
			return err
		}
		an, asum, err := r.Cases.CountAndSumAssignedByPackage(ctx, p.ID)
		if err != nil {
			return err
		}
		return r.Packages.UpdateAssignmentStatistics(ctx, p.ID, int(an), asum)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrPackageNotFound
		}
		return nil, err
	}
	return u.Get(ctx, id)
}

func (u *Usecase) Statistics(ctx context.Context) (map[string]int64, error) {
	counts, err := u.repo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(counts))
	for _, sc := range counts {
		out[string(sc.Status)] = sc.Count
	}
	return out, nil
}

func (u *Usecase) get(ctx context.Context, id uint64) (*casepkg.CasePackage, error) {
	p, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrPackageNotFound
		}
		return nil, err
	}
	return p, nil
}

func toDTO(p *casepkg.CasePackage) *PackageDTO {
	return &PackageDTO{
		ID:                   p.ID,
		Name:                 p.Name,
		Description:          p.Description,
		SourceOrgID:          p.SourceOrgID,
		TotalCount:           p.TotalCount,
		TotalAmount:          p.TotalAmount,
		AssignedCount:        p.AssignedCount,
		AssignedAmount:       p.AssignedAmount,
		RemainingCount:       p.RemainingCount(),
		AssignmentProgress:   p.AssignmentProgress(),
		Status:               string(p.Status),
		PublishTime:          p.PublishTime,
		ExpectedRecoveryRate: p.ExpectedRecoveryRate,
		ExpectedPeriod:       p.ExpectedPeriod,
		PreferredMethods:     p.PreferredMethods,
		ImportStatus:         string(p.ImportStatus),
		ImportProgress:       p.ImportProgress,
		ImportErrorMsg:       p.ImportErrorMsg,
		CreatedAt:            p.CreatedAt,
	}
}

func toDTOs(items []casepkg.CasePackage) []PackageDTO {
	out := make([]PackageDTO, 0, len(items))
	for i := range items {
		out = append(out, *toDTO(&items[i]))
	}
	return out
}
