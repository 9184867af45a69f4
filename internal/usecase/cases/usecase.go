package cases

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"drmp-backend/internal/domain/apperr"
	"drmp-backend/internal/domain/casepkg"
	"drmp-backend/internal/domain/cases"
	"drmp-backend/internal/domain/organization"
	"drmp-backend/internal/domain/uow"
	"drmp-backend/pkg/crypto"
)

type Usecase struct {
	repo   cases.Repository
	orgs   organization.Repository
	uow    uow.UnitOfWork
	cipher *crypto.Cipher
}

func NewUsecase(repo cases.Repository, orgs organization.Repository, u uow.UnitOfWork, cipher *crypto.Cipher) *Usecase {
	return &Usecase{repo: repo, orgs: orgs, uow: u, cipher: cipher}
}

func (u *Usecase) Create(ctx context.Context, in CreateCaseInput) (*CaseDTO, error) {
	exists, err := u.repo.ExistsByReceiptNumber(ctx, in.ReceiptNumber, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.ErrReceiptNumberExists
	}
	if in.ConsignEndDate.Before(in.ConsignStartDate) {
		return nil, apperr.ErrInvalidParameter.WithMessage("consign end date before start date")
	}

	c := &cases.Case{
		CasePackageID:    in.CasePackageID,
		ReceiptNumber:    in.ReceiptNumber,
		LoanProduct:      in.LoanProduct,
		LoanAmount:       in.LoanAmount,
		RemainingAmount:  in.RemainingAmount,
		OverdueDays:      in.OverdueDays,
		Consigner:        in.Consigner,
		ConsignStartDate: in.ConsignStartDate,
		ConsignEndDate:   in.ConsignEndDate,
		FundProvider:     in.FundProvider,
		DebtInfo:         in.DebtInfo,
		DebtorInfo:       in.DebtorInfo,
		ContactInfo:      in.ContactInfo,
		CustomFields:     in.CustomFields,
		CurrentStatus:    cases.StatusPendingAssignment,
	}
	if err := u.encryptPII(c, in.DebtorName, in.DebtorIDCard, in.DebtorPhone); err != nil {
		return nil, err
	}

	err = u.uow.WithinPackageTx(ctx, in.CasePackageID, func(r uow.Repos, p *casepkg.CasePackage) error {
		if err := r.Cases.Create(ctx, c); err != nil {
			return err
		}
		return refreshPackageStats(ctx, r, p.ID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrPackageNotFound
		}
		return nil, err
	}
	return u.toDTO(c, false)
}

func (u *Usecase) Get(ctx context.Context, id uint64) (*CaseDTO, error) {
	c, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrCaseNotFound
		}
		return nil, err
	}
	return u.toDTO(c, false)
}

func (u *Usecase) Update(ctx context.Context, id uint64, in UpdateCaseInput) (*CaseDTO, error) {
	c, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrCaseNotFound
		}
		return nil, err
	}
	if c.CurrentStatus == cases.StatusClosed {
		return nil, apperr.ErrCaseAlreadyClosed
	}

	if in.ReceiptNumber != "" && in.ReceiptNumber != c.ReceiptNumber {
		exists, err := u.repo.ExistsByReceiptNumber(ctx, in.ReceiptNumber, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperr.ErrReceiptNumberExists
		}
		c.ReceiptNumber = in.ReceiptNumber
	}
	if in.LoanProduct != "" {
		c.LoanProduct = in.LoanProduct
	}
	if in.RemainingAmount != nil {
		if *in.RemainingAmount < 0 {
			return nil, apperr.ErrInvalidParameter.WithMessage("remaining amount must not be negative")
		}
		c.RemainingAmount = *in.RemainingAmount
	}
	if in.OverdueDays != nil {
		if *in.OverdueDays < 0 {
			return nil, apperr.ErrInvalidParameter.WithMessage("overdue days must not be negative")
		}
		c.OverdueDays = *in.OverdueDays
	}
	if in.DebtInfo != "" {
		c.DebtInfo = in.DebtInfo
	}
	if in.ContactInfo != "" {
		c.ContactInfo = in.ContactInfo
	}
	if in.CustomFields != "" {
		c.CustomFields = in.CustomFields
	}
	if in.DebtorName != "" || in.DebtorIDCard != "" || in.DebtorPhone != "" {
		name, idCard, phone, err := u.decryptPII(c)
		if err != nil {
			return nil, err
		}
		if in.DebtorName != "" {
			name = in.DebtorName
		}
		if in.DebtorIDCard != "" {
			idCard = in.DebtorIDCard
		}
		if in.DebtorPhone != "" {
			phone = in.DebtorPhone
		}
		if err := u.encryptPII(c, name, idCard, phone); err != nil {
			return nil, err
		}
	}

	if err := u.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return u.toDTO(c, false)
}

// Delete soft-deletes a case. Cases under active work cannot go; the
// package aggregates are refreshed in the same transaction.
func (u *Usecase) Delete(ctx context.Context, id uint64) error {
	c, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrCaseNotFound
		}
		return err
	}
	if c.CurrentStatus == cases.StatusProcessing || c.CurrentStatus == cases.StatusSettled {
		return apperr.ErrCaseCannotDelete
	}

	return u.uow.WithinPackageTx(ctx, c.CasePackageID, func(r uow.Repos, p *casepkg.CasePackage) error {
		c.Deleted = true
		if err := r.Cases.Save(ctx, c); err != nil {
			return err
		}
		return refreshPackageStats(ctx, r, p.ID)
	})
}

func (u *Usecase) List(ctx context.Context, f cases.ListFilter) ([]CaseDTO, int64, error) {
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
	out := make([]CaseDTO, 0, len(items))
	for i := range items {
		dto, err := u.toDTO(&items[i], true)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *dto)
	}
	return out, total, nil
}

// ListPendingAssignment returns every case still waiting for an org, masked.
func (u *Usecase) ListPendingAssignment(ctx context.Context) ([]CaseDTO, error) {
	items, err := u.repo.ListPendingAssignment(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CaseDTO, 0, len(items))
	for i := range items {
		dto, err := u.toDTO(&items[i], true)
		if err != nil {
			return nil, err
		}
		out = append(out, *dto)
	}
	return out, nil
}

// ReceiptNumberAvailable reports whether a receipt number is still free
// among non-deleted cases.
func (u *Usecase) ReceiptNumberAvailable(ctx context.Context, receipt string) (bool, error) {
	exists, err := u.repo.ExistsByReceiptNumber(ctx, receipt, 0)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// GetByReceiptNumber resolves a case by its business key, unmasked.
func (u *Usecase) GetByReceiptNumber(ctx context.Context, receipt string) (*CaseDTO, error) {
	c, err := u.repo.GetByReceiptNumber(ctx, receipt)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrCaseNotFound
		}
		return nil, err
	}
	return u.toDTO(c, false)
}

// Assign hands a batch of pending cases to an active disposal org and
// refreshes the assignment counters of every touched package.
func (u *Usecase) Assign(ctx context.Context, in AssignInput) error {
	if len(in.CaseIDs) == 0 {
		return apperr.ErrInvalidParameter.WithMessage("no cases selected")
	}
	org, err := u.orgs.GetByID(ctx, in.OrgID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrOrgNotFound
		}
		return err
	}
	if org.Type != organization.TypeDisposal {
		return apperr.ErrOrgInvalidType
	}
	if !org.IsActive() {
		return apperr.ErrOrgNotApproved
	}

	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		packages := make(map[uint64]struct{})
		for _, id := range in.CaseIDs {
			c, err := r.Cases.GetByID(ctx, id)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.ErrCaseNotFound.WithMessage("case %d not found", id)
				}
				return err
			}
			if c.CurrentStatus != cases.StatusPendingAssignment {
				return apperr.ErrCaseAssignmentFailed.WithMessage("case %s is not pending assignment", c.ReceiptNumber)
			}
			packages[c.CasePackageID] = struct{}{}
		}
		if err := r.Cases.Assign(ctx, in.CaseIDs, in.OrgID, time.Now().UTC(), cases.StatusAssigned); err != nil {
			return err
		}
		for pkgID := range packages {
			n, sum, err := r.Cases.CountAndSumAssignedByPackage(ctx, pkgID)
			if err != nil {
				return err
			}
			if err := r.Packages.UpdateAssignmentStatistics(ctx, pkgID, int(n), sum); err != nil {
				return err
			}
		}
		return nil
	})
}

// UpdateStatus moves a case along the lifecycle, recording optional progress.
func (u *Usecase) UpdateStatus(ctx context.Context, id uint64, to cases.Status, progress string) error {
	c, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrCaseNotFound
		}
		return err
	}
	if err := cases.CheckTransition(c.CurrentStatus, to); err != nil {
		return err
	}
	return u.repo.UpdateStatus(ctx, id, to, progress)
}

func (u *Usecase) UpdateRecovery(ctx context.Context, id uint64, totalRecovered, recoveryRate float64) error {
	if totalRecovered < 0 {
		return apperr.ErrInvalidParameter.WithMessage("recovered amount must not be negative")
	}
	if recoveryRate < 0 || recoveryRate > 100 {
		return apperr.ErrInvalidParameter.WithMessage("recovery rate must be between 0 and 100")
	}
	if _, err := u.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.ErrCaseNotFound
		}
		return err
	}
	return u.repo.UpdateRecovery(ctx, id, totalRecovered, recoveryRate)
}

// Statistics returns the platform-wide per-status case counts.
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

// OrgStatistics aggregates the workload and recovery figures of one
// disposal org.
func (u *Usecase) OrgStatistics(ctx context.Context, orgID uint64) (*OrgStatisticsDTO, error) {
	counts, err := u.repo.CountByOrgAndStatus(ctx, orgID)
	if err != nil {
		return nil, err
	}
	stats, err := u.repo.GetRecoveryStats(ctx, orgID)
	if err != nil {
		return nil, err
	}
	dto := &OrgStatisticsDTO{
		ByStatus:       make(map[string]int64, len(counts)),
		CaseCount:      stats.CaseCount,
		TotalRemaining: stats.TotalRemaining,
		TotalRecovered: stats.TotalRecovered,
	}
	for _, sc := range counts {
		dto.ByStatus[string(sc.Status)] = sc.Count
	}
	if total := stats.TotalRecovered + stats.TotalRemaining; total > 0 {
		dto.OverallRecoveryRate = stats.TotalRecovered / total * 100
	}
	return dto, nil
}

func refreshPackageStats(ctx context.Context, r uow.Repos, packageID uint64) error {
	n, sum, err := r.Cases.CountAndSumByPackage(ctx, packageID)
	if err != nil {
		return err
	}
	return r.Packages.UpdateStatistics(ctx, packageID, int(n), sum)
}

func (u *Usecase) encryptPII(c *cases.Case, name, idCard, phone string) error {
	var err error
	if c.DebtorName, err = u.cipher.Encrypt(name); err != nil {
		return err
	}
	if c.DebtorIDCard, err = u.cipher.Encrypt(idCard); err != nil {
		return err
	}
	if c.DebtorPhone, err = u.cipher.Encrypt(phone); err != nil {
		return err
	}
	return nil
}

func (u *Usecase) decryptPII(c *cases.Case) (name, idCard, phone string, err error) {
	if name, err = u.cipher.Decrypt(c.DebtorName); err != nil {
		return
	}
	if idCard, err = u.cipher.Decrypt(c.DebtorIDCard); err != nil {
		return
	}
	phone, err = u.cipher.Decrypt(c.DebtorPhone)
	return
}

// toDTO decrypts the PII columns; list views get masked values.
func (u *Usecase) toDTO(c *cases.Case, masked bool) (*CaseDTO, error) {
	name, idCard, phone, err := u.decryptPII(c)
	if err != nil {
		return nil, err
	}
	if masked {
		name = maskName(name)
		idCard = maskIDCard(idCard)
		phone = maskPhone(phone)
	}
	overdue := c.OverdueDays
	dto := &CaseDTO{
		ID:               c.ID,
		CasePackageID:    c.CasePackageID,
		ReceiptNumber:    c.ReceiptNumber,
		DebtorName:       name,
		DebtorIDCard:     idCard,
		DebtorPhone:      phone,
		LoanProduct:      c.LoanProduct,
		LoanAmount:       c.LoanAmount,
		RemainingAmount:  c.RemainingAmount,
		OverdueDays:      c.OverdueDays,
		OverdueLevel:     CalculateOverdueLevel(&overdue),
		RiskLevel:        CalculateRiskLevel(c.OverdueDays, c.RemainingAmount),
		Consigner:        c.Consigner,
		ConsignStartDate: c.ConsignStartDate,
		ConsignEndDate:   c.ConsignEndDate,
		FundProvider:     c.FundProvider,
		DebtInfo:         c.DebtInfo,
		DebtorInfo:       c.DebtorInfo,
		ContactInfo:      c.ContactInfo,
		CustomFields:     c.CustomFields,
		CurrentStatus:    string(c.CurrentStatus),
		AssignedOrgID:    c.AssignedOrgID,
		AssignedAt:       c.AssignedAt,
		LatestProgress:   c.LatestProgress,
		TotalRecovered:   c.TotalRecovered,
		RecoveryRate:     c.RecoveryRate,
		CreatedAt:        c.CreatedAt,
	}
	return dto, nil
}
