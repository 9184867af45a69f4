package organization

import (
	"context"
	"errors"
	"mime/multipart"
	"time"

	"gorm.io/gorm"

	"drmp-backend/internal/domain/apperr"
	"drmp-backend/internal/domain/organization"
)

// FileStore is the subset of the storage layer the org workflow needs.
type FileStore interface {
	SaveDocument(fh *multipart.FileHeader) (string, error)
}

type Usecase struct {
	repo  organization.Repository
	files FileStore
	now   func() time.Time
}

func NewUsecase(repo organization.Repository, files FileStore) *Usecase {
	return &Usecase{repo: repo, files: files, now: time.Now}
}

// Register creates an org in the audit queue. It starts PENDING on both the
// operational and audit axes.
func (u *Usecase) Register(ctx context.Context, in RegisterInput) (*OrgDTO, error) {
	if in.Type != organization.TypeSource && in.Type != organization.TypeDisposal {
		return nil, apperr.ErrOrgInvalidType
	}
	exists, err := u.repo.ExistsByName(ctx, in.Name, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperr.ErrOrgAlreadyExists
	}
	if in.UnifiedCreditCode != "" {
		exists, err = u.repo.ExistsByUnifiedCreditCode(ctx, in.UnifiedCreditCode, 0)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperr.ErrOrgAlreadyExists.WithMessage("unified credit code already registered")
		}
	}

	o := &organization.Organization{
		Name:                in.Name,
		Type:                in.Type,
		SubType:             in.SubType,
		Status:              organization.StatusPending,
		ContactPerson:       in.ContactPerson,
		ContactPhone:        in.ContactPhone,
		ContactEmail:        in.ContactEmail,
		Address:             in.Address,
		LegalPerson:         in.LegalPerson,
		UnifiedCreditCode:   in.UnifiedCreditCode,
		RegistrationCapital: in.RegistrationCapital,
		TeamSize:            in.TeamSize,
		MonthlyCapacity:     in.MonthlyCapacity,
		ServiceRegions:      in.ServiceRegions,
		BusinessScope:       in.BusinessScope,
		DisposalTypes:       in.DisposalTypes,
		SettlementMethods:   in.SettlementMethods,
		Description:         in.Description,
		AuditStatus:         organization.AuditPending,
	}
	if err := u.repo.Create(ctx, o); err != nil {
		return nil, err
	}
	return toDTO(o), nil
}

func (u *Usecase) Get(ctx context.Context, id uint64) (*OrgDTO, error) {
	o, err := u.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDTO(o), nil
}

func (u *Usecase) Update(ctx context.Context, id uint64, in UpdateInput) (*OrgDTO, error) {
	o, err := u.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != "" && in.Name != o.Name {
		exists, err := u.repo.ExistsByName(ctx, in.Name, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperr.ErrOrgAlreadyExists
		}
		o.Name = in.Name
	}
	if in.ContactPerson != "" {
		o.ContactPerson = in.ContactPerson
	}
	if in.ContactPhone != "" {
		o.ContactPhone = in.ContactPhone
	}
	if in.ContactEmail != "" {
		o.ContactEmail = in.ContactEmail
	}
	if in.Address != "" {
		o.Address = in.Address
	}
	if in.TeamSize != nil {
		o.TeamSize = in.TeamSize
	}
	if in.MonthlyCapacity != nil {
		o.MonthlyCapacity = in.MonthlyCapacity
	}
	if in.ServiceRegions != "" {
		o.ServiceRegions = in.ServiceRegions
	}
	if in.BusinessScope != "" {
		o.BusinessScope = in.BusinessScope
	}
	if in.DisposalTypes != "" {
		o.DisposalTypes = in.DisposalTypes
	}
	if in.SettlementMethods != "" {
		o.SettlementMethods = in.SettlementMethods
	}
	if in.Description != "" {
		o.Description = in.Description
	}

	if err := u.repo.Save(ctx, o); err != nil {
		return nil, err
	}
	return toDTO(o), nil
}

// Audit resolves a pending registration. Approval activates the org.
func (u *Usecase) Audit(ctx context.Context, id uint64, in AuditInput) (*OrgDTO, error) {
	o, err := u.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.AuditStatus != organization.AuditPending {
		return nil, apperr.ErrInvalidParameter.WithMessage("organization already audited")
	}

	now := u.now().UTC()
	o.AuditComment = in.Comment
	o.AuditTime = &now
	o.AuditBy = &in.AuditorID
	if in.Approved {
		o.AuditStatus = organization.AuditApproved
		o.Status = organization.StatusActive
	} else {
		o.AuditStatus = organization.AuditRejected
		o.Status = organization.StatusRejected
	}

	if err := u.repo.Save(ctx, o); err != nil {
		return nil, err
	}
	return toDTO(o), nil
}

// Suspend blocks an active org from taking new work.
func (u *Usecase) Suspend(ctx context.Context, id uint64) error {
	o, err := u.get(ctx, id)
	if err != nil {
		return err
	}
	if !o.IsActive() {
		return apperr.ErrOrgNotApproved
	}
	o.Status = organization.StatusSuspended
	return u.repo.Save(ctx, o)
}

func (u *Usecase) Resume(ctx context.Context, id uint64) error {
	o, err := u.get(ctx, id)
	if err != nil {
		return err
	}
	if o.Status != organization.StatusSuspended {
		return apperr.ErrInvalidParameter.WithMessage("organization is not suspended")
	}
	o.Status = organization.StatusActive
	return u.repo.Save(ctx, o)
}

func (u *Usecase) Delete(ctx context.Context, id uint64) error {
	o, err := u.get(ctx, id)
	if err != nil {
		return err
	}
	o.Deleted = true
	return u.repo.Save(ctx, o)
}

func (u *Usecase) List(ctx context.Context, f organization.ListFilter) ([]OrgDTO, int64, error) {
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
	out := make([]OrgDTO, 0, len(items))
	for i := range items {
		out = append(out, *toDTO(&items[i]))
	}
	return out, total, nil
}

func (u *Usecase) ListActiveDisposal(ctx context.Context) ([]OrgDTO, error) {
	items, err := u.repo.ListActiveDisposal(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]OrgDTO, 0, len(items))
	for i := range items {
		out = append(out, *toDTO(&items[i]))
	}
	return out, nil
}

// ListDisposalByRegion narrows active disposal orgs to those serving a region.
func (u *Usecase) ListDisposalByRegion(ctx context.Context, region string) ([]OrgDTO, error) {
	items, err := u.repo.ListDisposalByRegion(ctx, region)
	if err != nil {
		return nil, err
	}
	out := make([]OrgDTO, 0, len(items))
	for i := range items {
		out = append(out, *toDTO(&items[i]))
	}
	return out, nil
}

func (u *Usecase) CountPendingAudit(ctx context.Context) (int64, error) {
	return u.repo.CountPendingAudit(ctx)
}

// NameAvailable reports whether an organization name is unused.
func (u *Usecase) NameAvailable(ctx context.Context, name string) (bool, error) {
	exists, err := u.repo.ExistsByName(ctx, name, 0)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// CreditCodeAvailable reports whether a unified social credit code is unused.
func (u *Usecase) CreditCodeAvailable(ctx context.Context, code string) (bool, error) {
	exists, err := u.repo.ExistsByUnifiedCreditCode(ctx, code, 0)
	if err != nil {
		return false, err
	}
	return !exists, nil
}

// UploadLicense stores the business license file and records its path.
func (u *Usecase) UploadLicense(ctx context.Context, id uint64, fh *multipart.FileHeader) (*OrgDTO, error) {
	return u.attach(ctx, id, fh, func(o *organization.Organization, path string) {
		o.BusinessLicense = path
	})
}

// UploadContract stores the cooperation contract and records its path.
func (u *Usecase) UploadContract(ctx context.Context, id uint64, fh *multipart.FileHeader) (*OrgDTO, error) {
	return u.attach(ctx, id, fh, func(o *organization.Organization, path string) {
		o.ContractFile = path
	})
}

func (u *Usecase) attach(ctx context.Context, id uint64, fh *multipart.FileHeader, set func(*organization.Organization, string)) (*OrgDTO, error) {
	o, err := u.get(ctx, id)
	if err != nil {
		return nil, err
	}
	path, err := u.files.SaveDocument(fh)
	if err != nil {
		return nil, err
	}
	set(o, path)
	if err := u.repo.Save(ctx, o); err != nil {
		return nil, err
	}
	return toDTO(o), nil
}

func (u *Usecase) get(ctx context.Context, id uint64) (*organization.Organization, error) {
	o, err := u.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrOrgNotFound
		}
		return nil, err
	}
	return o, nil
}
