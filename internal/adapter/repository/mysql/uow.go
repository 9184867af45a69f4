package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"drmp-backend/internal/domain/casepkg"
	"drmp-backend/internal/domain/uow"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(uow.Repos{
			Cases:    &CaseRepository{db: tx},
			Packages: &CasePackageRepository{db: tx},
		})
	})
}

func (u *GormUoW) WithinPackageTx(ctx context.Context, packageID uint64, fn func(r uow.Repos, p *casepkg.CasePackage) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := uow.Repos{
			Cases:    &CaseRepository{db: tx},
			Packages: &CasePackageRepository{db: tx},
		}
		// lock the package row up-front to prevent races; sqlite (tests)
		// has no FOR UPDATE, its writes serialize anyway
		q := tx
		if tx.Dialector.Name() == "mysql" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var p casepkg.CasePackage
		if err := q.Where("deleted = ? AND id = ?", false, packageID).
			First(&p).Error; err != nil {
			return err
		}
		return fn(r, &p)
	})
}
