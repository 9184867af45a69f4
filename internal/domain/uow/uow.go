package uow

import (
	"context"

	"drmp-backend/internal/domain/casepkg"
	"drmp-backend/internal/domain/cases"
)

type Repos struct {
	Cases    cases.Repository
	Packages casepkg.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: load and lock the package row first, then pass it in
	WithinPackageTx(ctx context.Context, packageID uint64, fn func(r Repos, p *casepkg.CasePackage) error) error
}
