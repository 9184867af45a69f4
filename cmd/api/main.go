package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	httpadp "drmp-backend/internal/adapter/http"
	"drmp-backend/internal/adapter/repository/mysql"
	"drmp-backend/internal/config"
	"drmp-backend/internal/infrastructure/cache"
	"drmp-backend/internal/infrastructure/db"
	"drmp-backend/internal/infrastructure/storage"
	authuc "drmp-backend/internal/usecase/auth"
	"drmp-backend/internal/usecase/casepkg"
	"drmp-backend/internal/usecase/cases"
	orguc "drmp-backend/internal/usecase/organization"
	useruc "drmp-backend/internal/usecase/user"
	"drmp-backend/pkg/crypto"
	"drmp-backend/pkg/workerpool"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid configuration", zap.Error(err))
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		logger.Fatal("mysql connect", zap.Error(err))
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		logger.Fatal("redis connect", zap.Error(err))
	}
	defer func() { _ = rdb.Close() }()

	files, err := storage.NewLocal(cfg.UploadDir, cfg.MaxUploadSize)
	if err != nil {
		logger.Fatal("upload dir", zap.Error(err))
	}

	cipher, err := crypto.NewCipher(cfg.EncryptionKey)
	if err != nil {
		logger.Fatal("encryption key", zap.Error(err))
	}

	caseRepo := mysql.NewCaseRepository(gdb)
	pkgRepo := mysql.NewCasePackageRepository(gdb)
	orgRepo := mysql.NewOrganizationRepository(gdb)
	userRepo := mysql.NewUserRepository(gdb)
	roleRepo := mysql.NewRoleRepository(gdb)
	uow := mysql.NewGormUoW(gdb)

	pool := workerpool.New(cfg.ImportWorkers, cfg.ImportQueueSize)
	defer pool.Shutdown()

	caseUC := cases.NewUsecase(caseRepo, orgRepo, uow, cipher)
	pkgUC := casepkg.NewUsecase(pkgRepo, uow)
	importer := casepkg.NewImporter(pkgRepo, uow, cipher, pool, logger, cfg.ImportTimeout)
	authUC := authuc.NewUsecase(userRepo, orgRepo, rdb, cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	orgUC := orguc.NewUsecase(orgRepo, files)
	userUC := useruc.NewUsecase(userRepo, roleRepo)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// fail imports that died mid-flight (crashed worker, restart)
	go importer.RunSweeper(ctx, 10*time.Minute)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	httpadp.Routes{
		Health:        httpadp.NewHandler(),
		Auth:          httpadp.NewAuthHandler(authUC),
		Cases:         httpadp.NewCaseHandler(caseUC),
		CasePackages:  httpadp.NewCasePackageHandler(pkgUC, importer, files),
		Organizations: httpadp.NewOrganizationHandler(orgUC),
		Users:         httpadp.NewUserHandler(userUC),
		AuthUsecase:   authUC,
		UserRepo:      userRepo,
		Redis:         rdb,
	}.Register(e)

	go func() {
		addr := ":" + cfg.AppPort
		logger.Info("listening", zap.String("addr", addr))
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
