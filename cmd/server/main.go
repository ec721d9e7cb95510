package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v2"

	"github.com/dtroode/employee-directory/database"
	apicontext "github.com/dtroode/employee-directory/internal/api/http/context"
	"github.com/dtroode/employee-directory/internal/api/http/router"
	"github.com/dtroode/employee-directory/internal/config"
	"github.com/dtroode/employee-directory/internal/logger"
	"github.com/dtroode/employee-directory/internal/metrics"
	"github.com/dtroode/employee-directory/internal/model"
	"github.com/dtroode/employee-directory/internal/password"
	"github.com/dtroode/employee-directory/internal/repository/postgres"
	"github.com/dtroode/employee-directory/internal/server"
	"github.com/dtroode/employee-directory/internal/service"
	"github.com/dtroode/employee-directory/internal/storage/local"
	"github.com/dtroode/employee-directory/internal/storage/minio"
	"github.com/dtroode/employee-directory/internal/token"
	"github.com/dtroode/employee-directory/internal/upload"
)

var (
	buildVersion = "N/A" // set by ldflags
	buildDate    = "N/A" // set by ldflags
	buildCommit  = "N/A" // set by ldflags
)

const shutdownTimeout = 10 * time.Second

func main() {
	app := &cli.App{
		Name:    "employee-directory",
		Usage:   "Employee directory API server",
		Version: buildVersion,
		Action:  serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API (default)",
				Action: serve,
			},
			{
				Name:  "migrate",
				Usage: "Apply database migrations",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "down",
						Usage: "Revert the most recent migration instead",
					},
				},
				Action: migrate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func migrate(c *cli.Context) error {
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}
	logger := logger.New(cfg.LogLevel)

	if c.Bool("down") {
		if err := database.Rollback(c.Context, cfg.Database.DSN); err != nil {
			return err
		}
		logger.Info("rolled back latest migration")
		return nil
	}

	if err := database.Migrate(c.Context, cfg.Database.DSN); err != nil {
		return err
	}
	logger.Info("migrations applied")
	return nil
}

func serve(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT, os.Interrupt)
	defer stop()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	if cfg.HTTP.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewConnection(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("failed to initialize database", "error", err)
	}
	defer db.Close()

	storage, err := newStorage(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to initialize upload storage", "error", err, "provider", cfg.Upload.Provider)
	}

	m := metrics.New()
	uploads := upload.NewManager(storage, cfg.Upload.MaxSize, logger, upload.WithRecorder(m))

	userRepo := postgres.NewUserRepository(db)
	employeeRepo := postgres.NewEmployeeRepository(db)
	tokenManager := token.NewJWT(cfg.JWT.Secret, cfg.JWT.Expire)
	hasher := password.NewBcrypt(cfg.Password.Cost)

	authService := service.NewAuth(userRepo, hasher, tokenManager, logger)
	employeeService := service.NewEmployee(employeeRepo, uploads, logger)

	r := router.New(router.Dependencies{
		AuthService:     authService,
		EmployeeService: employeeService,
		Uploads:         uploads,
		TokenManager:    tokenManager,
		UserStore:       userRepo,
		ContextManager:  apicontext.NewManager(),
		Observer:        m,
		MetricsHandler:  m.Handler(),
		Logger:          logger,
	})
	httpServer := server.NewHTTPServer(r.Register(), fmt.Sprintf(":%s", cfg.HTTP.Port))

	var sl model.SecurityLayer
	if cfg.HTTP.EnableHTTPS {
		sl = server.NewTLSListener(cfg.HTTP.CertFileName, cfg.HTTP.PrivateKeyFileName)
	} else {
		sl = server.NewPlainListener()
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func(s model.Server) {
		defer wg.Done()
		logger.Info("Starting server on", "address", s.Address(), "https", cfg.HTTP.EnableHTTPS)
		if err := s.Start(sl); err != nil {
			logger.Error("failed to start server", "error", err)
			stop()
		}
	}(httpServer)

	logAppVersion()

	<-ctx.Done()
	logger.Info("received interruption signal, shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Stop(shutdownCtx); err != nil {
		logger.Error("error during server shutdown", "error", err, "address", httpServer.Address())
	}

	wg.Wait()
	logger.Info("shutdown complete")
	return nil
}

func newStorage(ctx context.Context, cfg *config.Config) (model.Storage, error) {
	switch cfg.Upload.Provider {
	case config.StorageMinio:
		return minio.Dial(ctx, cfg.Storage.Endpoint, cfg.Storage.AccessKey, cfg.Storage.SecretKey, cfg.Storage.Bucket, cfg.Storage.UseSSL)
	default:
		return local.NewProvider(cfg.Upload.Dir)
	}
}

func logAppVersion() {
	tmpl := `
Build version: %s
Build date: %s
Build commit: %s
`

	fmt.Printf(tmpl, buildVersion, buildDate, buildCommit)
}
