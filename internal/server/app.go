// Package server wires the blog together: it picks the repository and media
// backends from the configuration, builds the services and runs the HTTP
// API until the process is asked to stop.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/logging"
	"github.com/dmitrijs2005/gophblog/internal/server/auth"
	"github.com/dmitrijs2005/gophblog/internal/server/config"
	"github.com/dmitrijs2005/gophblog/internal/server/httpapi"
	"github.com/dmitrijs2005/gophblog/internal/server/media"
	"github.com/dmitrijs2005/gophblog/internal/server/metrics"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophblog/internal/server/services"
)

const ephemeralKeySize = 32

// Seams for tests.
var (
	logOutput    io.Writer = os.Stdout
	openPostgres           = func(ctx context.Context, dsn string) (repomanager.RepositoryManager, error) {
		return repomanager.OpenPostgres(ctx, dsn)
	}
	newS3Storage = func(ctx context.Context, c media.S3Config) (*media.S3Storage, error) {
		return media.NewS3Storage(ctx, c)
	}
)

// ginMode keeps gin's route dump and warnings for debug logging only.
func ginMode(logLevel string) string {
	if strings.EqualFold(strings.TrimSpace(logLevel), "debug") {
		return gin.DebugMode
	}
	return gin.ReleaseMode
}

type App struct {
	config *config.Config
	logger logging.Logger
	repos  repomanager.RepositoryManager
	server *httpapi.HTTPServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(logOutput, c.LogLevel)
	gin.SetMode(ginMode(c.LogLevel))

	secret := []byte(c.SecretKey)
	if len(secret) == 0 {
		secret = common.GenerateRandByteArray(ephemeralKeySize)
		if secret == nil {
			return nil, fmt.Errorf("generate signing key: random source failed")
		}
		logger.Warn(ctx, "no secret key configured; using an ephemeral one, sessions will not survive a restart")
	}

	repos, err := openRepositories(ctx, c, logger)
	if err != nil {
		return nil, err
	}

	opts := httpapi.Options{
		CookieName:    c.CookieName,
		CookieSecure:  c.CookieSecure,
		CORSOrigin:    c.CORSOrigin,
		MaxUploadSize: c.MaxUploadSize,
	}

	var storage media.Storage
	switch c.UploadBackend {
	case config.UploadBackendS3:
		s3s, err := newS3Storage(ctx, media.S3Config{
			Region:       c.S3Region,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			BaseEndpoint: c.S3BaseEndpoint,
			Bucket:       c.S3Bucket,
		})
		if err != nil {
			_ = repos.Close()
			return nil, fmt.Errorf("media init error: %w", err)
		}
		storage, opts.CoverSigner = s3s, s3s
	case config.UploadBackendLocal:
		local, err := media.NewLocalStorage(c.UploadDir)
		if err != nil {
			_ = repos.Close()
			return nil, fmt.Errorf("media init error: %w", err)
		}
		storage, opts.UploadDir = local, local.Dir()
	default:
		_ = repos.Close()
		return nil, fmt.Errorf("unknown upload backend %q", c.UploadBackend)
	}

	issuer := auth.NewIssuer(secret, auth.WithTTL(c.TokenTTL))
	as := services.NewAccountService(repos, auth.NewHasher(c.PasswordHashCost), issuer, logger)
	ps := services.NewPostService(repos, storage, c.ListLimit, logger)

	srv := httpapi.NewHTTPServer(c.EndpointAddrHTTP, logger, as, ps, auth.NewResolver(issuer), metrics.New(), opts)

	return &App{config: c, logger: logger, repos: repos, server: srv}, nil
}

func openRepositories(ctx context.Context, c *config.Config, logger logging.Logger) (repomanager.RepositoryManager, error) {
	if c.DatabaseDSN == config.MemoryDSN {
		logger.Warn(ctx, "using the in-memory store; data is lost on exit")
		return repomanager.NewInMemoryRepositoryManager(), nil
	}

	repos, err := openPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := repos.RunMigrations(ctx); err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}
	return repos, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run serves until ctx is cancelled or a termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var (
		wg     sync.WaitGroup
		runErr error
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			runErr = err
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "close repositories", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
	return runErr
}
