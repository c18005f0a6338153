// Package server initializes and runs the authority server: it opens the
// database, applies migrations, wires the identity services and serves
// them over gRPC until a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/authority/internal/logging"
	"github.com/dmitrijs2005/authority/internal/server/config"
	"github.com/dmitrijs2005/authority/internal/server/mailer"
	"github.com/dmitrijs2005/authority/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/authority/internal/server/secrets"
	"github.com/dmitrijs2005/authority/internal/server/services"
	"github.com/dmitrijs2005/authority/internal/server/staging"

	gs "github.com/dmitrijs2005/authority/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	identity *services.IdentityService
	mailer   mailer.Mailer
}

// newMailer picks the verification delivery configured in c.
func newMailer(ctx context.Context, c *config.Config, l logging.Logger) (mailer.Mailer, error) {
	switch c.Mailer {
	case config.MailerLog, "":
		return mailer.NewLogMailer(l, c.VerifyBaseURL), nil
	case config.MailerS3:
		return mailer.NewS3Mailer(ctx, c)
	default:
		return nil, fmt.Errorf("unknown mailer %q", c.Mailer)
	}
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	level, err := logging.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	logger := logging.NewJSONLogger(os.Stdout, level)

	db, err := repomanager.OpenDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	m, err := newMailer(ctx, c, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("mailer init error: %w", err)
	}

	as := services.NewAccountService(db, rm, logger)
	registry := staging.NewRegistry(secrets.NewRandomGenerator())
	is := services.NewIdentityService(as, registry, logger, c)

	return &App{config: c, logger: logger, db: db, identity: is, mailer: m}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.identity, app.mailer, app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "Stopped")
}
