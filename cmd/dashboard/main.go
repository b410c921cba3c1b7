package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Decentr-net/logrus/sentry"
	"github.com/go-chi/chi"
	"github.com/golang-migrate/migrate/v4"
	migratep "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jessevdk/go-flags"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ugsbrasil/sharetrack/internal/dashboard"
	"github.com/ugsbrasil/sharetrack/internal/gateway/rest"
	"github.com/ugsbrasil/sharetrack/internal/health"
	"github.com/ugsbrasil/sharetrack/internal/server"
	"github.com/ugsbrasil/sharetrack/internal/session"
	"github.com/ugsbrasil/sharetrack/internal/session/memory"
	"github.com/ugsbrasil/sharetrack/internal/session/postgres"
)

// nolint:lll,gochecknoglobals
var opts = struct {
	Host           string        `long:"http.host" env:"HTTP_HOST" default:"0.0.0.0" description:"IP to listen on"`
	Port           int           `long:"http.port" env:"HTTP_PORT" default:"8080" description:"port to listen on for insecure connections, defaults to a random value"`
	RequestTimeout time.Duration `long:"http.request-timeout" env:"HTTP_REQUEST_TIMEOUT" default:"45s" description:"request processing timeout"`

	APIURL     string        `long:"api.url" env:"API_URL" default:"https://ugsbrasil.com.br/api" description:"tracker api base url"`
	APITimeout time.Duration `long:"api.timeout" env:"API_TIMEOUT" default:"30s" description:"timeout for requests to tracker api"`

	SessionStore    string        `long:"session.store" env:"SESSION_STORE" default:"memory" description:"sessions store" choice:"memory" choice:"postgres"`
	SessionTTL      time.Duration `long:"session.ttl" env:"SESSION_TTL" default:"12h" description:"idle time after which a session expires"`
	SessionSweepInt time.Duration `long:"session.sweep_interval" env:"SESSION_SWEEP_INTERVAL" default:"10m" description:"interval of expired sessions removal"`

	Postgres                   string `long:"postgres" env:"POSTGRES" default:"host=localhost port=5432 user=postgres password=root sslmode=disable" description:"postgres dsn"`
	PostgresMaxOpenConnections int    `long:"postgres.max_open_connections" env:"POSTGRES_MAX_OPEN_CONNECTIONS" default:"0" description:"postgres maximal open connections count, 0 means unlimited"`
	PostgresMaxIdleConnections int    `long:"postgres.max_idle_connections" env:"POSTGRES_MAX_IDLE_CONNECTIONS" default:"5" description:"postgres maximal idle connections count"`
	PostgresMigrations         string `long:"postgres.migrations" env:"POSTGRES_MIGRATIONS" default:"scripts/migrations/postgres" description:"postgres migrations directory"`

	CSRFKey    string `long:"csrf.key" env:"CSRF_KEY" description:"32 bytes key for csrf tokens, random if empty"`
	CSRFSecure bool   `long:"csrf.secure" env:"CSRF_SECURE" description:"serve cookies over https only"`

	GoalsProgress string `long:"goals.progress" env:"GOALS_PROGRESS" default:"period" description:"source of goals progress" choice:"period" choice:"daily"`

	LogLevel  string `long:"log.level" env:"LOG_LEVEL" default:"info" description:"Log level" choice:"debug" choice:"info" choice:"warning" choice:"error"`
	SentryDSN string `long:"sentry.dsn" env:"SENTRY_DSN" description:"sentry dsn"`
}{}

const csrfKeySize = 32

var errTerminated = errors.New("terminated")

func main() {
	parser := flags.NewParser(&opts, flags.Default)
	parser.ShortDescription = "Sharetrack Dashboard"
	parser.LongDescription = "Dashboard of posts, shares and goals of the tracker"

	_, err := parser.Parse()

	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			parser.WriteHelp(os.Stdout)
			os.Exit(0)
		}
		logrus.WithError(err).Fatal("error occurred while parsing flags")
	}

	lvl, _ := logrus.ParseLevel(opts.LogLevel) // err will always be nil
	logrus.SetLevel(lvl)

	logrus.Info("service started")

	if opts.SentryDSN != "" {
		hook, err := sentry.NewHook(sentry.Options{
			Dsn:              opts.SentryDSN,
			AttachStacktrace: true,
			Release:          health.GetVersion(),
			ServerName:       "dashboard",
		}, logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel)

		if err != nil {
			logrus.WithError(err).Fatal("failed to init sentry")
		}

		logrus.AddHook(hook)
	} else {
		logrus.Info("empty sentry dsn")
		logrus.Warn("skip sentry initialization")
	}

	g := rest.New(opts.APIURL, &http.Client{Timeout: opts.APITimeout})
	store := mustGetStore()

	r := chi.NewMux()
	server.SetupRouter(g, store, r, server.Config{
		Timeout:       opts.RequestTimeout,
		SessionTTL:    opts.SessionTTL,
		CSRFKey:       mustGetCSRFKey(),
		SecureCookies: opts.CSRFSecure,
		Dashboard: []dashboard.Option{
			dashboard.WithProgressMode(dashboard.ProgressMode(opts.GoalsProgress)),
		},
	})

	srv := http.Server{
		Addr:    fmt.Sprintf("%s:%d", opts.Host, opts.Port),
		Handler: r,
	}

	ctx, cancel := context.WithCancel(context.Background())

	gr, _ := errgroup.WithContext(ctx)
	gr.Go(func() error {
		return session.RunSweeper(ctx, store, opts.SessionSweepInt)
	})
	gr.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	gr.Go(func() error {
		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

		s := <-sigs

		logrus.Infof("terminating by %s signal", s)

		cancel()

		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logrus.WithError(err).Error("failed to shutdown server")
		}

		return errTerminated
	})

	logrus.Infof("listening on %s", srv.Addr)

	if err := gr.Wait(); err != nil && !errors.Is(err, errTerminated) {
		logrus.WithError(err).Fatal("dashboard unexpectedly closed")
	}
}

func mustGetStore() session.Store {
	if opts.SessionStore == "memory" {
		logrus.Warn("sessions are kept in memory and lost on restart")
		return memory.New()
	}

	return postgres.New(mustGetDB())
}

func mustGetCSRFKey() []byte {
	if opts.CSRFKey != "" {
		if len(opts.CSRFKey) != csrfKeySize {
			logrus.Fatalf("csrf key should be %d bytes long", csrfKeySize)
		}

		return []byte(opts.CSRFKey)
	}

	logrus.Warn("empty csrf key, random one is used: forms are invalidated on restart")

	b := make([]byte, csrfKeySize)
	if _, err := rand.Read(b); err != nil {
		logrus.WithError(err).Fatal("failed to generate csrf key")
	}

	return b
}

func mustGetDB() *sql.DB {
	db, err := sql.Open("postgres", opts.Postgres)
	if err != nil {
		logrus.WithError(err).Fatal("failed to create postgres connection")
	}
	db.SetMaxOpenConns(opts.PostgresMaxOpenConnections)
	db.SetMaxIdleConns(opts.PostgresMaxIdleConnections)

	if err := db.PingContext(context.Background()); err != nil {
		logrus.WithError(err).Fatal("failed to ping postgres")
	}

	driver, err := migratep.WithInstance(db, &migratep.Config{})
	if err != nil {
		logrus.WithError(err).Fatal("failed to create database migrate driver")
	}

	migrator, err := migrate.NewWithDatabaseInstance(fmt.Sprintf("file://%s", opts.PostgresMigrations), "postgres", driver)
	if err != nil {
		logrus.WithError(err).Fatal("failed to create migrator")
	}

	switch v, d, err := migrator.Version(); err {
	case nil:
		logrus.Infof("database version %d with dirty state %t", v, d)
	case migrate.ErrNilVersion:
		logrus.Info("database version: nil")
	default:
		logrus.WithError(err).Fatal("failed to get version")
	}

	switch err := migrator.Up(); err {
	case nil:
		logrus.Info("database was migrated")
	case migrate.ErrNoChange:
		logrus.Info("database is up-to-date")
	default:
		logrus.WithError(err).Fatal("failed to migrate db")
	}

	return db
}
