//+build integration

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	m "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/ugsbrasil/sharetrack/internal/entities"
	"github.com/ugsbrasil/sharetrack/internal/session"
)

var (
	db  *sql.DB
	ctx = context.Background()
	s   session.Store
)

func TestMain(m *testing.M) {
	shutdown := setup()

	s = New(db)

	code := m.Run()
	shutdown()
	os.Exit(code)
}

func setup() func() {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:12",
		Env:          map[string]string{"POSTGRES_PASSWORD": "root"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp"),
	}
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
	})
	if err != nil {
		logrus.WithError(err).Fatalf("failed to create container")
	}

	if err := c.Start(ctx); err != nil {
		logrus.WithError(err).Fatal("failed to start container")
	}

	host, err := c.Host(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("failed to get host")
	}

	port, err := c.MappedPort(ctx, "5432")
	if err != nil {
		logrus.WithError(err).Fatal("failed to map port")
	}

	dsn := fmt.Sprintf("host=%s port=%d user=postgres password=root sslmode=disable", host, port.Int())

	db, err = sql.Open("postgres", dsn)
	if err != nil {
		logrus.WithError(err).Fatal("failed to open connection")
	}

	if err := db.Ping(); err != nil {
		logrus.WithError(err).Fatal("failed to ping postgres")
	}

	shutdownFn := func() {
		if c != nil {
			c.Terminate(ctx)
		}
	}

	migrate("postgres", "root", host, "postgres", port.Int())

	return shutdownFn
}

func migrate(username, password, hostname, dbname string, port int) {
	_, currFile, _, ok := runtime.Caller(0)
	if !ok {
		logrus.Fatal("failed to get current file location")
	}

	migrations := filepath.Join(currFile, "../../../../scripts/migrations/postgres/")

	migrator, err := m.New(
		fmt.Sprintf("file://%s", migrations),
		fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
			username, password, hostname, port, dbname),
	)
	if err != nil {
		logrus.WithError(err).Fatal("failed to create migrator")
	}
	defer migrator.Close()

	if err := migrator.Up(); err != nil {
		logrus.WithError(err).Fatal("failed to migrate")
	}
}

func cleanup(t *testing.T) {
	_, err := db.ExecContext(ctx, `DELETE FROM session`)
	require.NoError(t, err)
}

func TestPg_Ping(t *testing.T) {
	require.NoError(t, s.Ping(ctx))
}

func TestPg_SaveGet(t *testing.T) {
	defer cleanup(t)

	now := time.Now().UTC().Truncate(time.Microsecond)
	v := session.New(entities.User{ID: 3, Username: "ana", Role: entities.EmployeeRole}, now, time.Hour)
	v.Tab = "goals"

	require.NoError(t, s.Save(ctx, v))

	got, err := s.Get(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, v.ID, got.ID)
	assert.Equal(t, v.User, got.User)
	assert.Equal(t, "goals", got.Tab)
	assert.True(t, v.ExpiresAt.Equal(got.ExpiresAt))

	v.Tab = "ranking"
	v.Touch(now, 2*time.Hour)
	require.NoError(t, s.Save(ctx, v))

	got, err = s.Get(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, "ranking", got.Tab)
	assert.True(t, v.ExpiresAt.Equal(got.ExpiresAt))
}

func TestPg_Get_NotFound(t *testing.T) {
	defer cleanup(t)

	_, err := s.Get(ctx, "b5b1c1c8-2a48-4f5b-9f4e-35ad47a3dbb3")
	assert.True(t, errors.Is(err, session.ErrNotFound))

	_, err = s.Get(ctx, "malformed")
	assert.True(t, errors.Is(err, session.ErrNotFound))

	expired := session.New(entities.User{ID: 1, Username: "root", Role: entities.AdminRole}, time.Now().Add(-time.Hour), time.Minute)
	require.NoError(t, s.Save(ctx, expired))

	_, err = s.Get(ctx, expired.ID)
	assert.True(t, errors.Is(err, session.ErrNotFound))
}

func TestPg_Delete(t *testing.T) {
	defer cleanup(t)

	v := session.New(entities.User{ID: 1, Username: "root", Role: entities.AdminRole}, time.Now(), time.Hour)
	require.NoError(t, s.Save(ctx, v))
	require.NoError(t, s.Delete(ctx, v.ID))
	require.NoError(t, s.Delete(ctx, "malformed"))

	_, err := s.Get(ctx, v.ID)
	assert.True(t, errors.Is(err, session.ErrNotFound))
}

func TestPg_DeleteExpired(t *testing.T) {
	defer cleanup(t)

	now := time.Now()
	require.NoError(t, s.Save(ctx, session.New(entities.User{ID: 1}, now, time.Hour)))
	require.NoError(t, s.Save(ctx, session.New(entities.User{ID: 2}, now, time.Minute)))
	require.NoError(t, s.Save(ctx, session.New(entities.User{ID: 3}, now, time.Second)))

	n, err := s.DeleteExpired(ctx, now.Add(time.Minute))
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	var count int
	require.NoError(t, db.QueryRowContext(ctx, `SELECT COUNT(*) FROM session`).Scan(&count))
	assert.Equal(t, 1, count)
}
