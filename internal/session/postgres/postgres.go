// Package postgres is implementation of the session store backed by postgres.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/ugsbrasil/sharetrack/internal/entities"
	"github.com/ugsbrasil/sharetrack/internal/health"
	"github.com/ugsbrasil/sharetrack/internal/session"
)

var log = logrus.WithField("layer", "session").WithField("package", "postgres")

const invalidTextRepresentation = "22P02"

type pg struct {
	health.Pinger

	db *sqlx.DB
}

type sessionDTO struct {
	ID        string    `db:"id"`
	UserID    uint64    `db:"user_id"`
	Username  string    `db:"username"`
	Role      string    `db:"role"`
	Tab       string    `db:"tab"`
	ExpiresAt time.Time `db:"expires_at"`
}

// New returns new instance of pg.
func New(db *sql.DB) session.Store {
	return pg{
		Pinger: health.SubjectPinger("postgres", db.PingContext),
		db:     sqlx.NewDb(db, "postgres"),
	}
}

func (s pg) Get(ctx context.Context, id string) (*session.Session, error) {
	var v sessionDTO

	if err := sqlx.GetContext(ctx, s.db, &v, `
		SELECT id, user_id, username, role, tab, expires_at
		FROM session
		WHERE id = $1 AND expires_at > NOW()
	`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, session.ErrNotFound
		}

		// malformed ids never match a uuid column
		if err, ok := err.(*pq.Error); ok && err.Code == invalidTextRepresentation {
			return nil, session.ErrNotFound
		}

		return nil, fmt.Errorf("failed to query: %w", err)
	}

	return &session.Session{
		ID: v.ID,
		User: entities.User{
			ID:       v.UserID,
			Username: v.Username,
			Role:     entities.Role(v.Role),
		},
		Tab:       v.Tab,
		ExpiresAt: v.ExpiresAt,
	}, nil
}

func (s pg) Save(ctx context.Context, v *session.Session) error {
	if _, err := sqlx.NamedExecContext(ctx, s.db, `
		INSERT INTO session (id, user_id, username, role, tab, expires_at)
		VALUES (:id, :user_id, :username, :role, :tab, :expires_at)
		ON CONFLICT (id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			username = EXCLUDED.username,
			role = EXCLUDED.role,
			tab = EXCLUDED.tab,
			expires_at = EXCLUDED.expires_at
	`, sessionDTO{
		ID:        v.ID,
		UserID:    v.User.ID,
		Username:  v.User.Username,
		Role:      string(v.User.Role),
		Tab:       v.Tab,
		ExpiresAt: v.ExpiresAt,
	}); err != nil {
		return fmt.Errorf("failed to exec: %w", err)
	}

	return nil
}

func (s pg) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE id = $1`, id); err != nil {
		if err, ok := err.(*pq.Error); ok && err.Code == invalidTextRepresentation {
			return nil
		}

		return fmt.Errorf("failed to exec: %w", err)
	}

	return nil
}

func (s pg) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE expires_at <= $1`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to exec: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		log.WithError(err).Error("failed to get affected rows")
		return 0, nil
	}

	return n, nil
}
