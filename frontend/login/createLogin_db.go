package login

import (
	"context"
	"database/sql"
	"time"

	"github.com/uptrace/bun"

	"nanokiosk/infrastructure/sqlite"
	"nanokiosk/models"
)

func persistSession(ctx context.Context, db *sqlite.DB, session models.Session) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		now := time.Now()
		session.CreatedAt = now
		session.UpdatedAt = now
		_, err := tx.NewInsert().Model(&session).Exec(ctx)
		return err
	})
}

// LoadSessionByToken loads a session row by its token. Returns sql.ErrNoRows
// when the token is unknown.
func LoadSessionByToken(ctx context.Context, db *sqlite.DB, token string) (models.Session, error) {
	var session models.Session
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&session).Where("s.id = ?", token).Scan(ctx)
	})
	if err != nil {
		return models.Session{}, err
	}
	if session.ID == "" {
		return models.Session{}, sql.ErrNoRows
	}
	return session, nil
}

// UpdateSession rewrites a session row, bumping updated_at.
func UpdateSession(ctx context.Context, db *sqlite.DB, session models.Session) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		session.UpdatedAt = time.Now()
		_, err := tx.NewUpdate().Model(&session).WherePK().Exec(ctx)
		return err
	})
}

// DeleteSessionByToken removes a session row.
func DeleteSessionByToken(ctx context.Context, db *sqlite.DB, token string) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().Model((*models.Session)(nil)).Where("id = ?", token).Exec(ctx)
		return err
	})
}
