package admin

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"nanokiosk/infrastructure/argon"
	"nanokiosk/infrastructure/sqlite"
	"nanokiosk/models"
)

const adminPINKey = "admin_pin_hash"

// DefaultAdminPIN is seeded on first boot; operators are expected to change it.
const DefaultAdminPIN = "0000"

func getSetting(ctx context.Context, db *sqlite.DB, key string) (string, error) {
	var setting models.Setting
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&setting).Where("st.key = ?", key).Scan(ctx)
	})
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}

func setSetting(ctx context.Context, db *sqlite.DB, key, value string) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		setting := &models.Setting{Key: key, Value: value, UpdatedAt: time.Now()}
		_, err := tx.NewInsert().Model(setting).
			On("CONFLICT (key) DO UPDATE").
			Set("value = EXCLUDED.value").
			Set("updated_at = EXCLUDED.updated_at").
			Exec(ctx)
		return err
	})
}

// EnsureAdminPIN seeds the default PIN hash when none is stored yet.
func EnsureAdminPIN(ctx context.Context, db *sqlite.DB) error {
	_, err := getSetting(ctx, db, adminPINKey)
	if err == nil {
		return nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	hash, err := argon.CreateHash(DefaultAdminPIN, argon.DefaultParams)
	if err != nil {
		return err
	}
	return setSetting(ctx, db, adminPINKey, hash)
}

// VerifyAdminPIN compares a submitted PIN against the stored hash.
func VerifyAdminPIN(ctx context.Context, db *sqlite.DB, pin string) (bool, error) {
	hash, err := getSetting(ctx, db, adminPINKey)
	if err != nil {
		return false, err
	}
	return argon.CompareSecretAndHash(pin, hash)
}

// SetAdminPIN replaces the stored PIN hash.
func SetAdminPIN(ctx context.Context, db *sqlite.DB, pin string) error {
	hash, err := argon.CreateHash(pin, argon.DefaultParams)
	if err != nil {
		return err
	}
	return setSetting(ctx, db, adminPINKey, hash)
}
