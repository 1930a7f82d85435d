package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Session is the local kiosk session issued after a successful operator login.
// It carries the remote auth token plus the per-order context the scan screens
// key off (current order/tray/stay time).
type Session struct {
	bun.BaseModel `bun:"table:sessions,alias:s"`

	ID        string    `bun:"id,pk"`
	UserID    string    `bun:"user_id,notnull"`
	Username  string    `bun:"username,notnull"`
	UserRole  string    `bun:"user_role,notnull"`
	AuthToken string    `bun:"auth_token,notnull"`
	ExpiresAt time.Time `bun:"expires_at,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`

	// Ephemeral order context, set at bin confirmation.
	CurrentOrderID string `bun:"current_order_id"`
	CurrentTrayID  string `bun:"current_tray_id"`
	CurrentUserID  string `bun:"current_user_id"`
	TrayStayTime   string `bun:"tray_stay_time"`
	CurrentFlow    string `bun:"current_flow"`

	AdminUnlocked bool `bun:"admin_unlocked,notnull,default:false"`
}

// Expired returns true when the session expiry time has passed.
func (s Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Setting is a kiosk-local key/value setting (admin PIN hash, station name).
type Setting struct {
	bun.BaseModel `bun:"table:settings,alias:st"`

	Key       string    `bun:"key,pk"`
	Value     string    `bun:"value,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// AuditLog captures immutable change history for key kiosk operations.
type AuditLog struct {
	bun.BaseModel `bun:"table:audit_logs,alias:al"`

	ID         int64     `bun:"id,pk,autoincrement"`
	UserID     string    `bun:"user_id,notnull"`
	Action     string    `bun:"action,notnull"`
	EntityType string    `bun:"entity_type,notnull"`
	EntityID   string    `bun:"entity_id,notnull"`
	BeforeJSON string    `bun:"before_json"`
	AfterJSON  string    `bun:"after_json"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
