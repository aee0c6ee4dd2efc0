package admin

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/tenfreethrows/freethrows/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNotFound     = errors.New("admin account not found")
	ErrInvalidToken = errors.New("invalid token")
)

// GetAdminAccount retrieves an admin account by username
func GetAdminAccount(ctx context.Context, db *sqlx.DB, username string) (*models.AdminAccount, error) {
	var acc models.AdminAccount
	err := db.GetContext(ctx, &acc, `SELECT username, display_name, token_hash, roles, allowed_ips, created_at, updated_at FROM admin_accounts WHERE username=$1`, username)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// VerifyAdminToken checks if the provided token matches the stored hash
func VerifyAdminToken(hashedToken, plainToken string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedToken), []byte(plainToken))
	return err == nil
}

// HashToken hashes a plain admin token for storage.
func HashToken(plainToken string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plainToken), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash token: %w", err)
	}
	return string(hashed), nil
}

// CreateAdminAccount creates or updates an admin account (used for seeding)
func CreateAdminAccount(ctx context.Context, db *sqlx.DB, username, displayName, plainToken string, roles, allowedIPs []string) error {
	hashedToken, err := HashToken(plainToken)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO admin_accounts (username, display_name, token_hash, roles, allowed_ips, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (username) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			token_hash = EXCLUDED.token_hash,
			roles = EXCLUDED.roles,
			allowed_ips = EXCLUDED.allowed_ips,
			updated_at = NOW()
	`, username, displayName, hashedToken, pq.Array(roles), pq.Array(allowedIPs))
	if err != nil {
		return fmt.Errorf("upsert admin account: %w", err)
	}
	return nil
}

// ValidateAdminCredentials loads the account and checks its token and
// allowed IPs. An empty allow list admits every address.
func ValidateAdminCredentials(ctx context.Context, db *sqlx.DB, username, token, ip string) (*models.AdminAccount, error) {
	acc, err := GetAdminAccount(ctx, db, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if !VerifyAdminToken(acc.TokenHash, token) {
		return nil, ErrInvalidToken
	}
	if !ipAllowed(acc.AllowedIPs, ip) {
		return nil, fmt.Errorf("address %s not allowed for %s", ip, username)
	}
	return acc, nil
}

func ipAllowed(allowed []string, ip string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == ip {
			return true
		}
	}
	return false
}

// LogAdminAction records an admin action in the audit log
func LogAdminAction(ctx context.Context, db *sqlx.DB, username, ip, route, action string, details map[string]any, success bool) error {
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		detailsJSON = []byte("{}")
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO admin_audit (admin_username, ip, route, action, details, success, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
	`, username, ip, route, action, detailsJSON, success)
	if err != nil {
		return fmt.Errorf("insert admin audit: %w", err)
	}
	return nil
}

// GetAdminAuditLogs retrieves recent admin audit logs, optionally for one admin.
func GetAdminAuditLogs(ctx context.Context, db *sqlx.DB, username string, limit, offset int) ([]models.AdminAudit, error) {
	var logs []models.AdminAudit
	err := db.SelectContext(ctx, &logs, `
		SELECT id, admin_username, ip, route, action, details::TEXT AS details, success, created_at
		FROM admin_audit
		WHERE ($1 = '' OR admin_username = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, username, limit, offset)
	return logs, err
}
