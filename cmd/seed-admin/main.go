package main

import (
	"context"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/tenfreethrows/freethrows/internal/admin"
	"github.com/tenfreethrows/freethrows/internal/config"
	"github.com/tenfreethrows/freethrows/internal/database"
	"github.com/tenfreethrows/freethrows/internal/logging"
)

func main() {
	// Load environment variables
	envErr := godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)
	if envErr != nil {
		logger.Debug("no .env file found, using environment variables")
	}

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to connect to database", "err", err)
	}
	defer db.Close()

	username := envOr("ADMIN_USERNAME", "admin")
	displayName := envOr("ADMIN_DISPLAY_NAME", "Admin")

	adminToken := os.Getenv("ADMIN_TOKEN")
	if adminToken == "" {
		adminToken = "change-me-in-production"
		logger.Warn("using default admin token; set ADMIN_TOKEN in production")
	}

	roles := []string{"super_admin"}
	allowedIPs := []string{} // empty allows any address
	if ips := os.Getenv("ADMIN_ALLOWED_IPS"); ips != "" {
		for _, ip := range strings.Split(ips, ",") {
			if ip = strings.TrimSpace(ip); ip != "" {
				allowedIPs = append(allowedIPs, ip)
			}
		}
	}

	if err := admin.CreateAdminAccount(ctx, db, username, displayName, adminToken, roles, allowedIPs); err != nil {
		logger.Fatal("failed to create admin account", "err", err)
	}

	logger.Info("admin account created/updated",
		"username", username,
		"display_name", displayName,
		"roles", roles,
		"allowed_ips", allowedIPs,
	)
	logger.Info("log in with POST /api/v1/admin/login", "username", username)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
