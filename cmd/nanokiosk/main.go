package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"nanokiosk/frontend/admin"
	"nanokiosk/infrastructure/audit"
	"nanokiosk/infrastructure/cache"
	httpserver "nanokiosk/infrastructure/http"
	"nanokiosk/infrastructure/nanostore"
	"nanokiosk/infrastructure/rbac"
	"nanokiosk/infrastructure/sqlite"
	"nanokiosk/infrastructure/userapi"
	"nanokiosk/tracking"
)

func main() {
	_ = godotenv.Load()

	addr := getenv("APP_ADDR", ":8080")
	dbPath := getenv("SQLITE_PATH", "nanokiosk.db")
	nanostoreURL := getenv("NANOSTORE_URL", "http://localhost:9000")
	userServiceURL := getenv("USER_SERVICE_URL", nanostoreURL)

	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := sqlite.ApplyMigrations(context.Background(), db); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}
	if err := admin.EnsureAdminPIN(context.Background(), db); err != nil {
		log.Fatalf("seed admin pin: %v", err)
	}

	sessionCache := cache.NewSessionCache()
	rbacSvc := rbac.New()
	auditSvc := audit.NewService()
	ns := nanostore.NewClient(nanostoreURL)
	users := userapi.NewClient(userServiceURL)
	sessions := tracking.NewRegistry()

	server := httpserver.NewServer(addr, db, sessionCache, rbacSvc, auditSvc, ns, users, sessions)
	if err := server.Start(); err != nil {
		log.Fatalf("start server: %v", err)
	}
	log.Printf("nanokiosk listening on %s", addr)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	if err := server.Stop(); err != nil {
		log.Printf("graceful shutdown error: %v", err)
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
