package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"team-task-board/internal/config"
	"team-task-board/internal/database"
	"team-task-board/internal/handlers"
	"team-task-board/internal/identity"
	"team-task-board/internal/ledger"
	"team-task-board/internal/notify"
	"team-task-board/internal/realtime"
	"team-task-board/internal/routes"
	"team-task-board/internal/scanner"
	"team-task-board/internal/session"
	"team-task-board/internal/store"

	"github.com/sirupsen/logrus"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Init database
	database.InitDB(cfg.DatabaseURL)
	database.SeedAdmin()

	db := database.GetDB()
	taskStore := store.New(db)
	reminderLedger := ledger.Load(db)
	sessions := session.NewRegistry()
	hub := realtime.NewHub()
	emitter := notify.NewEmitter(
		notify.NewCenter(hub),
		notify.NewHTTPEmailSender(notify.EmailConfig{
			Endpoint:   cfg.EmailEndpoint,
			ServiceID:  cfg.EmailServiceID,
			TemplateID: cfg.EmailTemplateID,
			PublicKey:  cfg.EmailPublicKey,
		}),
	)

	var verifier identity.Verifier = identity.DisabledVerifier{}
	if cfg.GoogleClientID != "" {
		v, err := identity.NewGoogleVerifier(cfg.GoogleJWKSURL, cfg.GoogleClientID)
		if err != nil {
			log.Fatalf("google verifier: %v", err)
		}
		verifier = v
	}

	deadlineScanner := scanner.New(taskStore, reminderLedger, emitter, sessions, cfg.ScanInterval, cfg.ScanBootDelay)
	if err := deadlineScanner.Start(); err != nil {
		log.Fatalf("scanner: %v", err)
	}
	defer deadlineScanner.Stop()

	app := &handlers.App{
		Store:    taskStore,
		Emitter:  emitter,
		Sessions: sessions,
		Verifier: verifier,
		Hub:      hub,
	}

	// Setup the routes (public and protected routes)
	ginRoutes := routes.SetupRoutes(app)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: ginRoutes,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server: ", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	log.Println("Shutdown complete.")
}
