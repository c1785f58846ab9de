package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Gren-95/uptime-kama/internal/api"
	"github.com/Gren-95/uptime-kama/internal/checker"
	"github.com/Gren-95/uptime-kama/internal/config"
	"github.com/Gren-95/uptime-kama/internal/notifications"
	"github.com/Gren-95/uptime-kama/internal/storage"
)

// @title           Uptime Kama API
// @version         1.0
// @description     Uptime monitoring service: register HTTP(S) monitors, track status history, get email alerts on transitions.

// @host      localhost:8080
// @BasePath  /
// @schemes   http
func main() {
	log, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	cfg := config.Load()

	db, err := storage.InitDB(cfg.DatabasePath)
	if err != nil {
		log.Fatal("failed to init db", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close db", zap.Error(err))
		}
	}()

	userRepo := storage.NewUserRepo(db)
	monitorRepo := storage.NewMonitorRepo(db)
	checkRepo := storage.NewCheckRepo(db)

	var mailer notifications.Mailer
	if cfg.MailgunAPIKey != "" && cfg.MailgunDomain != "" {
		log.Info("using Mailgun mailer", zap.String("domain", cfg.MailgunDomain))
		mailer = notifications.NewMailgunMailer(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.EmailFrom)
	} else {
		log.Warn("Mailgun not configured, emails will only be logged")
		mailer = notifications.NewLogMailer(log)
	}

	prober := checker.NewProber(cfg.ProbeTimeout)
	recorder := checker.NewRecorder(monitorRepo, checkRepo, log)
	notifier := checker.NewNotifier(userRepo, mailer, log)
	scheduler := checker.NewScheduler(monitorRepo, prober, recorder, notifier, log)

	if err := scheduler.LoadAll(); err != nil {
		log.Error("failed to schedule persisted monitors", zap.Error(err))
	}
	defer scheduler.Shutdown()

	server := &api.Server{
		Monitors:  monitorRepo,
		Checks:    checkRepo,
		Users:     userRepo,
		Scheduler: scheduler,
		Mailer:    mailer,
		Log:       log,
	}

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: api.SetupRouter(server),
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Info("server started", zap.String("addr", cfg.ListenAddr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	<-sigChan
	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error("http shutdown failed", zap.Error(err))
	}

	scheduler.Shutdown()
	log.Info("server stopped")
}
