package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/example/staybook/internal/application"
	"github.com/example/staybook/internal/calendar"
	"github.com/example/staybook/internal/commands"
	"github.com/example/staybook/internal/config"
	httptransport "github.com/example/staybook/internal/http"
	"github.com/example/staybook/internal/logging"
	"github.com/example/staybook/internal/persistence/sqlite"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "create-account" {
		commands.CreateAccount(os.Args[2:])
		return
	}

	configPath := flag.String("config", "", "Path to the YAML configuration file")
	flag.Parse()

	logger := logging.NewLogger(slog.LevelInfo)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Error("failed to load timezone", "timezone", cfg.Timezone, "error", err)
		os.Exit(1)
	}

	storage, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	idGenerator := uuid.NewString
	tokenGenerator := func() string { return randomHex(32) }
	now := time.Now

	unitRepo := sqlite.NewUnitRepository(storage)
	reservationRepo := sqlite.NewReservationRepository(storage)
	accountRepo := sqlite.NewAccountRepository(storage)
	sessionRepo := sqlite.NewSessionRepository(storage)
	blockRuleRepo := sqlite.NewBlockRuleRepository(storage)

	normalizer := calendar.NewNormalizer(location)

	unitService := application.NewUnitServiceWithLogger(unitRepo, idGenerator, now, logger)
	reservationService := application.NewReservationServiceWithLogger(reservationRepo, unitRepo, normalizer, idGenerator, now, logger)
	authService := application.NewAuthServiceWithLogger(accountRepo, sessionRepo, nil, tokenGenerator, now, cfg.SessionTTL, logger)
	calendarService := application.NewCalendarService(application.CalendarServiceConfig{
		Units:        unitRepo,
		Reservations: reservationRepo,
		BlockRules:   blockRuleRepo,
		Normalizer:   normalizer,
		Geometry:     calendar.DefaultGeometry,
		IDGenerator:  idGenerator,
		Now:          now,
		Logger:       logger,
	})
	calendarService.SetDefaultHours(cfg.CheckInHour, cfg.CheckOutHour)
	reservationService.SetChangeListener(calendarService.Invalidate)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:         httptransport.NewAuthHandler(authService, logger),
		Units:        httptransport.NewUnitHandler(unitService, logger),
		Reservations: httptransport.NewReservationHandler(reservationService, logger),
		Calendar:     httptransport.NewCalendarHandler(calendarService, location, logger),
	})

	protected := httptransport.RequireSession(authService, logger)(router)
	handler := httptransport.RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Login is the only endpoint reachable without a session.
		if r.URL.Path == "/sessions" {
			router.ServeHTTP(w, r)
			return
		}
		protected.ServeHTTP(w, r)
	}))

	ticker := cron.New()
	if _, err := ticker.AddFunc(cfg.TickCron, func() {
		pruned, err := authService.PruneExpiredSessions(context.Background())
		if err != nil {
			logger.Error("failed to prune expired sessions", "error", err)
			return
		}
		if pruned > 0 {
			logger.Info("pruned expired sessions", "count", pruned)
		}
	}); err != nil {
		logger.Error("failed to schedule maintenance tick", "cron", cfg.TickCron, "error", err)
		os.Exit(1)
	}
	ticker.Start()
	defer ticker.Stop()

	server := &http.Server{
		Addr:              cfg.Listen,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("staybook API listening", "addr", server.Addr, "timezone", cfg.Timezone)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

func randomHex(bytes int) string {
	if bytes <= 0 {
		bytes = 16
	}
	buf := make([]byte, bytes)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}
