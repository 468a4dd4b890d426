package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/shift-scheduler/internal/application"
	"github.com/example/shift-scheduler/internal/config"
	httptransport "github.com/example/shift-scheduler/internal/http"
	"github.com/example/shift-scheduler/internal/persistence/sqlite"
	"github.com/example/shift-scheduler/internal/sched"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Local development keeps its settings in a .env file; a missing file
	// just means the real environment is used.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	employees := sqlite.NewEmployeeStore(db)
	shifts := sqlite.NewShiftStore(db)
	configs := sqlite.NewConfigStore(db)
	directory := sqlite.NewCredentialDirectory(db)

	if cfg.AdminEmail != "" {
		if err := bootstrapAdmin(ctx, cfg, employees, configs, directory, logger); err != nil {
			logger.Error("failed to bootstrap admin account", "error", err)
			os.Exit(1)
		}
	}

	authService := application.NewAuthService(directory, []byte(cfg.SessionSecret), cfg.SessionTTL, time.Now, logger)
	calendarService := application.NewCalendarService(employees, shifts, configs, logger)

	hub := httptransport.NewHub(logger, time.Now)
	go hub.Run(ctx)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:      httptransport.NewAuthHandler(authService, cfg.SessionTTL, logger),
		Employees: httptransport.NewEntityHandler("employees", employees, nil, hub, logger),
		Shifts:    httptransport.NewShiftHandler(shifts, hub, logger),
		Configs:   httptransport.NewEntityHandler("settings", configs, application.ValidateViewConfig, hub, logger),
		Calendar:  httptransport.NewCalendarHandler(calendarService, logger),
		Hub:       hub,
		Verifier:  authService,
		Logger:    logger,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
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

	logger.Info("sched API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

// bootstrapAdmin seeds the first admin account on an empty database so the
// service is reachable before anyone can log in to create accounts. A
// populated employee table means setup already happened.
func bootstrapAdmin(ctx context.Context, cfg config.Config, employees *sqlite.EmployeeStore, configs *sqlite.ConfigStore, directory *sqlite.CredentialDirectory, logger *slog.Logger) error {
	existing, err := employees.Get(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	admin, err := employees.Add(ctx, sched.Employee{
		Email:        cfg.AdminEmail,
		Level:        sched.LevelAdmin,
		First:        "Admin",
		DefaultColor: sched.ColorLightBlue,
	})
	if err != nil {
		return err
	}

	viewCfg, err := configs.Add(ctx, sched.DefaultViewConfig(0, admin.ID))
	if err != nil {
		return err
	}

	admin.ActiveConfig = &viewCfg.ID
	if _, err := employees.Update(ctx, admin); err != nil {
		return err
	}

	hash, err := application.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	if err := directory.SetPassword(ctx, admin.ID, hash); err != nil {
		return err
	}

	logger.Info("bootstrapped admin account", "email", cfg.AdminEmail, "employee_id", admin.ID)
	return nil
}
