package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/danielhkuo/trackclash/auth"
	"github.com/danielhkuo/trackclash/backup"
	"github.com/danielhkuo/trackclash/cliparse"
	"github.com/danielhkuo/trackclash/db"
	"github.com/danielhkuo/trackclash/engine"
	"github.com/danielhkuo/trackclash/models"
	"github.com/danielhkuo/trackclash/platforms"
	"github.com/danielhkuo/trackclash/ratelimit"
	"github.com/danielhkuo/trackclash/router"
	"github.com/danielhkuo/trackclash/store"
)

func main() {
	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	// Rotating file logs when LOG_FILE is set, stderr otherwise
	if cfg.LogFile != "" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(&lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}, nil)))
	}

	// Open SQLite database
	st, err := store.Open(cfg.DatabasePath)
	if err != nil {
		slog.Error("database open failed", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	// Apply migrations
	if err := db.Migrate(st.DB()); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}
	if v, dirty, err := db.Version(st.DB()); err == nil {
		slog.Info("Database schema ready", "version", v, "dirty", dirty)
	}

	// Rate limiter
	limiter := ratelimit.New(map[string]ratelimit.Rule{
		models.RateActionSubmit: {Cap: cfg.SubmitCap, Window: cfg.SubmitWindow},
		models.RateActionDelete: {Cap: cfg.DeleteCap, Window: cfg.DeleteWindow},
	})
	defer limiter.Close()

	// The HTTP surface marks contexts as admin after the token check; the
	// engine only asks "is this an admin action by an admin".
	authorize := func(ctx context.Context, _ engine.Actor, _, _ string) bool {
		return auth.IsAdmin(ctx)
	}

	fetcher := platforms.NewHTTPFetcher(cfg.FetchTimeout)
	svcs := router.Services{
		Contests:    engine.NewContestService(st, authorize, cfg.ConfirmSalt, cfg.DefaultSubmissionLimit),
		Submissions: engine.NewSubmissionService(st, limiter, fetcher, engine.NopPoster{}, authorize, cfg.FetchTimeout),
		Votes:       engine.NewVoteService(st, cfg.EnableVoting, cfg.AllowSelfVote),
	}

	// Periodic snapshots with integrity verification
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	scheduler := backup.NewScheduler(st, cfg.BackupDir, cfg.BackupInterval, cfg.MaxBackups)
	go scheduler.Run(ctx)

	// Create router
	mux := router.NewRouter(svcs, st, cfg)

	// Create server
	server := http.Server{
		Handler: mux,
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		cancel()
		server.Close()
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed", "error", err)
	}
}
