package cliparse

import (
	"errors"
	"flag"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         int
	DatabasePath string
	LogFile      string

	// Secrets
	AdminToken  string
	ConfirmSalt string

	// Backups
	BackupDir      string
	BackupInterval time.Duration
	MaxBackups     int

	// Rate limiting
	SubmitCap    int
	SubmitWindow time.Duration
	DeleteCap    int
	DeleteWindow time.Duration

	// Submission behavior
	DefaultSubmissionLimit int
	FetchTimeout           time.Duration

	// Feature flags
	EnableVoting  bool
	AllowSelfVote bool
}

// ParseFlags validates flags and fills in environment fallbacks. A .env file
// in the working directory is loaded first when present.
func ParseFlags(args []string) (Config, error) {
	// Missing .env is the normal production case.
	_ = godotenv.Load()

	var cfg Config

	fs := flag.NewFlagSet("trackclash", flag.ContinueOnError)

	// Network and storage (can be CLI args or env)
	fs.IntVar(&cfg.Port, "p", 0, "Server port")
	fs.StringVar(&cfg.DatabasePath, "d", "", "SQLite database path")
	fs.StringVar(&cfg.LogFile, "log-file", "", "Rotating log file (empty = stderr)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.AdminToken, "admin-token", "", "Admin token (prefer env)")
	fs.StringVar(&cfg.ConfirmSalt, "confirm-salt", "", "Confirmation handle salt (prefer env)")

	// Backups
	fs.StringVar(&cfg.BackupDir, "backup-dir", "", "Snapshot directory")
	fs.DurationVar(&cfg.BackupInterval, "backup-interval", 0, "Snapshot interval")
	fs.IntVar(&cfg.MaxBackups, "max-backups", 0, "Snapshots to retain")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// Fall back to environment variables
	if cfg.Port == 0 {
		if portStr := os.Getenv("PORT"); portStr != "" {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return Config{}, errors.New("invalid PORT env variable")
			}
			cfg.Port = port
		} else {
			cfg.Port = 3321 // default
		}
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = envOr("DATABASE_PATH", "trackclash.db")
	}
	if cfg.LogFile == "" {
		cfg.LogFile = os.Getenv("LOG_FILE")
	}

	// Secrets - MUST be provided
	if cfg.AdminToken == "" {
		cfg.AdminToken = os.Getenv("ADMIN_TOKEN")
	}
	if cfg.AdminToken == "" {
		return Config{}, errors.New("ADMIN_TOKEN required")
	}

	if cfg.ConfirmSalt == "" {
		cfg.ConfirmSalt = os.Getenv("CONFIRM_SALT")
	}
	if cfg.ConfirmSalt == "" {
		return Config{}, errors.New("CONFIRM_SALT required")
	}

	// Backups
	if cfg.BackupDir == "" {
		cfg.BackupDir = envOr("BACKUP_DIR", "backups")
	}
	if cfg.BackupInterval == 0 {
		interval, err := envDuration("BACKUP_INTERVAL", 24*time.Hour)
		if err != nil {
			return Config{}, err
		}
		cfg.BackupInterval = interval
	}
	if cfg.MaxBackups == 0 {
		n, err := envInt("MAX_BACKUPS", 10)
		if err != nil {
			return Config{}, err
		}
		cfg.MaxBackups = n
	}
	if cfg.MaxBackups < 1 {
		return Config{}, errors.New("MAX_BACKUPS must be at least 1")
	}

	// Rate limits
	var err error
	if cfg.SubmitCap, err = envInt("RATE_LIMIT_SUBMISSIONS", 5); err != nil {
		return Config{}, err
	}
	if cfg.SubmitWindow, err = envDuration("RATE_LIMIT_WINDOW", 60*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.DeleteCap, err = envInt("RATE_LIMIT_DELETIONS", 10); err != nil {
		return Config{}, err
	}
	cfg.DeleteWindow = cfg.SubmitWindow

	// Submission behavior
	if cfg.DefaultSubmissionLimit, err = envInt("DEFAULT_SUBMISSION_LIMIT", 1); err != nil {
		return Config{}, err
	}
	if cfg.DefaultSubmissionLimit < 1 || cfg.DefaultSubmissionLimit > 10 {
		return Config{}, errors.New("DEFAULT_SUBMISSION_LIMIT must be 1-10")
	}
	if cfg.FetchTimeout, err = envDuration("REQUEST_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}

	// Feature flags
	cfg.EnableVoting = envBool("ENABLE_VOTING", true)
	cfg.AllowSelfVote = envBool("ALLOW_SELF_VOTE", false)

	return cfg, nil
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func envInt(name string, fallback int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, errors.New("invalid " + name + " env variable")
	}
	return n, nil
}

// envDuration accepts Go duration strings ("90s", "24h") and, for
// compatibility with older deployments, bare integers meaning seconds.
func envDuration(name string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, errors.New("invalid " + name + " env variable")
	}
	return d, nil
}

func envBool(name string, fallback bool) bool {
	v := os.Getenv(name)
	if v == "" {
		return fallback
	}
	switch v {
	case "1", "t", "true", "TRUE", "True", "yes":
		return true
	default:
		return false
	}
}
