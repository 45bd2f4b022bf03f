// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

A .env file in the working directory is loaded before env lookups.

# Required Settings

  - ADMIN_TOKEN (--admin-token): token for admin operations
  - CONFIRM_SALT (--confirm-salt): secret behind delete-confirmation handles

# Optional Settings

  - PORT (-p): server port (default 3321)
  - DATABASE_PATH (-d): SQLite file (default trackclash.db)
  - LOG_FILE (--log-file): rotating log file; empty logs to stderr
  - BACKUP_DIR / BACKUP_INTERVAL / MAX_BACKUPS: snapshot directory,
    cadence (default 24h), and retention count (default 10)
  - RATE_LIMIT_SUBMISSIONS / RATE_LIMIT_WINDOW / RATE_LIMIT_DELETIONS:
    sliding-window caps (defaults 5 per 60s submits, 10 deletes)
  - DEFAULT_SUBMISSION_LIMIT: per-user limit for new contests (default 1)
  - REQUEST_TIMEOUT: metadata fetch bound (default 5s)
  - ENABLE_VOTING / ALLOW_SELF_VOTE: feature flags

Durations accept Go syntax ("90s", "24h") or bare integer seconds.
*/
package cliparse
