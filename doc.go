// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Trackclash API server.

Trackclash runs time-boxed music contests: users submit AI-generated tracks
from supported platforms, submissions are shown anonymously, and votes
decide a leaderboard once the contest enters its voting phase.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	ADMIN_TOKEN=... CONFIRM_SALT=... go run main.go

Or with flags:

	go run main.go -p 3321 -d trackclash.db --admin-token ... --confirm-salt ...

# Configuration

Required settings:

  - ADMIN_TOKEN (--admin-token): Token for admin operations
  - CONFIRM_SALT (--confirm-salt): Secret behind delete-confirmation handles

Optional settings:

  - PORT (-p): Server port (default: 3321)
  - DATABASE_PATH (-d): SQLite database file (default: trackclash.db)
  - BACKUP_DIR / BACKUP_INTERVAL / MAX_BACKUPS: Snapshot schedule

See the cliparse package for the full list.

# Architecture

The server uses a service-based architecture with dependency injection:

  - handlers: HTTP request handlers (contests, submissions, votes, audit)
  - router: Route definitions using Go 1.22+ routing
  - middleware: Logging, JSON helpers, error mapping
  - engine: Contest lifecycle, submit pipeline, voting rules
  - store: SQLite access, transactions, integrity scans, snapshots
  - db: Embedded migrations
  - models: Request/response and domain types, error taxonomy
  - platforms: Supported music platforms and metadata fetching
  - ratelimit: Sliding-window rate limiting
  - backup: Periodic snapshots with retention
  - auth: Admin token and confirmation handles
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
