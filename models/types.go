// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Contest status constants
const (
	StatusActive = "active"
	StatusVoting = "voting"
	StatusClosed = "closed"
)

// Audit action constants
const (
	ActionContestCreate    = "contest_create"
	ActionContestEdit      = "contest_edit"
	ActionContestDelete    = "contest_delete"
	ActionSubmissionCreate = "submission_create"
	ActionSubmissionDelete = "submission_delete"
	ActionVoteCast         = "vote_cast"
	ActionVoteWithdraw     = "vote_withdraw"
)

// Rate-limited action kinds
const (
	RateActionSubmit = "submit"
	RateActionDelete = "delete"
)

// Validation limits shared between config defaults and the engine.
const (
	MinContestIDLength = 3
	MaxContestIDLength = 30
	MaxSongNameLength  = 100
	MaxURLLength       = 2048
	MaxDescriptionLen  = 1000
	MinSubmissionLimit = 1
	MaxSubmissionLimit = 10
)

// Request types

type CreateContestRequest struct {
	ContestID        string   `json:"contest_id" validate:"required,contestid"`
	PublicChannel    string   `json:"public_channel" validate:"required"`
	ReviewChannel    string   `json:"review_channel" validate:"required"`
	AllowedPlatforms []string `json:"allowed_platforms,omitempty"`
	SubmissionLimit  int      `json:"submission_limit" validate:"omitempty,min=1,max=10"`
	Description      string   `json:"description,omitempty" validate:"max=1000"`
}

type EditContestRequest struct {
	PublicChannel   *string `json:"public_channel,omitempty"`
	ReviewChannel   *string `json:"review_channel,omitempty"`
	SubmissionLimit *int    `json:"submission_limit,omitempty" validate:"omitempty,min=1,max=10"`
	Status          *string `json:"status,omitempty" validate:"omitempty,oneof=active voting closed"`
	Description     *string `json:"description,omitempty" validate:"omitempty,max=1000"`
}

type SubmitRequest struct {
	SongName string `json:"song_name" validate:"required,songname"`
	URL      string `json:"url" validate:"required,max=2048"`
}

// Response types

type CreateContestResponse struct {
	ContestID string `json:"contest_id"`
}

type DeleteRequestResponse struct {
	ConfirmToken string    `json:"confirm_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

type SubmitResponse struct {
	SubmissionID int64  `json:"submission_id"`
	PublicRef    string `json:"public_ref"`
	Platform     string `json:"platform"`
}

type VoteResponse struct {
	SubmissionID int64 `json:"submission_id"`
	VoteCount    int   `json:"vote_count"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Domain types

type Contest struct {
	ID               string    `json:"contest_id"`
	PublicChannel    string    `json:"public_channel"`
	ReviewChannel    string    `json:"review_channel"`
	AllowedPlatforms []string  `json:"allowed_platforms,omitempty"` // empty = all
	SubmissionLimit  int       `json:"submission_limit"`
	Status           string    `json:"status"`
	Description      string    `json:"description,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	CreatedBy        string    `json:"created_by"`
}

// TrackMetadata is best-effort data from the external fetch collaborator.
// Any or all fields may be empty when the fetch failed or timed out.
type TrackMetadata struct {
	Title     string `json:"title,omitempty"`
	Author    string `json:"author,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

type Submission struct {
	ID        int64          `json:"submission_id"`
	ContestID string         `json:"contest_id"`
	UserID    string         `json:"-"` // Never expose in JSON
	UserName  string         `json:"-"` // Never expose in JSON
	SongName  string         `json:"song_name"`
	Platform  string         `json:"platform"`
	URL       string         `json:"url"`
	Metadata  *TrackMetadata `json:"metadata,omitempty"`
	// PublicRef is the anonymized reference shown publicly; it carries no
	// link back to the submitter.
	PublicRef string `json:"public_ref"`
	// PublicPostRef and ReviewPostRef are opaque references returned by the
	// post-rendering collaborator. Empty until the posts exist.
	PublicPostRef string    `json:"-"`
	ReviewPostRef string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
}

type Vote struct {
	SubmissionID int64     `json:"submission_id"`
	VoterID      string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// AuditLogEntry is an append-only record of a mutating operation. Target
// holds a denormalized JSON snapshot of the affected entity's key attributes,
// since the referenced row may later be deleted.
type AuditLogEntry struct {
	ID        int64     `json:"id"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Target    string    `json:"target"`
	Outcome   string    `json:"outcome"`
	CreatedAt time.Time `json:"created_at"`
}

// Leaderboard and stats

type LeaderboardEntry struct {
	SubmissionID int64  `json:"submission_id"`
	SongName     string `json:"song_name"`
	Platform     string `json:"platform"`
	PublicRef    string `json:"public_ref"`
	VoteCount    int    `json:"vote_count"`
	Rank         int    `json:"rank"`
}

type ContestStats struct {
	ContestID          string         `json:"contest_id"`
	Status             string         `json:"status"`
	TotalSubmissions   int            `json:"total_submissions"`
	UniqueParticipants int            `json:"unique_participants"`
	TotalVotes         int            `json:"total_votes"`
	ByPlatform         map[string]int `json:"by_platform,omitempty"`
}

// IntegrityReport is the result of a read-only integrity scan.
type IntegrityReport struct {
	CheckedAt  time.Time `json:"checked_at"`
	Violations []string  `json:"violations"`
}

func (r IntegrityReport) OK() bool {
	return len(r.Violations) == 0
}
