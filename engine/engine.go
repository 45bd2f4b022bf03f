// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package engine

import (
	"context"

	"github.com/danielhkuo/trackclash/models"
)

// Actor identifies the user behind an operation, as supplied by the command
// layer. Name is display-only and appears nowhere public.
type Actor struct {
	ID   string
	Name string
}

// AuthorizeFunc is the injected authorization predicate. The engine never
// inspects platform role objects; the command layer answers "may this actor
// perform this action on this contest".
type AuthorizeFunc func(ctx context.Context, actor Actor, contestID, action string) bool

// MetadataFetcher is the external metadata-fetch collaborator. Any error is
// treated as "metadata unavailable", never as a submission-blocking failure.
type MetadataFetcher interface {
	Fetch(ctx context.Context, url string) (*models.TrackMetadata, error)
}

// Poster is the external post-rendering collaborator. CreatePosts renders a
// public (anonymous) post and a review (identified) post and returns the
// opaque references the engine stores; DeletePosts removes both.
type Poster interface {
	CreatePosts(ctx context.Context, contest *models.Contest, sub *models.Submission) (publicPostRef, reviewPostRef string, err error)
	DeletePosts(ctx context.Context, contest *models.Contest, publicPostRef, reviewPostRef string) error
}

// NopPoster satisfies Poster without rendering anything. Used when no
// posting backend is configured.
type NopPoster struct{}

func (NopPoster) CreatePosts(context.Context, *models.Contest, *models.Submission) (string, string, error) {
	return "", "", nil
}

func (NopPoster) DeletePosts(context.Context, *models.Contest, string, string) error {
	return nil
}
