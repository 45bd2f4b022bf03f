// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package platforms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/danielhkuo/trackclash/models"
)

// maxResponseBytes caps how much of a page we read looking for meta tags.
const maxResponseBytes = 1 << 20

var (
	ogTitle = regexp.MustCompile(`<meta[^>]+property="og:title"[^>]+content="([^"]*)"`)
	ogImage = regexp.MustCompile(`<meta[^>]+property="og:image"[^>]+content="([^"]*)"`)
)

// HTTPFetcher retrieves best-effort track metadata. Every failure mode
// returns an error the caller degrades to "metadata unavailable"; nothing
// here is submission-blocking.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates a fetcher whose requests are bounded by timeout.
func NewHTTPFetcher(timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch dispatches on the URL's platform. ctx bounds the whole call in
// addition to the client timeout.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*models.TrackMetadata, error) {
	platform, ok := Resolve(rawURL)
	if !ok {
		return nil, errors.New("unsupported platform")
	}

	switch platform {
	case "suno":
		return f.fetchSuno(ctx, rawURL)
	case "soundcloud":
		return f.fetchSoundCloud(ctx, rawURL)
	default:
		return f.fetchOpenGraph(ctx, rawURL, platform)
	}
}

// fetchSuno resolves share-link redirects to find the song id, then derives
// the CDN thumbnail. Suno pages are not scrapable for titles.
func (f *HTTPFetcher) fetchSuno(ctx context.Context, rawURL string) (*models.TrackMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	resp.Body.Close()

	final := resp.Request.URL.String()
	idx := strings.Index(final, "suno.com/song/")
	if idx < 0 {
		return nil, errors.New("not a suno song URL")
	}
	songID := final[idx+len("suno.com/song/"):]
	if q := strings.IndexByte(songID, '?'); q >= 0 {
		songID = songID[:q]
	}
	if songID == "" {
		return nil, errors.New("empty suno song id")
	}

	return &models.TrackMetadata{
		Title:     "Suno AI Music",
		Author:    "Suno",
		Thumbnail: fmt.Sprintf("https://cdn2.suno.ai/image_large_%s.jpeg", songID),
	}, nil
}

// fetchSoundCloud uses the public oEmbed endpoint, which returns clean JSON.
func (f *HTTPFetcher) fetchSoundCloud(ctx context.Context, rawURL string) (*models.TrackMetadata, error) {
	endpoint := "https://soundcloud.com/oembed?format=json&url=" + url.QueryEscape(rawURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oembed returned %d", resp.StatusCode)
	}

	var payload struct {
		Title        string `json:"title"`
		AuthorName   string `json:"author_name"`
		ThumbnailURL string `json:"thumbnail_url"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return nil, err
	}

	return &models.TrackMetadata{
		Title:     payload.Title,
		Author:    payload.AuthorName,
		Thumbnail: payload.ThumbnailURL,
	}, nil
}

// fetchOpenGraph scrapes og:title / og:image meta tags from the page head.
func (f *HTTPFetcher) fetchOpenGraph(ctx context.Context, rawURL, platform string) (*models.TrackMetadata, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}

	meta := &models.TrackMetadata{Author: platform}
	if m := ogTitle.FindSubmatch(body); m != nil {
		meta.Title = string(m[1])
	}
	if m := ogImage.FindSubmatch(body); m != nil {
		meta.Thumbnail = string(m[1])
	}
	if meta.Title == "" && meta.Thumbnail == "" {
		return nil, errors.New("no og metadata found")
	}
	return meta, nil
}
