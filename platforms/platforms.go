// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package platforms

import (
	"fmt"
	"net/url"
	"strings"
)

// Platform describes one supported hosting service.
type Platform struct {
	Name    string
	Domains []string
}

// Registry of supported platforms. Order matters only for error messages.
var registry = []Platform{
	{Name: "suno", Domains: []string{"suno.com"}},
	{Name: "udio", Domains: []string{"udio.com"}},
	{Name: "riffusion", Domains: []string{"riffusion.com"}},
	{Name: "youtube", Domains: []string{"youtube.com", "youtu.be"}},
	{Name: "soundcloud", Domains: []string{"soundcloud.com"}},
}

// Names returns every supported platform name, for validation messages and
// allowed-platform checks.
func Names() []string {
	names := make([]string, len(registry))
	for i, p := range registry {
		names[i] = p.Name
	}
	return names
}

// Resolve maps a URL's host to a platform name. Matches the registered
// domain and any subdomain of it (www.youtube.com, m.soundcloud.com).
func Resolve(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	host := strings.ToLower(u.Hostname())
	for _, p := range registry {
		for _, domain := range p.Domains {
			if host == domain || strings.HasSuffix(host, "."+domain) {
				return p.Name, true
			}
		}
	}
	return "", false
}

// Known reports whether name is a registered platform.
func Known(name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range registry {
		if p.Name == name {
			return true
		}
	}
	return false
}

// NormalizeList validates a caller-supplied allowed-platform list: lowercase,
// trimmed, deduplicated, every entry a known platform.
func NormalizeList(names []string) ([]string, error) {
	seen := map[string]bool{}
	out := []string{}
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" || seen[name] {
			continue
		}
		if !Known(name) {
			return nil, fmt.Errorf("unknown platform %q, valid options: %s",
				raw, strings.Join(Names(), ", "))
		}
		seen[name] = true
		out = append(out, name)
	}
	return out, nil
}
