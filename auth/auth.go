// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ctxKey int

const adminKey ctxKey = iota

// ContextWithAdmin marks the request context as carrying validated admin
// credentials. Set by the command layer after the token check passes.
func ContextWithAdmin(ctx context.Context) context.Context {
	return context.WithValue(ctx, adminKey, true)
}

// IsAdmin reports whether the context was marked by ContextWithAdmin.
func IsAdmin(ctx context.Context) bool {
	v, _ := ctx.Value(adminKey).(bool)
	return v
}

var (
	ErrInvalidAdminToken = errors.New("invalid admin token")
	ErrInvalidConfirm    = errors.New("invalid confirmation token")
	ErrConfirmExpired    = errors.New("confirmation token expired")
)

// ConfirmTTL is how long a delete-confirmation handle stays valid. Long
// enough for a human to read the warning, short enough that a stale handle
// cannot be replayed much later.
const ConfirmTTL = 5 * time.Minute

// ValidateAdminToken compares the presented token against the configured one
// in constant time.
func ValidateAdminToken(presented, configured string) error {
	if configured == "" || !hmac.Equal([]byte(presented), []byte(configured)) {
		return ErrInvalidAdminToken
	}
	return nil
}

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// NewPublicRef returns an anonymized reference for a submission's public
// post. Random, so it carries no link back to the submitter.
func NewPublicRef() string {
	return uuid.NewString()
}

// GenerateConfirmToken creates a stateless confirmation handle for a
// destructive action on a target entity. The handle is an HMAC over
// (action, target, expiry), so the second call of a two-step delete can be
// verified without server-side pending state.
func GenerateConfirmToken(action, target, salt string, now time.Time) (token string, expiresAt time.Time) {
	expiresAt = now.Add(ConfirmTTL)
	exp := strconv.FormatInt(expiresAt.Unix(), 10)
	return confirmMAC(action, target, exp, salt) + "." + exp, expiresAt
}

// ValidateConfirmToken checks a confirmation handle for the given action and
// target. Expired or forged handles are rejected.
func ValidateConfirmToken(token, action, target, salt string, now time.Time) error {
	mac, exp, ok := strings.Cut(token, ".")
	if !ok {
		return ErrInvalidConfirm
	}
	expUnix, err := strconv.ParseInt(exp, 10, 64)
	if err != nil {
		return ErrInvalidConfirm
	}
	if !hmac.Equal([]byte(mac), []byte(confirmMAC(action, target, exp, salt))) {
		return ErrInvalidConfirm
	}
	if now.After(time.Unix(expUnix, 0)) {
		return ErrConfirmExpired
	}
	return nil
}

func confirmMAC(action, target, exp, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(action + ":" + target + ":" + exp))
	return strings.TrimRight(base64.URLEncoding.EncodeToString(h.Sum(nil)), "=")
}
