// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides token validation and generation utilities.

# Admin Token

A single configured admin token is compared in constant time:

	err := auth.ValidateAdminToken(presented, cfg.AdminToken)

The engine itself never inspects platform roles; the command layer answers
"is this actor an admin" and this token is how the HTTP surface answers it.

# Confirmation Handles

Destructive actions are two-step: the first call returns a handle, the
second call presents it. Handles are stateless HMAC-SHA256 over
(action, target, expiry):

	token, expiresAt := auth.GenerateConfirmToken("contest_delete", contestID, salt, time.Now())
	err := auth.ValidateConfirmToken(token, "contest_delete", contestID, salt, time.Now())

A handle expires after ConfirmTTL and only matches the exact action and
target it was issued for.

# Anonymized References

NewPublicRef returns a random UUID used as a submission's public-facing
reference. Random by design: the public reference must not be derivable from
the submitter's identity.

# ID Generation

Random hex IDs for miscellaneous records:

	id, err := auth.GenerateID(16)  // 32 hex characters
*/
package auth
