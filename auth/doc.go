// Copyright (c) 2025 CivicPulse.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides authentication and token generation utilities.

# Admin Keys

Admin keys use HMAC-SHA256 to create deterministic, verifiable keys:

	adminKey := auth.GenerateAdminKey(resourceID, salt)
	err := auth.ValidateAdminKey(resourceID, adminKey, salt)

The key is URL-safe base64 encoded without padding. Since it's
deterministic, the same resource ID and salt always produce the same
key. This allows validation without storing the key in the database.
Polls and petitions use the same scheme.

# Participant Tokens

Participant tokens are random 24-byte (192-bit) secrets:

	token, err := auth.GenerateParticipantToken()

The token is the participant: the ledger keys votes and signatures on
it and never needs more identity than that. ValidateParticipantToken
does a cheap shape check on client-supplied tokens (length and URL-safe
alphabet) before they reach the database.

# ID Generation

Random hex IDs:

	id, err := auth.GenerateID(16)  // 32 hex characters

# IP Hashing

For privacy-preserving abuse detection:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256. Raw IPs are never
stored or logged.
*/
package auth
