// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides session token and ID generation utilities.

# Session Tokens

A municipality logs in with its code and receives a token that binds the
code to the server's session salt with HMAC-SHA256:

	token := auth.GenerateSessionToken(code, salt)
	code, err := auth.ValidateSessionToken(token, salt)

The token is the URL-safe base64 code followed by "." and the URL-safe base64
signature, both without padding. Tokens are deterministic and stateless: they
identify the caller but are not a security boundary and cannot be revoked.

# ID Generation

Random hex IDs for database records:

	id, err := auth.GenerateID(12)  // 24 hex characters

# IP Hashing

Edit log entries store a salted hash instead of the client address:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
