// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides credential checks, bearer tokens and ID generation.

# Passwords

Passwords are stored as bcrypt hashes at cost 12:

	hash, err := auth.HashPassword(password)

AuthenticateWithPassword looks the user up by exact email and compares the
hash. It distinguishes an unknown email (ErrUserNotFound) from a wrong
password (ErrBadCredential).

# Bearer Tokens

Successful login issues an HS256 JWT carrying user_id and email, valid for
seven days:

	token, err := auth.IssueToken(user, secret, time.Now())
	claims, err := auth.AuthenticateWithToken(token, secret)

Tokens that are malformed, expired, lack an expiry, use another algorithm
(including "none"), or were signed with a different secret all fail with
ErrInvalidToken.

# ID Generation

Random hex IDs for database records:

	id, err := auth.GenerateID(16)  // 32 hex characters
*/
package auth
