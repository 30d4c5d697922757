// Package auth provides the authentication and session core for Folium Core.
//
// It implements:
//   - Argon2id password hashing in PHC string format
//   - JWT access tokens (HS256) with the username as subject claim
//   - Registration with strict field validation and username/email/
//     password-digest uniqueness checks
//   - Long-lived refresh tokens derived once at registration and exchanged
//     for new access tokens without re-presenting a password
//   - Session resolution: every protected operation resolves the bearer
//     token to an active account before touching any owned resource
//
// The package owns no HTTP or storage concerns beyond the UserDirectory
// access patterns it consumes; callers inject the directory and the token
// codec configuration.
package auth
