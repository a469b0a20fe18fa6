// Package auth issues and validates JWT access and refresh tokens, compares
// bcrypt password hashes, and generates session identifiers.
package auth
