// Package store defines the persistence interfaces for users, tasks and
// sessions, together with the sentinel errors every implementation returns.
// Business rules depend on these interfaces only; internal/platform/postgres
// provides the PostgreSQL implementations.
package store
