// Package postgres provides PostgreSQL implementations of the store
// interfaces, the error mapping from pgconn codes to store sentinels, and the
// embedded goose migrations that create the schema.
package postgres
