// Package testdb provides helpers for integration tests that need a real
// PostgreSQL database. The helpers are compiled only with the integration
// build tag and skip the calling test when DATABASE_URL is not set.
//
// Tests share one migrated database and isolate themselves by running inside
// a transaction that is always rolled back:
//
//	db := testdb.GetTestDB(t)
//	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//		userStore := postgres.NewPostgresUserStore(tx, bcrypt.MinCost, nil)
//		// ...
//	})
package testdb
