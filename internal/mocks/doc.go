// Package mocks provides test doubles for the store interfaces and the auth
// services.
//
// Every mock has function fields that override a single method, and an
// in-memory default behaviour that is close enough to the PostgreSQL stores
// for handler tests to exercise whole request flows:
//
//	users := mocks.NewMockUserStore()
//	users.GetByIDFn = func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
//		return nil, errors.New("connection reset")
//	}
package mocks
