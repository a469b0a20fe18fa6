// Package domain contains the core business entities, value objects, and
// domain logic of the application: users, their roles, tasks, and the
// caller identity attached to each request. It is independent of any
// specific infrastructure or delivery mechanism.
package domain
