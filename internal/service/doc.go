// Package service contains the application use cases: registration and
// credential checks, session management, and task CRUD under the
// authorization policy. Services depend on the store interfaces only and
// receive every dependency through their constructors.
package service
