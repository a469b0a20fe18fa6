// Package api handles incoming HTTP requests, request validation, and
// response formatting. It acts as an adapter between HTTP clients and the
// user, session and task services.
package api
