// Package policy holds the authorization rules for tasks and registration.
// The functions are pure; callers pass the resolved identity explicitly.
package policy

import (
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/store"
)

// TaskScope returns the rows caller may read or mutate: every task for staff,
// the caller's own tasks otherwise. It returns false for an anonymous caller.
func TaskScope(caller *domain.Caller) (store.TaskScope, bool) {
	if !caller.IsAuthenticated() {
		return store.TaskScope{}, false
	}
	if caller.IsStaff {
		return store.AllTasks, true
	}
	return store.OwnedBy(caller.UserID), true
}

// GrantStaff decides the staff flag of a newly registered account. Only an
// authenticated staff caller can create another staff account; any other
// request for the admin role is downgraded without error.
func GrantStaff(requested domain.Role, caller *domain.Caller) bool {
	return requested == domain.RoleAdmin && caller.IsAuthenticated() && caller.IsStaff
}
