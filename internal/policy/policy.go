// Package policy decides which roles may perform which actions.
package policy

import (
	"github.com/dtroode/library-server/internal/model"
)

// Action is an operation guarded by the access policy.
type Action string

const (
	ActionViewBooks         Action = "view_books"
	ActionManageBooks       Action = "manage_books"
	ActionBorrow            Action = "borrow"
	ActionReturnAny         Action = "return_any"
	ActionViewOwnBorrowings Action = "view_own_borrowings"
	ActionViewAnyBorrowing  Action = "view_any_borrowing"
	ActionViewOverdue       Action = "view_overdue"
	ActionViewDashboard     Action = "view_dashboard"
	ActionExportReports     Action = "export_reports"
)

var table = map[Action]map[model.Role]bool{
	ActionViewBooks:         {model.RoleLibrarian: true, model.RoleMember: true},
	ActionManageBooks:       {model.RoleLibrarian: true},
	ActionBorrow:            {model.RoleLibrarian: true, model.RoleMember: true},
	ActionReturnAny:         {model.RoleLibrarian: true},
	ActionViewOwnBorrowings: {model.RoleLibrarian: true, model.RoleMember: true},
	ActionViewAnyBorrowing:  {model.RoleLibrarian: true},
	ActionViewOverdue:       {model.RoleLibrarian: true},
	ActionViewDashboard:     {model.RoleLibrarian: true, model.RoleMember: true},
	ActionExportReports:     {model.RoleLibrarian: true},
}

// Allowed reports whether role may perform action. Unknown roles and
// unknown actions are never allowed.
func Allowed(role model.Role, action Action) bool {
	return table[action][role]
}

// Authorize returns model.ErrForbidden unless role may perform action.
func Authorize(role model.Role, action Action) error {
	if !Allowed(role, action) {
		return model.ErrForbidden
	}
	return nil
}

// Actions lists every guarded action.
func Actions() []Action {
	return []Action{
		ActionViewBooks,
		ActionManageBooks,
		ActionBorrow,
		ActionReturnAny,
		ActionViewOwnBorrowings,
		ActionViewAnyBorrowing,
		ActionViewOverdue,
		ActionViewDashboard,
		ActionExportReports,
	}
}
