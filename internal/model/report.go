package model

import "time"

// OverdueReportPrefix is the object key prefix of archived overdue reports.
const OverdueReportPrefix = "reports/overdue/"

// Dashboard is the role-specific landing view. Exactly one of Librarian and
// Member is set.
type Dashboard struct {
	Role      Role
	Librarian *LibrarianDashboard
	Member    *MemberDashboard
}

// LibrarianDashboard summarizes circulation for the whole library.
type LibrarianDashboard struct {
	TotalBooks    int
	TotalBorrowed int
	DueToday      int
	Overdue       []Borrowing
}

// MemberDashboard summarizes the caller's own borrowings.
type MemberDashboard struct {
	Active  []Borrowing
	Overdue []Borrowing
}

// ReportExport describes an archived overdue report.
type ReportExport struct {
	Key       string
	Count     int
	CreatedAt time.Time
}
