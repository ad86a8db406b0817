package handler

import (
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/library-server/internal/model"
)

type bookResponse struct {
	ID              uuid.UUID `json:"id"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	Genre           string    `json:"genre"`
	ISBN            string    `json:"isbn"`
	TotalCopies     int       `json:"total_copies"`
	AvailableCopies int       `json:"available_copies"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func newBookResponse(b model.Book) bookResponse {
	return bookResponse{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		Genre:           b.Genre,
		ISBN:            b.ISBN,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

func newBookListResponse(books []model.Book) []bookResponse {
	out := make([]bookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, newBookResponse(b))
	}
	return out
}

type userResponse struct {
	ID    uuid.UUID  `json:"id"`
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
}

func newUserResponse(u model.User) userResponse {
	return userResponse{ID: u.ID, Email: u.Email, Role: u.Role}
}

type borrowingResponse struct {
	ID          uuid.UUID     `json:"id"`
	UserID      uuid.UUID     `json:"user_id"`
	BookID      uuid.UUID     `json:"book_id"`
	BorrowedAt  time.Time     `json:"borrowed_at"`
	DueDate     string        `json:"due_date"`
	ReturnedAt  *time.Time    `json:"returned_at"`
	Book        *bookResponse `json:"book,omitempty"`
	User        *userResponse `json:"user,omitempty"`
	Overdue     bool          `json:"overdue"`
	DaysOverdue int           `json:"days_overdue"`
}

func newBorrowingResponse(br model.Borrowing, today time.Time) borrowingResponse {
	resp := borrowingResponse{
		ID:          br.ID,
		UserID:      br.UserID,
		BookID:      br.BookID,
		BorrowedAt:  br.BorrowedAt,
		DueDate:     br.DueDate.Format(time.DateOnly),
		ReturnedAt:  br.ReturnedAt,
		Overdue:     br.IsOverdue(today),
		DaysOverdue: br.DaysOverdue(today),
	}
	if br.Book != nil {
		book := newBookResponse(*br.Book)
		resp.Book = &book
	}
	if br.User != nil {
		user := newUserResponse(*br.User)
		resp.User = &user
	}
	return resp
}

func newBorrowingListResponse(list []model.Borrowing, today time.Time) []borrowingResponse {
	out := make([]borrowingResponse, 0, len(list))
	for _, br := range list {
		out = append(out, newBorrowingResponse(br, today))
	}
	return out
}

type sessionResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

type librarianDashboardResponse struct {
	TotalBooks    int                 `json:"total_books"`
	TotalBorrowed int                 `json:"total_borrowed"`
	BooksDueToday int                 `json:"books_due_today"`
	OverdueBooks  []borrowingResponse `json:"overdue_books"`
}

type memberDashboardResponse struct {
	MyBorrowings []borrowingResponse `json:"my_borrowings"`
	OverdueBooks []borrowingResponse `json:"overdue_books"`
}

func newDashboardResponse(d model.Dashboard, today time.Time) any {
	if d.Librarian != nil {
		return librarianDashboardResponse{
			TotalBooks:    d.Librarian.TotalBooks,
			TotalBorrowed: d.Librarian.TotalBorrowed,
			BooksDueToday: d.Librarian.DueToday,
			OverdueBooks:  newBorrowingListResponse(d.Librarian.Overdue, today),
		}
	}
	var m model.MemberDashboard
	if d.Member != nil {
		m = *d.Member
	}
	return memberDashboardResponse{
		MyBorrowings: newBorrowingListResponse(m.Active, today),
		OverdueBooks: newBorrowingListResponse(m.Overdue, today),
	}
}

type reportExportResponse struct {
	Key       string    `json:"key"`
	Count     int       `json:"count"`
	CreatedAt time.Time `json:"created_at"`
}
