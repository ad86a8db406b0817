package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBook_Borrow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		available     int
		wantOK        bool
		wantAvailable int
	}{
		{name: "copies on shelf", available: 5, wantOK: true, wantAvailable: 4},
		{name: "last copy", available: 1, wantOK: true, wantAvailable: 0},
		{name: "nothing on shelf", available: 0, wantOK: false, wantAvailable: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := Book{TotalCopies: 5, AvailableCopies: tt.available}
			assert.Equal(t, tt.wantOK, b.Borrow())
			assert.Equal(t, tt.wantAvailable, b.AvailableCopies)
			assert.Equal(t, 5-tt.wantAvailable, b.BorrowedCopies())
		})
	}
}

func TestBook_Return(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		available     int
		wantOK        bool
		wantAvailable int
	}{
		{name: "copies lent out", available: 3, wantOK: true, wantAvailable: 4},
		{name: "one copy lent out", available: 4, wantOK: true, wantAvailable: 5},
		{name: "shelf full is a no-op", available: 5, wantOK: false, wantAvailable: 5},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := Book{TotalCopies: 5, AvailableCopies: tt.available}
			assert.Equal(t, tt.wantOK, b.Return())
			assert.Equal(t, tt.wantAvailable, b.AvailableCopies)
			assert.LessOrEqual(t, b.AvailableCopies, b.TotalCopies)
		})
	}
}

func TestBook_ValidateCopies(t *testing.T) {
	b := Book{TotalCopies: 2, AvailableCopies: 3}
	assert.ErrorIs(t, b.ValidateCopies(), ErrInvalidCopies)

	b.AvailableCopies = 2
	assert.NoError(t, b.ValidateCopies())
}

func TestBook_Validate(t *testing.T) {
	t.Parallel()

	valid := Book{Title: "Dune", Author: "Frank Herbert", Genre: "Science Fiction", ISBN: "978-0441172719", TotalCopies: 3, AvailableCopies: 3}

	tests := []struct {
		name     string
		mutate   func(b *Book)
		wantMsgs []string
	}{
		{name: "valid", mutate: func(b *Book) {}},
		{
			name:     "blank fields",
			mutate:   func(b *Book) { b.Title = " "; b.ISBN = "" },
			wantMsgs: []string{"Title can't be blank", "Isbn can't be blank"},
		},
		{
			name:     "non-positive total",
			mutate:   func(b *Book) { b.TotalCopies = 0; b.AvailableCopies = 0 },
			wantMsgs: []string{"Total copies must be greater than 0"},
		},
		{
			name:     "negative available",
			mutate:   func(b *Book) { b.AvailableCopies = -1 },
			wantMsgs: []string{"Available copies must be greater than or equal to 0"},
		},
		{
			name:     "available above total",
			mutate:   func(b *Book) { b.AvailableCopies = 4 },
			wantMsgs: []string{MsgCopiesExceedTotal},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := valid
			tt.mutate(&b)
			err := b.Validate()
			if tt.wantMsgs == nil {
				assert.NoError(t, err)
				return
			}
			vErr, ok := AsValidationError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantMsgs, vErr.Messages)
		})
	}
}

func TestBook_Matches(t *testing.T) {
	b := Book{Title: "The Hobbit", Author: "J.R.R. Tolkien", Genre: "Fantasy"}

	assert.True(t, b.Matches(""))
	assert.True(t, b.Matches("hobb"))
	assert.True(t, b.Matches("TOLKIEN"))
	assert.True(t, b.Matches("fant"))
	assert.False(t, b.Matches("orwell"))
}

func TestUpdateBookParams_Apply(t *testing.T) {
	title := "Animal Farm"
	total := 7
	b := Book{Title: "1984", Author: "George Orwell", TotalCopies: 4, AvailableCopies: 4}

	UpdateBookParams{Title: &title, TotalCopies: &total}.Apply(&b)

	assert.Equal(t, "Animal Farm", b.Title)
	assert.Equal(t, "George Orwell", b.Author)
	assert.Equal(t, 7, b.TotalCopies)
	assert.Equal(t, 4, b.AvailableCopies)
}
