package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "gatsby", want: "gatsby"},
		{in: "50%", want: `50\%`},
		{in: "a_b", want: `a\_b`},
		{in: `c:\path`, want: `c:\\path`},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, escapeLike(tt.in))
		})
	}
}

func TestSearchBooksQuery(t *testing.T) {
	t.Run("empty query lists everything", func(t *testing.T) {
		sql, args, err := searchBooksQuery("")
		require.NoError(t, err)

		assert.Contains(t, sql, `FROM "books"`)
		assert.NotContains(t, sql, "WHERE")
		assert.Contains(t, sql, `ORDER BY "title" ASC, "isbn" ASC`)
		assert.Empty(t, args)
	})

	t.Run("query matches title author and genre", func(t *testing.T) {
		sql, args, err := searchBooksQuery("100%")
		require.NoError(t, err)

		assert.Contains(t, sql, `"title" ILIKE $1`)
		assert.Contains(t, sql, `"author" ILIKE $2`)
		assert.Contains(t, sql, `"genre" ILIKE $3`)
		assert.Contains(t, sql, " OR ")
		require.Len(t, args, 3)
		for _, arg := range args {
			assert.Equal(t, `%100\%%`, arg)
		}
	})
}
