package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/iliyamo/gold-cinema/internal/model"
)

// MaxSearchPage bounds Page so the OFFSET stays representable.
const MaxSearchPage = 10000

// likeEscaper escapes LIKE metacharacters with '!', which all three
// dialects accept as an ESCAPE character.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// ScreeningSearchQuery filters and paginates the catalog. Empty filters
// match everything; Page is 1-based.
type ScreeningSearchQuery struct {
	Title    string
	Category string
	Page     int
	PageSize int
}

// Search returns one page of screenings matching q, ordered by title, and
// the total number of matches. Title is a case-insensitive substring match,
// Category an exact case-insensitive match. Page is clamped to
// [1, MaxSearchPage] and PageSize to [1, 100].
func (r *ScreeningRepo) Search(ctx context.Context, q ScreeningSearchQuery) ([]model.Screening, int64, error) {
	where := []string{}
	args := []any{}
	if q.Title != "" {
		where = append(where, "LOWER(title) LIKE ? ESCAPE '!'")
		args = append(args, "%"+likeEscaper.Replace(strings.ToLower(q.Title))+"%")
	}
	if q.Category != "" {
		where = append(where, "LOWER(category) = ?")
		args = append(args, strings.ToLower(q.Category))
	}
	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	var total int64
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(*) FROM screenings WHERE `+cond), args...); err != nil {
		return nil, 0, fmt.Errorf("count screenings: %w", err)
	}

	q.PageSize = min(max(q.PageSize, 1), 100)
	q.Page = min(max(q.Page, 1), MaxSearchPage)
	out := make([]model.Screening, 0, q.PageSize)
	dataArgs := append(append([]any{}, args...), q.PageSize, (q.Page-1)*q.PageSize)
	err := r.db.SelectContext(ctx, &out, r.db.Rebind(`SELECT `+screeningColumns+` FROM screenings
		WHERE `+cond+`
		ORDER BY title
		LIMIT ? OFFSET ?`), dataArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("search screenings: %w", err)
	}
	return out, total, nil
}
