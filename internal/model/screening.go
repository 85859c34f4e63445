package model

// Screening is a catalog entry. The catalog is read-only over HTTP; rows
// are created by the seed command.
type Screening struct {
	ID          string `db:"id" json:"id"`
	Title       string `db:"title" json:"title"`
	Category    string `db:"category" json:"category"`
	Description string `db:"description" json:"description"`
	Poster      string `db:"poster" json:"poster"`
	DurationMin int    `db:"duration_min" json:"duration"`
}
