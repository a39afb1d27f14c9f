package domain

import "time"

type Task struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Title       string    `db:"title" json:"title"`
	Description *string   `db:"description" json:"description"`
	Completed   bool      `db:"completed" json:"completed"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// TaskPatch holds the fields of a partial update. Nil Title/Completed and an
// unset Description leave the column unchanged; a set Description with a nil
// value clears it.
type TaskPatch struct {
	Title       *string
	Description Optional[string]
	Completed   *bool
}
