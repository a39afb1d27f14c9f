package domain

import "time"

type Book struct {
	ID          int64     `db:"id" json:"id"`
	UserID      int64     `db:"user_id" json:"user_id"`
	Name        string    `db:"book_name" json:"book_name"`
	Description *string   `db:"description" json:"description"`
	Pages       int       `db:"pages" json:"pages"`
	Author      string    `db:"author" json:"author"`
	Publisher   string    `db:"publisher" json:"publisher"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
