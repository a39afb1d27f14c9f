package domain

import "time"

type User struct {
	ID           int64     `db:"id" json:"id"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"hashed_password" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
