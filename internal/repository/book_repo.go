package repository

import (
	"context"

	"taskbook_api/internal/domain"
)

var booksTable = Table{
	Name:    "books",
	Columns: []string{"id", "user_id", "book_name", "description", "pages", "author", "publisher", "created_at"},
	Sortable: map[string]string{
		"id":          "id",
		"book_name":   "book_name",
		"description": "description",
		"pages":       "pages",
		"author":      "author",
		"publisher":   "publisher",
		"created_at":  "created_at",
	},
}

// BookFilter holds the listing options for books. Books are never paginated.
type BookFilter struct {
	Name      string
	Author    string
	Publisher string
	SortBy    string
	SortOrder string
}

func (f BookFilter) query() ListQuery {
	return ListQuery{
		Filters: []Filter{
			{Column: "book_name", Op: Contains, Value: f.Name},
			{Column: "author", Op: Contains, Value: f.Author},
			{Column: "publisher", Op: Contains, Value: f.Publisher},
		},
		SortBy:    f.SortBy,
		SortOrder: f.SortOrder,
	}
}

type BookRepository struct {
	store *OwnedStore[domain.Book]
}

func NewBookRepository(db DBTX) *BookRepository {
	return &BookRepository{store: NewOwnedStore[domain.Book](db, booksTable)}
}

// Create inserts b owned by b.UserID and overwrites b with the stored row.
func (r *BookRepository) Create(ctx context.Context, b *domain.Book) error {
	created, err := r.store.Insert(ctx, b.UserID, []Field{
		{"book_name", b.Name},
		{"description", b.Description},
		{"pages", b.Pages},
		{"author", b.Author},
		{"publisher", b.Publisher},
	})
	if err != nil {
		return err
	}
	*b = *created
	return nil
}

func (r *BookRepository) Get(ctx context.Context, owner, id int64) (*domain.Book, error) {
	return r.store.Get(ctx, owner, id)
}

func (r *BookRepository) List(ctx context.Context, owner int64, f BookFilter) ([]*domain.Book, error) {
	return r.store.List(ctx, owner, f.query())
}

func (r *BookRepository) Delete(ctx context.Context, owner, id int64) error {
	return r.store.Delete(ctx, owner, id)
}
