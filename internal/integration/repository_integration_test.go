package integration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"taskbook_api/internal/domain"
	"taskbook_api/internal/migrations"
	"taskbook_api/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
)

func connect(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	if err := migrations.Apply(context.Background(), db); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func createUser(t *testing.T, repo *repository.UserRepository, prefix string) *domain.User {
	t.Helper()
	u := &domain.User{
		Username:     fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano()),
		PasswordHash: "$2a$04$hash",
	}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestUserRepository_UniqueUsername(t *testing.T) {
	db := connect(t)
	repo := repository.NewUserRepository(db)
	ctx := context.Background()

	u := createUser(t, repo, "dup")
	if u.ID == 0 {
		t.Fatal("expected generated id")
	}

	err := repo.Create(ctx, &domain.User{Username: u.Username, PasswordHash: "x"})
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	got, err := repo.GetByUsername(ctx, u.Username)
	if err != nil || got.ID != u.ID {
		t.Fatalf("get by username: %+v, %v", got, err)
	}
	if _, err := repo.GetByID(ctx, -1); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepository_ConcurrentRegistration(t *testing.T) {
	db := connect(t)
	repo := repository.NewUserRepository(db)
	name := fmt.Sprintf("race-%d", time.Now().UnixNano())

	var wg sync.WaitGroup
	errs := make([]error, 5)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = repo.Create(context.Background(), &domain.User{Username: name, PasswordHash: "x"})
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case !errors.Is(err, repository.ErrDuplicate):
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Fatalf("expected exactly one winner, got %d", ok)
	}
}

func TestBookRepository_OwnerScope(t *testing.T) {
	db := connect(t)
	users := repository.NewUserRepository(db)
	books := repository.NewBookRepository(db)
	ctx := context.Background()

	alice := createUser(t, users, "alice")
	bob := createUser(t, users, "bob")

	for _, owner := range []*domain.User{alice, bob} {
		b := &domain.Book{UserID: owner.ID, Name: "X", Pages: 10, Author: "Ann", Publisher: "Pub"}
		if err := books.Create(ctx, b); err != nil {
			t.Fatalf("create book: %v", err)
		}
		if b.ID == 0 || b.UserID != owner.ID {
			t.Fatalf("unexpected created book: %+v", b)
		}
	}
	more := &domain.Book{UserID: alice.ID, Name: "Another", Pages: 3, Author: "Zed", Publisher: "Pub"}
	if err := books.Create(ctx, more); err != nil {
		t.Fatalf("create book: %v", err)
	}

	list, err := books.List(ctx, alice.ID, repository.BookFilter{Name: "x"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].UserID != alice.ID {
		t.Fatalf("unexpected list: %+v", list)
	}

	list, err = books.List(ctx, alice.ID, repository.BookFilter{SortBy: "author", SortOrder: "desc"})
	if err != nil {
		t.Fatalf("list sorted: %v", err)
	}
	if len(list) != 2 || list[0].Author != "Zed" {
		t.Fatalf("unexpected sort: %+v", list)
	}

	bobBooks, _ := books.List(ctx, bob.ID, repository.BookFilter{})
	if err := books.Delete(ctx, alice.ID, bobBooks[0].ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting foreign book, got %v", err)
	}
	if err := books.Delete(ctx, bob.ID, bobBooks[0].ID); err != nil {
		t.Fatalf("delete own book: %v", err)
	}
	if _, err := books.Get(ctx, bob.ID, bobBooks[0].ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestTaskRepository_UpdateCompleteList(t *testing.T) {
	db := connect(t)
	users := repository.NewUserRepository(db)
	tasks := repository.NewTaskRepository(db)
	ctx := context.Background()

	owner := createUser(t, users, "tasker")
	other := createUser(t, users, "other")

	desc := "keep me"
	first := &domain.Task{UserID: owner.ID, Title: "first", Description: &desc}
	if err := tasks.Create(ctx, first); err != nil {
		t.Fatalf("create task: %v", err)
	}
	for i := 0; i < 11; i++ {
		if err := tasks.Create(ctx, &domain.Task{UserID: owner.ID, Title: fmt.Sprintf("t%d", i)}); err != nil {
			t.Fatalf("create task: %v", err)
		}
	}

	title := "renamed"
	got, err := tasks.Update(ctx, owner.ID, first.ID, domain.TaskPatch{Title: &title})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Title != "renamed" || got.Description == nil || *got.Description != "keep me" || got.Completed {
		t.Fatalf("partial update changed other fields: %+v", got)
	}

	if _, err := tasks.Update(ctx, other.ID, first.ID, domain.TaskPatch{Title: &title}); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign update, got %v", err)
	}
	if err := tasks.Complete(ctx, other.ID, first.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign complete, got %v", err)
	}

	for i := 0; i < 2; i++ {
		if err := tasks.Complete(ctx, owner.ID, first.ID); err != nil {
			t.Fatalf("complete #%d: %v", i, err)
		}
	}

	page, err := tasks.List(ctx, owner.ID, repository.TaskFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != repository.DefaultTaskLimit || page[0].ID != first.ID || !page[0].Completed {
		t.Fatalf("unexpected default page: %d rows, first %+v", len(page), page[0])
	}

	done := true
	completed, err := tasks.List(ctx, owner.ID, repository.TaskFilter{Completed: &done})
	if err != nil || len(completed) != 1 {
		t.Fatalf("completed filter: %+v, %v", completed, err)
	}

	if err := tasks.Delete(ctx, owner.ID, first.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := tasks.Delete(ctx, owner.ID, first.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestTaskRepository_ClearDescription(t *testing.T) {
	db := connect(t)
	users := repository.NewUserRepository(db)
	tasks := repository.NewTaskRepository(db)
	ctx := context.Background()

	owner := createUser(t, users, "clearer")
	desc := "to be removed"
	task := &domain.Task{UserID: owner.ID, Title: "keep", Description: &desc}
	if err := tasks.Create(ctx, task); err != nil {
		t.Fatalf("create task: %v", err)
	}

	got, err := tasks.Update(ctx, owner.ID, task.ID, domain.TaskPatch{Description: domain.Null[string]()})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Description != nil || got.Title != "keep" {
		t.Fatalf("expected NULL description and unchanged title, got %+v", got)
	}

	got, err = tasks.Update(ctx, owner.ID, task.ID, domain.TaskPatch{Description: domain.Some("back")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Description == nil || *got.Description != "back" {
		t.Fatalf("expected description restored, got %+v", got)
	}
}

func TestMigrations_NoMissingTables(t *testing.T) {
	db := connect(t)

	missing, err := migrations.Missing(context.Background(), db)
	if err != nil {
		t.Fatalf("missing: %v", err)
	}
	if len(missing) != 0 {
		t.Fatalf("expected all tables after migrating, missing %v", missing)
	}
}
