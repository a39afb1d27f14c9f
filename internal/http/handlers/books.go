package handlers

import (
	"fmt"
	"net/http"

	"taskbook_api/internal/domain"
	"taskbook_api/internal/repository"

	"github.com/gin-gonic/gin"
)

type CreateBookRequest struct {
	Name        string  `json:"book_name" binding:"required"`
	Description *string `json:"description"`
	Pages       *int    `json:"pages" binding:"required"`
	Author      string  `json:"author" binding:"required"`
	Publisher   string  `json:"publisher" binding:"required"`
}

type listBooksQuery struct {
	Name      string `form:"name"`
	Author    string `form:"author"`
	Publisher string `form:"publisher"`
	SortBy    string `form:"sort_by"`
	SortOrder string `form:"sort_order"`
}

func (h *Handler) CreateBook(c *gin.Context) {
	owner, ok := mustUserID(c)
	if !ok {
		return
	}
	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	book := &domain.Book{
		UserID:      owner,
		Name:        req.Name,
		Description: req.Description,
		Pages:       *req.Pages,
		Author:      req.Author,
		Publisher:   req.Publisher,
	}
	if err := h.Books.Create(c.Request.Context(), book); err != nil {
		writeError(c, err, "Book not found")
		return
	}
	c.JSON(http.StatusOK, book)
}

func (h *Handler) ListBooks(c *gin.Context) {
	owner, ok := mustUserID(c)
	if !ok {
		return
	}
	var q listBooksQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}

	books, err := h.Books.List(c.Request.Context(), owner, repository.BookFilter{
		Name:      q.Name,
		Author:    q.Author,
		Publisher: q.Publisher,
		SortBy:    q.SortBy,
		SortOrder: q.SortOrder,
	})
	if err != nil {
		writeError(c, err, "Book not found")
		return
	}
	if books == nil {
		books = []*domain.Book{}
	}
	c.JSON(http.StatusOK, books)
}

func (h *Handler) GetBook(c *gin.Context) {
	owner, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	book, err := h.Books.Get(c.Request.Context(), owner, id)
	if err != nil {
		writeError(c, err, "Book not found")
		return
	}
	c.JSON(http.StatusOK, book)
}

func (h *Handler) DeleteBook(c *gin.Context) {
	owner, ok := mustUserID(c)
	if !ok {
		return
	}
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.Books.Delete(c.Request.Context(), owner, id); err != nil {
		writeError(c, err, "Book not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Book with id %d deleted successfully", id)})
}
