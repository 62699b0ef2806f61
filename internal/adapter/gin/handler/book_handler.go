package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"library-service/internal/usecase/book"
)

// BookHandler handles HTTP requests for book operations, including the
// lending workflow.
type BookHandler struct {
	uc  book.Usecase
	log *zap.Logger
}

// NewBookHandler creates a new BookHandler instance
func NewBookHandler(uc book.Usecase, log *zap.Logger) *BookHandler {
	return &BookHandler{
		uc:  uc,
		log: log,
	}
}

// CreateBookRequest represents the HTTP request body for creating a book.
// Validation happens in the usecase so the error body matches the documented
// plain-text contract.
type CreateBookRequest struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	PublishedDate string `json:"publishedDate"`
	ISBN          string `json:"isbn"`
	Genre         string `json:"genre"`
}

// UpdateBookRequest represents the HTTP request body for updating a book.
// Absent and empty fields are both treated as "not provided".
type UpdateBookRequest struct {
	Title         string `json:"title"`
	Author        string `json:"author"`
	PublishedDate string `json:"publishedDate"`
	ISBN          string `json:"isbn"`
	Genre         string `json:"genre"`
}

// LendRequest represents the HTTP request body for lend and return calls.
type LendRequest struct {
	UserID string `json:"userId"`
}

// BookResponse represents the HTTP response for book data. Optional fields
// serialize as null when absent, matching the persisted file format.
type BookResponse struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Author        string     `json:"author"`
	PublishedDate *string    `json:"publishedDate"`
	ISBN          *string    `json:"isbn"`
	Genre         *string    `json:"genre"`
	LentTo        *string    `json:"lentTo"`
	LentDate      *time.Time `json:"lentDate"`
	ReturnDate    *time.Time `json:"returnDate"`
}

// LendBookResponse represents the HTTP response for a successful lend
type LendBookResponse struct {
	Message string       `json:"message"`
	Book    BookResponse `json:"book"`
}

// ReturnedBookResponse is the trimmed book projection in a return confirmation
type ReturnedBookResponse struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	LentTo *string `json:"lentTo"`
}

// ReturnBookResponse represents the HTTP response for a successful return
type ReturnBookResponse struct {
	Message string               `json:"message"`
	Book    ReturnedBookResponse `json:"book"`
}

func toBookResponse(b book.Book) BookResponse {
	return BookResponse{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		PublishedDate: nullableString(b.PublishedDate),
		ISBN:          nullableString(b.ISBN),
		Genre:         nullableString(b.Genre),
		LentTo:        nullableString(b.LentTo),
		LentDate:      nullableTime(b.LentDate),
		ReturnDate:    nullableTime(b.ReturnDate),
	}
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// ListBooks handles GET /books
func (h *BookHandler) ListBooks(c *gin.Context) {
	books, err := h.uc.ListBooks(c.Request.Context())
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	resp := make([]BookResponse, len(books))
	for i, b := range books {
		resp[i] = toBookResponse(b)
	}
	c.JSON(http.StatusOK, resp)
}

// GetBook handles GET /books/:id
func (h *BookHandler) GetBook(c *gin.Context) {
	b, err := h.uc.GetBook(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toBookResponse(*b))
}

// CreateBook handles POST /books
func (h *BookHandler) CreateBook(c *gin.Context) {
	var req CreateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid create book request", zap.Error(err))
		c.String(http.StatusBadRequest, "Invalid request body")
		return
	}

	b, err := h.uc.CreateBook(c.Request.Context(), book.CreateBookRequest{
		Title:         req.Title,
		Author:        req.Author,
		PublishedDate: req.PublishedDate,
		ISBN:          req.ISBN,
		Genre:         req.Genre,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, toBookResponse(*b))
}

// UpdateBook handles PUT /books/:id
func (h *BookHandler) UpdateBook(c *gin.Context) {
	var req UpdateBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid update book request", zap.Error(err))
		c.String(http.StatusBadRequest, "Invalid request body")
		return
	}

	b, err := h.uc.UpdateBook(c.Request.Context(), book.UpdateBookRequest{
		ID:            c.Param("id"),
		Title:         req.Title,
		Author:        req.Author,
		PublishedDate: req.PublishedDate,
		ISBN:          req.ISBN,
		Genre:         req.Genre,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, toBookResponse(*b))
}

// DeleteBook handles DELETE /books/:id
func (h *BookHandler) DeleteBook(c *gin.Context) {
	if err := h.uc.DeleteBook(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// LendBook handles POST /books/:id/lend
func (h *BookHandler) LendBook(c *gin.Context) {
	var req LendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid lend request", zap.Error(err))
		c.String(http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.uc.LendBook(c.Request.Context(), book.LendBookRequest{
		BookID: c.Param("id"),
		UserID: req.UserID,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, LendBookResponse{
		Message: resp.Message,
		Book:    toBookResponse(resp.Book),
	})
}

// ReturnBook handles POST /books/:id/return
func (h *BookHandler) ReturnBook(c *gin.Context) {
	var req LendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("invalid return request", zap.Error(err))
		c.String(http.StatusBadRequest, "Invalid request body")
		return
	}

	resp, err := h.uc.ReturnBook(c.Request.Context(), book.ReturnBookRequest{
		BookID: c.Param("id"),
		UserID: req.UserID,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, ReturnBookResponse{
		Message: resp.Message,
		Book: ReturnedBookResponse{
			ID:     resp.Book.ID,
			Title:  resp.Book.Title,
			LentTo: nullableString(resp.Book.LentTo),
		},
	})
}
