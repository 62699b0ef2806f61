package jsonfile

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	domain "library-service/internal/domain/book"
	apperrors "library-service/pkg/errors"
	"library-service/pkg/jsonstore"
)

const booksCollection = "books"

// bookRecord is the wire shape of a book inside books.json. Optional fields
// are pointers so absent values round-trip as JSON null; the loan state is
// flattened into the nullable lentTo/lentDate/returnDate triple that the file
// format and the API expose.
type bookRecord struct {
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

func bookToRecord(b *domain.Book) bookRecord {
	return bookRecord{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		PublishedDate: optString(b.PublishedDate),
		ISBN:          optString(b.ISBN),
		Genre:         optString(b.Genre),
		LentTo:        optString(b.Loan.Holder),
		LentDate:      optTime(b.Loan.LentAt),
		ReturnDate:    optTime(b.Loan.ReturnedAt),
	}
}

func bookFromRecord(rec bookRecord) domain.Book {
	return domain.Book{
		ID:            rec.ID,
		Title:         rec.Title,
		Author:        rec.Author,
		PublishedDate: stringOf(rec.PublishedDate),
		ISBN:          stringOf(rec.ISBN),
		Genre:         stringOf(rec.Genre),
		Loan: domain.Loan{
			Holder:     stringOf(rec.LentTo),
			LentAt:     timeOf(rec.LentDate),
			ReturnedAt: timeOf(rec.ReturnDate),
		},
	}
}

// BookRepo keeps the authoritative book collection in memory, loaded once at
// construction, and mirrors every mutation to the JSON store wholesale.
type BookRepo struct {
	mu    sync.RWMutex
	store *jsonstore.Store
	books []bookRecord
	log   *zap.Logger
}

// NewBookRepo creates a BookRepo and loads the existing collection from disk.
func NewBookRepo(store *jsonstore.Store, log *zap.Logger) (*BookRepo, error) {
	r := &BookRepo{store: store, log: log}
	if err := store.Load(booksCollection, &r.books); err != nil {
		return nil, err
	}
	if r.books == nil {
		// keep the persisted form a JSON array, never null
		r.books = []bookRecord{}
	}
	log.Info("book collection loaded", zap.Int("count", len(r.books)))
	return r, nil
}

// GetByID retrieves a book by id, scanning the collection linearly.
func (r *BookRepo) GetByID(ctx context.Context, id string) (*domain.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.books {
		if rec.ID == id {
			b := bookFromRecord(rec)
			return &b, nil
		}
	}
	return nil, apperrors.NewNotFoundError("book", "Book not found")
}

// GetAll returns the collection in insertion order.
func (r *BookRepo) GetAll(ctx context.Context) ([]domain.Book, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	books := make([]domain.Book, len(r.books))
	for i, rec := range r.books {
		books[i] = bookFromRecord(rec)
	}
	return books, nil
}

// Create appends the book to the collection and persists it.
func (r *BookRepo) Create(ctx context.Context, b *domain.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.books = append(r.books, bookToRecord(b))
	return r.persist()
}

// Update replaces the stored book with the same id and persists the
// collection.
func (r *BookRepo) Update(ctx context.Context, b *domain.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, rec := range r.books {
		if rec.ID == b.ID {
			r.books[i] = bookToRecord(b)
			return r.persist()
		}
	}
	return apperrors.NewNotFoundError("book", "Book not found")
}

// Delete removes the book with the given id. Deleting an absent id is a
// no-op reported as success, matching the API's idempotent delete.
func (r *BookRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.books[:0]
	for _, rec := range r.books {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	r.books = kept
	return r.persist()
}

func (r *BookRepo) persist() error {
	if err := r.store.Save(booksCollection, r.books); err != nil {
		r.log.Error("failed to persist book collection", zap.Error(err))
		return apperrors.NewInternalError("failed to persist books", err)
	}
	return nil
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func stringOf(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func optTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func timeOf(p *time.Time) time.Time {
	if p == nil {
		return time.Time{}
	}
	return *p
}
