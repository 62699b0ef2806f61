package book

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	domain "library-service/internal/domain/book"
	userdomain "library-service/internal/domain/user"
	apperrors "library-service/pkg/errors"
)

// Repository defines the interface for book data access operations.
type Repository interface {
	Create(ctx context.Context, b *domain.Book) error             // Create a new book
	GetByID(ctx context.Context, id string) (*domain.Book, error) // Retrieve book by id
	GetAll(ctx context.Context) ([]domain.Book, error)            // List books in insertion order
	Update(ctx context.Context, b *domain.Book) error             // Update existing book
	Delete(ctx context.Context, id string) error                  // Delete book by id, no-op when absent
}

// UserDirectory resolves user ids for the lending workflow. It is satisfied
// by the user repository.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
}

// Service implements the business logic for the book catalog and the lending
// state machine.
type Service struct {
	repo     Repository          // Repository for book data access
	users    UserDirectory       // Directory for resolving borrower ids
	log      *zap.Logger         // Logger for structured logging
	validate *validator.Validate // Validator for request validation

	// mu serializes read-check-write sequences on the collection. Two
	// concurrent lend requests for the same book would otherwise both
	// observe it as available.
	mu sync.Mutex
}

// New creates a new instance of Service with the provided repositories and logger.
func New(r Repository, users UserDirectory, log *zap.Logger) *Service {
	return &Service{repo: r, users: users, log: log, validate: validator.New()}
}

// CreateBook creates a new book in the available state. Title and author are
// required; the remaining fields default to absent.
func (s *Service) CreateBook(ctx context.Context, in CreateBookRequest) (*Book, error) {
	s.log.Info("creating book", zap.String("title", in.Title), zap.String("author", in.Author))

	if err := s.validate.Struct(in); err != nil {
		s.log.Warn("validate failed", zap.Error(err))
		return nil, apperrors.NewValidationError("Title and author are required")
	}

	b := &domain.Book{
		ID:            "book-" + uuid.NewString(),
		Title:         in.Title,
		Author:        in.Author,
		PublishedDate: in.PublishedDate,
		ISBN:          in.ISBN,
		Genre:         in.Genre,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		s.log.Error("failed to create book", zap.Error(err))
		return nil, err
	}
	return toDTO(b), nil
}

// UpdateBook merges the supplied fields into an existing book. Empty fields
// are treated as "not provided" and left untouched; an update with nothing
// supplied returns the record unchanged.
func (s *Service) UpdateBook(ctx context.Context, in UpdateBookRequest) (*Book, error) {
	s.log.Info("updating book", zap.String("id", in.ID))

	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.repo.GetByID(ctx, in.ID)
	if err != nil {
		s.log.Warn("book not found for update", zap.String("id", in.ID))
		return nil, err
	}

	if in.Title != "" {
		b.Title = in.Title
	}
	if in.Author != "" {
		b.Author = in.Author
	}
	if in.PublishedDate != "" {
		b.PublishedDate = in.PublishedDate
	}
	if in.ISBN != "" {
		b.ISBN = in.ISBN
	}
	if in.Genre != "" {
		b.Genre = in.Genre
	}

	if err := s.repo.Update(ctx, b); err != nil {
		s.log.Error("failed to update book", zap.String("id", in.ID), zap.Error(err))
		return nil, err
	}
	return toDTO(b), nil
}

// DeleteBook deletes a book by id. Deleting an absent book succeeds.
func (s *Service) DeleteBook(ctx context.Context, id string) error {
	s.log.Info("deleting book", zap.String("id", id))

	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.Error("failed to delete book", zap.String("id", id), zap.Error(err))
		return err
	}
	return nil
}

// GetBook retrieves a book by id.
func (s *Service) GetBook(ctx context.Context, id string) (*Book, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toDTO(b), nil
}

// ListBooks returns all books in insertion order.
func (s *Service) ListBooks(ctx context.Context) ([]Book, error) {
	domainBooks, err := s.repo.GetAll(ctx)
	if err != nil {
		s.log.Error("failed to list books", zap.Error(err))
		return nil, err
	}

	books := make([]Book, len(domainBooks))
	for i, db := range domainBooks {
		books[i] = *toDTO(&db)
	}
	return books, nil
}

// LendBook transitions a book from available to lent. The checks run in a
// fixed order: the book must exist, must not already be lent out, and the
// borrower must exist. That order decides which error a malformed request
// surfaces first.
func (s *Service) LendBook(ctx context.Context, in LendBookRequest) (*LendBookResponse, error) {
	s.log.Info("lending book", zap.String("book_id", in.BookID), zap.String("user_id", in.UserID))

	if err := s.validate.Struct(in); err != nil {
		s.log.Warn("validate failed", zap.Error(err))
		return nil, apperrors.NewValidationError("A user id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.repo.GetByID(ctx, in.BookID)
	if err != nil {
		return nil, err
	}
	if b.Loan.State() == domain.Lent {
		s.log.Warn("book already lent out", zap.String("book_id", in.BookID), zap.String("holder", b.Loan.Holder))
		return nil, apperrors.NewConflictError("Book is already lent out")
	}
	borrower, err := s.users.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	b.Loan.Holder = borrower.ID
	b.Loan.LentAt = time.Now().UTC()

	if err := s.repo.Update(ctx, b); err != nil {
		s.log.Error("failed to persist lend", zap.String("book_id", in.BookID), zap.Error(err))
		return nil, err
	}

	s.log.Info("book lent", zap.String("book_id", b.ID), zap.String("user_id", borrower.ID))
	return &LendBookResponse{
		Message: fmt.Sprintf("%s has been lent to %s", b.Title, borrower.Name),
		Book:    *toDTO(b),
	}, nil
}

// ReturnBook transitions a book from lent back to available. The checks run
// in a fixed order: the book must exist, must currently be lent out, and the
// returning user must be the holder. The lent date is left from the prior
// loan as residual evidence; only the return date is stamped.
func (s *Service) ReturnBook(ctx context.Context, in ReturnBookRequest) (*ReturnBookResponse, error) {
	s.log.Info("returning book", zap.String("book_id", in.BookID), zap.String("user_id", in.UserID))

	if err := s.validate.Struct(in); err != nil {
		s.log.Warn("validate failed", zap.Error(err))
		return nil, apperrors.NewValidationError("A user id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.repo.GetByID(ctx, in.BookID)
	if err != nil {
		return nil, err
	}
	if b.Loan.State() == domain.Available {
		s.log.Warn("book not lent out", zap.String("book_id", in.BookID))
		return nil, apperrors.NewConflictError("Book is not currently lent out")
	}
	if b.Loan.Holder != in.UserID {
		s.log.Warn("return attempted by wrong user",
			zap.String("book_id", in.BookID),
			zap.String("holder", b.Loan.Holder),
			zap.String("user_id", in.UserID))
		return nil, apperrors.NewForbiddenError("Book can only be returned by the user it is lent to")
	}

	// The holder may have been deleted while the loan was open; fall back
	// to the raw id for the confirmation message.
	name := in.UserID
	if u, err := s.users.GetByID(ctx, in.UserID); err == nil {
		name = u.Name
	}

	b.Loan.Holder = ""
	b.Loan.ReturnedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, b); err != nil {
		s.log.Error("failed to persist return", zap.String("book_id", in.BookID), zap.Error(err))
		return nil, err
	}

	s.log.Info("book returned", zap.String("book_id", b.ID), zap.String("user_id", in.UserID))
	return &ReturnBookResponse{
		Message: fmt.Sprintf("%s has been returned by %s", b.Title, name),
		Book: ReturnedBook{
			ID:    b.ID,
			Title: b.Title,
		},
	}, nil
}

func toDTO(b *domain.Book) *Book {
	return &Book{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		PublishedDate: b.PublishedDate,
		ISBN:          b.ISBN,
		Genre:         b.Genre,
		LentTo:        b.Loan.Holder,
		LentDate:      b.Loan.LentAt,
		ReturnDate:    b.Loan.ReturnedAt,
	}
}
