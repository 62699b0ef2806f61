package jsonfile

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	domain "library-service/internal/domain/user"
	apperrors "library-service/pkg/errors"
	"library-service/pkg/jsonstore"
)

const usersCollection = "users"

// userRecord is the wire shape of a user inside users.json.
type userRecord struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	JoinedDate time.Time `json:"joinedDate"`
}

func userToRecord(u *domain.User) userRecord {
	return userRecord{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		JoinedDate: u.JoinedDate,
	}
}

func userFromRecord(rec userRecord) domain.User {
	return domain.User(rec)
}

// UserRepo keeps the authoritative user collection in memory, loaded once at
// construction, and mirrors every mutation to the JSON store wholesale.
type UserRepo struct {
	mu    sync.RWMutex
	store *jsonstore.Store
	users []userRecord
	log   *zap.Logger
}

// NewUserRepo creates a UserRepo and loads the existing collection from disk.
func NewUserRepo(store *jsonstore.Store, log *zap.Logger) (*UserRepo, error) {
	r := &UserRepo{store: store, log: log}
	if err := store.Load(usersCollection, &r.users); err != nil {
		return nil, err
	}
	if r.users == nil {
		// keep the persisted form a JSON array, never null
		r.users = []userRecord{}
	}
	log.Info("user collection loaded", zap.Int("count", len(r.users)))
	return r, nil
}

// GetByID retrieves a user by id, scanning the collection linearly.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.users {
		if rec.ID == id {
			u := userFromRecord(rec)
			return &u, nil
		}
	}
	return nil, apperrors.NewNotFoundError("user", "User not found")
}

// GetByEmail retrieves a user by email. A missing email is not an error;
// it returns (nil, nil) so uniqueness checks can distinguish absence from
// failure.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, rec := range r.users {
		if rec.Email == email {
			u := userFromRecord(rec)
			return &u, nil
		}
	}
	return nil, nil
}

// GetAll returns the collection in insertion order.
func (r *UserRepo) GetAll(ctx context.Context) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]domain.User, len(r.users))
	for i, rec := range r.users {
		users[i] = userFromRecord(rec)
	}
	return users, nil
}

// Create appends the user to the collection and persists it.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.users = append(r.users, userToRecord(u))
	return r.persist()
}

// Update replaces the stored user with the same id and persists the
// collection.
func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, rec := range r.users {
		if rec.ID == u.ID {
			r.users[i] = userToRecord(u)
			return r.persist()
		}
	}
	return apperrors.NewNotFoundError("user", "User not found")
}

// Delete removes the user with the given id. Deleting an absent id is a
// no-op reported as success, matching the API's idempotent delete.
func (r *UserRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.users[:0]
	for _, rec := range r.users {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	r.users = kept
	return r.persist()
}

func (r *UserRepo) persist() error {
	if err := r.store.Save(usersCollection, r.users); err != nil {
		r.log.Error("failed to persist user collection", zap.Error(err))
		return apperrors.NewInternalError("failed to persist users", err)
	}
	return nil
}
