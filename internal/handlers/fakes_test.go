package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/recordbook/apiserver/internal/session"
	"github.com/recordbook/apiserver/internal/store"
	"github.com/recordbook/apiserver/types"
)

// In-memory repository fakes mirroring the store package's contract,
// including its sentinel errors and uniqueness rules.

type fakeUserRepo struct {
	users []types.User
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (types.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUserRepo) GetByIdentifier(_ context.Context, identifier string) (types.User, error) {
	for _, u := range f.users {
		if (u.Username != "" && u.Username == identifier) || u.Email == identifier {
			return u, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (types.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUserRepo) GetByGoogleID(_ context.Context, googleID string) (types.User, error) {
	for _, u := range f.users {
		if u.GoogleID != "" && u.GoogleID == googleID {
			return u, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUserRepo) FindDuplicate(_ context.Context, username, email string) (types.User, error) {
	for _, u := range f.users {
		if (u.Username != "" && u.Username == username) || u.Email == email {
			return u, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUserRepo) List(_ context.Context) ([]types.User, error) {
	return append([]types.User{}, f.users...), nil
}

func (f *fakeUserRepo) Create(_ context.Context, user types.User) (types.User, error) {
	for _, u := range f.users {
		if (user.Username != "" && u.Username == user.Username) || u.Email == user.Email {
			return types.User{}, store.ErrConflict
		}
	}
	now := time.Now()
	user.ID = uuid.New()
	user.CreatedAt = now
	user.UpdatedAt = now
	f.users = append(f.users, user)
	return user, nil
}

func (f *fakeUserRepo) Update(_ context.Context, user types.User) (types.User, error) {
	for _, u := range f.users {
		if u.ID == user.ID {
			continue
		}
		if (user.Username != "" && u.Username == user.Username) || u.Email == user.Email {
			return types.User{}, store.ErrConflict
		}
	}
	for i, u := range f.users {
		if u.ID == user.ID {
			user.UpdatedAt = time.Now()
			f.users[i] = user
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, u := range f.users {
		if u.ID == id {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

type fakeCategoryRepo struct {
	categories []types.Category
}

func (f *fakeCategoryRepo) GetByID(_ context.Context, id uuid.UUID) (types.Category, error) {
	for _, c := range f.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return types.Category{}, store.ErrNotFound
}

func (f *fakeCategoryRepo) List(_ context.Context) ([]types.Category, error) {
	return append([]types.Category{}, f.categories...), nil
}

func (f *fakeCategoryRepo) Create(_ context.Context, category types.Category) (types.Category, error) {
	for _, c := range f.categories {
		if c.OwnerID == category.OwnerID && c.Name == category.Name {
			return types.Category{}, store.ErrConflict
		}
	}
	now := time.Now()
	category.ID = uuid.New()
	category.CreatedAt = now
	category.UpdatedAt = now
	f.categories = append(f.categories, category)
	return category, nil
}

func (f *fakeCategoryRepo) Update(_ context.Context, category types.Category) (types.Category, error) {
	for _, c := range f.categories {
		if c.ID == category.ID {
			continue
		}
		if c.OwnerID == category.OwnerID && c.Name == category.Name {
			return types.Category{}, store.ErrConflict
		}
	}
	for i, c := range f.categories {
		if c.ID == category.ID {
			category.UpdatedAt = time.Now()
			f.categories[i] = category
			return category, nil
		}
	}
	return types.Category{}, store.ErrNotFound
}

func (f *fakeCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, c := range f.categories {
		if c.ID == id {
			f.categories = append(f.categories[:i], f.categories[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

type fakeRecordRepo struct {
	records []types.Record
}

func (f *fakeRecordRepo) GetByID(_ context.Context, id uuid.UUID) (types.Record, error) {
	for _, r := range f.records {
		if r.ID == id {
			return r, nil
		}
	}
	return types.Record{}, store.ErrNotFound
}

func (f *fakeRecordRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]types.Record, error) {
	owned := []types.Record{}
	for _, r := range f.records {
		if r.OwnerID == ownerID {
			owned = append(owned, r)
		}
	}
	return owned, nil
}

func (f *fakeRecordRepo) Create(_ context.Context, record types.Record) (types.Record, error) {
	now := time.Now()
	record.ID = uuid.New()
	record.CreatedAt = now
	record.UpdatedAt = now
	f.records = append(f.records, record)
	return record, nil
}

func (f *fakeRecordRepo) Update(_ context.Context, record types.Record) (types.Record, error) {
	for i, r := range f.records {
		if r.ID == record.ID {
			record.UpdatedAt = time.Now()
			f.records[i] = record
			return record, nil
		}
	}
	return types.Record{}, store.ErrNotFound
}

func (f *fakeRecordRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, r := range f.records {
		if r.ID == id {
			f.records = append(f.records[:i], f.records[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeRecordRepo) DeleteByOwner(_ context.Context, ownerID uuid.UUID) error {
	kept := f.records[:0]
	for _, r := range f.records {
		if r.OwnerID != ownerID {
			kept = append(kept, r)
		}
	}
	f.records = kept
	return nil
}

func (f *fakeRecordRepo) DetachCategory(_ context.Context, categoryID uuid.UUID) error {
	for i, r := range f.records {
		if r.CategoryID != nil && *r.CategoryID == categoryID {
			f.records[i].CategoryID = nil
		}
	}
	return nil
}

type fakeCommentRepo struct {
	comments []types.Comment
}

func (f *fakeCommentRepo) GetByID(_ context.Context, id uuid.UUID) (types.Comment, error) {
	for _, c := range f.comments {
		if c.ID == id {
			return c, nil
		}
	}
	return types.Comment{}, store.ErrNotFound
}

func (f *fakeCommentRepo) List(_ context.Context) ([]types.Comment, error) {
	return append([]types.Comment{}, f.comments...), nil
}

func (f *fakeCommentRepo) ListByRecord(_ context.Context, recordID uuid.UUID) ([]types.Comment, error) {
	matched := []types.Comment{}
	for _, c := range f.comments {
		if c.RecordID == recordID {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

func (f *fakeCommentRepo) Create(_ context.Context, comment types.Comment) (types.Comment, error) {
	now := time.Now()
	comment.ID = uuid.New()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	f.comments = append(f.comments, comment)
	return comment, nil
}

func (f *fakeCommentRepo) Update(_ context.Context, comment types.Comment) (types.Comment, error) {
	for i, c := range f.comments {
		if c.ID == comment.ID {
			comment.UpdatedAt = time.Now()
			f.comments[i] = comment
			return comment, nil
		}
	}
	return types.Comment{}, store.ErrNotFound
}

func (f *fakeCommentRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, c := range f.comments {
		if c.ID == id {
			f.comments = append(f.comments[:i], f.comments[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

// typesUser builds a user value for seeding fakes directly.
func typesUser(username, email, passwordHash, googleID string) types.User {
	return types.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		GoogleID:     googleID,
	}
}

// fakeSessionStore keeps sessions and OAuth states in memory.
type fakeSessionStore struct {
	sessions map[string]uuid.UUID
	states   map[string]bool
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions: map[string]uuid.UUID{},
		states:   map[string]bool{},
	}
}

func (f *fakeSessionStore) Create(_ context.Context, userID uuid.UUID) (string, error) {
	token := uuid.NewString()
	f.sessions[token] = userID
	return token, nil
}

func (f *fakeSessionStore) Resolve(_ context.Context, token string) (uuid.UUID, error) {
	userID, ok := f.sessions[token]
	if !ok {
		return uuid.Nil, session.ErrNoSession
	}
	return userID, nil
}

func (f *fakeSessionStore) Destroy(_ context.Context, token string) error {
	delete(f.sessions, token)
	return nil
}

func (f *fakeSessionStore) SetState(_ context.Context, state string, _ time.Duration) error {
	f.states[state] = true
	return nil
}

func (f *fakeSessionStore) ConsumeState(_ context.Context, state string) (bool, error) {
	ok := f.states[state]
	delete(f.states, state)
	return ok, nil
}
