// Package users provides document-store operations for user accounts.
//
// # Usage
//
//	repo := users.NewRepository(store.Collection(users.CollectionName))
//	user, err := repo.GetByEmail(ctx, email)
package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mrlokans/lingua/internal/docstore"
	"github.com/mrlokans/lingua/internal/entities"
)

const CollectionName = "users"

var ErrUserNotFound = errors.New("user not found")

// record is the stored shape of a user. The password hash lives here and
// not on entities.User so it never reaches a JSON response.
type record struct {
	entities.User
	Password string `json:"password,omitempty"`
}

func (r record) toEntity() *entities.User {
	user := r.User
	user.PasswordHash = r.Password
	return &user
}

// Repository handles all user operations.
type Repository struct {
	coll docstore.Collection
	now  func() time.Time
}

func NewRepository(coll docstore.Collection) *Repository {
	return &Repository{coll: coll, now: time.Now}
}

// Create inserts user. Role defaults to entities.RoleUser.
func (r *Repository) Create(ctx context.Context, user *entities.User) (docstore.InsertResult, error) {
	rec := record{User: *user, Password: user.PasswordHash}
	rec.ID = ""
	if rec.Role == "" {
		rec.Role = entities.RoleUser
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = r.now().UTC()
	}

	doc, err := docstore.Encode(rec)
	if err != nil {
		return docstore.InsertResult{}, err
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return docstore.InsertResult{}, err
	}

	user.ID = res.InsertedID
	user.Role = rec.Role
	user.CreatedAt = rec.CreatedAt
	return res, nil
}

// SaveIfAbsent upserts user keyed by email. It never overwrites an
// existing account; existing is non-nil when the email was already taken.
func (r *Repository) SaveIfAbsent(ctx context.Context, user entities.User) (existing *entities.User, result docstore.UpdateResult, err error) {
	existing, err = r.GetByEmail(ctx, user.Email)
	if err == nil {
		return existing, docstore.UpdateResult{}, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, docstore.UpdateResult{}, err
	}

	if user.Role == "" {
		user.Role = entities.RoleUser
	}
	set := docstore.Document{
		"name":      user.Name,
		"img":       user.Img,
		"role":      user.Role,
		"createdAt": r.now().UTC(),
	}
	result, err = r.coll.UpdateOne(ctx, docstore.ByField("email", user.Email), docstore.Update{Set: set}, docstore.WithUpsert())
	if err != nil {
		return nil, docstore.UpdateResult{}, err
	}
	return nil, result, nil
}

func (r *Repository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.findOne(ctx, docstore.ByField("email", email))
}

func (r *Repository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	if err := docstore.ValidateID(id); err != nil {
		return nil, ErrUserNotFound
	}
	return r.findOne(ctx, docstore.ByID(id))
}

// List returns all users in insertion order.
func (r *Repository) List(ctx context.Context) ([]entities.User, error) {
	docs, err := r.coll.Find(ctx, docstore.Filter{})
	if err != nil {
		return nil, err
	}

	out := make([]entities.User, 0, len(docs))
	for _, doc := range docs {
		var rec record
		if err := docstore.Decode(doc, &rec); err != nil {
			return nil, fmt.Errorf("decode user %s: %w", docstore.IDOf(doc), err)
		}
		out = append(out, *rec.toEntity())
	}
	return out, nil
}

// UpdateRole sets the role of the user with email. Zero matched means no
// such user.
func (r *Repository) UpdateRole(ctx context.Context, email string, role entities.Role) (docstore.UpdateResult, error) {
	return r.coll.UpdateOne(ctx, docstore.ByField("email", email), docstore.Update{
		Set: docstore.Document{"role": role},
	})
}

func (r *Repository) UpdatePassword(ctx context.Context, email, passwordHash string) error {
	res, err := r.coll.UpdateOne(ctx, docstore.ByField("email", email), docstore.Update{
		Set: docstore.Document{"password": passwordHash},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *Repository) findOne(ctx context.Context, filter docstore.Filter) (*entities.User, error) {
	doc, err := r.coll.FindOne(ctx, filter)
	if err != nil {
		if errors.Is(err, docstore.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	var rec record
	if err := docstore.Decode(doc, &rec); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return rec.toEntity(), nil
}
