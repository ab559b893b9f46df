// Package resets stores pending password resets keyed by token hash.
package resets

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mrlokans/lingua/internal/docstore"
	"github.com/mrlokans/lingua/internal/entities"
)

const CollectionName = "password_resets"

var ErrResetNotFound = errors.New("password reset not found")

type Repository struct {
	coll docstore.Collection
}

func NewRepository(coll docstore.Collection) *Repository {
	return &Repository{coll: coll}
}

func (r *Repository) Create(ctx context.Context, reset *entities.PasswordReset) error {
	reset.ID = ""
	doc, err := docstore.Encode(reset)
	if err != nil {
		return err
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	reset.ID = res.InsertedID
	return nil
}

func (r *Repository) FindByTokenHash(ctx context.Context, tokenHash string) (*entities.PasswordReset, error) {
	doc, err := r.coll.FindOne(ctx, docstore.ByField("tokenHash", tokenHash))
	if err != nil {
		if errors.Is(err, docstore.ErrNoDocuments) {
			return nil, ErrResetNotFound
		}
		return nil, err
	}

	var reset entities.PasswordReset
	if err := docstore.Decode(doc, &reset); err != nil {
		return nil, fmt.Errorf("decode password reset: %w", err)
	}
	return &reset, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	if err := docstore.ValidateID(id); err != nil {
		return err
	}
	_, err := r.coll.DeleteOne(ctx, docstore.ByID(id))
	return err
}

// PurgeExpired deletes every reset that expired before now and returns how
// many were removed.
func (r *Repository) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	docs, err := r.coll.Find(ctx, docstore.Filter{})
	if err != nil {
		return 0, err
	}

	purged := 0
	for _, doc := range docs {
		var reset entities.PasswordReset
		if err := docstore.Decode(doc, &reset); err != nil {
			return purged, fmt.Errorf("decode password reset %s: %w", docstore.IDOf(doc), err)
		}
		if !reset.IsExpired(now) {
			continue
		}
		res, err := r.coll.DeleteOne(ctx, docstore.ByID(reset.ID))
		if err != nil {
			return purged, err
		}
		purged += int(res.DeletedCount)
	}
	return purged, nil
}
