// Package bookmarks stores per-user bookmarks of vocabulary entries.
package bookmarks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mrlokans/lingua/internal/docstore"
	"github.com/mrlokans/lingua/internal/entities"
)

const CollectionName = "bookmarks"

var ErrBookmarkExists = errors.New("bookmark already exists")

type Repository struct {
	coll docstore.Collection
	now  func() time.Time
}

func NewRepository(coll docstore.Collection) *Repository {
	return &Repository{coll: coll, now: time.Now}
}

// ListByUser returns the bookmarks owned by email, oldest first.
func (r *Repository) ListByUser(ctx context.Context, email string) ([]entities.Bookmark, error) {
	docs, err := r.coll.Find(ctx, docstore.ByField("userEmail", email))
	if err != nil {
		return nil, err
	}

	out := make([]entities.Bookmark, 0, len(docs))
	for _, doc := range docs {
		var b entities.Bookmark
		if err := docstore.Decode(doc, &b); err != nil {
			return nil, fmt.Errorf("decode bookmark %s: %w", docstore.IDOf(doc), err)
		}
		out = append(out, b)
	}
	return out, nil
}

// Create stores a bookmark unless the same user already bookmarked the same
// entry.
func (r *Repository) Create(ctx context.Context, bookmark *entities.Bookmark) (docstore.InsertResult, error) {
	filter := docstore.ByField("userEmail", bookmark.UserEmail).
		And("lessonId", bookmark.LessonID).
		And("pronunciation", bookmark.Pronunciation)

	_, err := r.coll.FindOne(ctx, filter)
	if err == nil {
		return docstore.InsertResult{}, ErrBookmarkExists
	}
	if !errors.Is(err, docstore.ErrNoDocuments) {
		return docstore.InsertResult{}, err
	}

	bookmark.ID = ""
	bookmark.CreatedAt = r.now().UTC()
	doc, err := docstore.Encode(bookmark)
	if err != nil {
		return docstore.InsertResult{}, err
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return docstore.InsertResult{}, err
	}
	bookmark.ID = res.InsertedID
	return res, nil
}

// Delete removes the bookmark id only when it belongs to email.
func (r *Repository) Delete(ctx context.Context, id, email string) (docstore.DeleteResult, error) {
	if err := docstore.ValidateID(id); err != nil {
		return docstore.DeleteResult{}, err
	}
	return r.coll.DeleteOne(ctx, docstore.ByID(id).And("userEmail", email))
}
