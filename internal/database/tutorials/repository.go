// Package tutorials stores tutorial videos.
package tutorials

import (
	"context"
	"fmt"

	"github.com/mrlokans/lingua/internal/docstore"
	"github.com/mrlokans/lingua/internal/entities"
)

const CollectionName = "tutorials"

type Repository struct {
	coll docstore.Collection
}

func NewRepository(coll docstore.Collection) *Repository {
	return &Repository{coll: coll}
}

func (r *Repository) List(ctx context.Context) ([]entities.Tutorial, error) {
	docs, err := r.coll.Find(ctx, docstore.Filter{})
	if err != nil {
		return nil, err
	}

	out := make([]entities.Tutorial, 0, len(docs))
	for _, doc := range docs {
		var tut entities.Tutorial
		if err := docstore.Decode(doc, &tut); err != nil {
			return nil, fmt.Errorf("decode tutorial %s: %w", docstore.IDOf(doc), err)
		}
		out = append(out, tut)
	}
	return out, nil
}

func (r *Repository) Create(ctx context.Context, tutorial entities.Tutorial) (docstore.InsertResult, error) {
	tutorial.ID = ""
	doc, err := docstore.Encode(tutorial)
	if err != nil {
		return docstore.InsertResult{}, err
	}
	return r.coll.InsertOne(ctx, doc)
}
