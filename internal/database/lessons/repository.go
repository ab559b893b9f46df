// Package lessons stores lessons and the vocabulary entries inside them.
//
// Entries are addressed by their pronunciation. Uniqueness of that key
// within a lesson is not enforced on write, so lookups and replaces act on
// the first match while deletes remove every match.
//
// # Usage
//
//	repo := lessons.NewRepository(store.Collection(lessons.CollectionName))
//	entry, err := repo.FindEntry(ctx, lessonID, "kæt")
package lessons

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"

	"github.com/mrlokans/lingua/internal/docstore"
	"github.com/mrlokans/lingua/internal/entities"
)

const (
	CollectionName = "lessons"

	vocabulariesField  = "vocabularies"
	pronunciationField = "pronunciation"
)

var (
	ErrLessonNotFound = errors.New("lesson not found")
	ErrEntryNotFound  = errors.New("vocabulary entry not found")
)

// Repository handles lesson documents and their vocabulary sub-documents.
type Repository struct {
	coll docstore.Collection
}

func NewRepository(coll docstore.Collection) *Repository {
	return &Repository{coll: coll}
}

// List returns every lesson in insertion order.
func (r *Repository) List(ctx context.Context) ([]entities.Lesson, error) {
	docs, err := r.coll.Find(ctx, docstore.Filter{})
	if err != nil {
		return nil, err
	}

	lessons := make([]entities.Lesson, 0, len(docs))
	for _, doc := range docs {
		var lesson entities.Lesson
		if err := docstore.Decode(doc, &lesson); err != nil {
			return nil, fmt.Errorf("decode lesson %s: %w", docstore.IDOf(doc), err)
		}
		lessons = append(lessons, lesson)
	}
	return lessons, nil
}

// Get returns a lesson by id.
func (r *Repository) Get(ctx context.Context, id string) (*entities.Lesson, error) {
	if err := docstore.ValidateID(id); err != nil {
		return nil, err
	}

	doc, err := r.coll.FindOne(ctx, docstore.ByID(id))
	if err != nil {
		if errors.Is(err, docstore.ErrNoDocuments) {
			return nil, ErrLessonNotFound
		}
		return nil, err
	}

	var lesson entities.Lesson
	if err := docstore.Decode(doc, &lesson); err != nil {
		return nil, fmt.Errorf("decode lesson %s: %w", id, err)
	}
	return &lesson, nil
}

// Create inserts lesson. A caller-provided id is ignored.
func (r *Repository) Create(ctx context.Context, lesson entities.Lesson) (docstore.InsertResult, error) {
	lesson.ID = ""
	doc, err := docstore.Encode(lesson)
	if err != nil {
		return docstore.InsertResult{}, err
	}
	return r.coll.InsertOne(ctx, doc)
}

// Delete removes a lesson. Zero deleted is not an error.
func (r *Repository) Delete(ctx context.Context, id string) (docstore.DeleteResult, error) {
	if err := docstore.ValidateID(id); err != nil {
		return docstore.DeleteResult{}, err
	}
	return r.coll.DeleteOne(ctx, docstore.ByID(id))
}

// FindEntry returns the first entry of the lesson whose pronunciation equals
// pronunciation byte for byte.
func (r *Repository) FindEntry(ctx context.Context, lessonID, pronunciation string) (*entities.Vocabulary, error) {
	lesson, err := r.Get(ctx, lessonID)
	if err != nil {
		return nil, err
	}

	entry, found := lo.Find(lesson.Vocabularies, func(v entities.Vocabulary) bool {
		return v.Pronunciation == pronunciation
	})
	if !found {
		return nil, ErrEntryNotFound
	}
	return &entry, nil
}

// AppendEntry pushes entry to the end of the lesson's vocabularies. It does
// not deduplicate. A missing lesson yields zero counts.
func (r *Repository) AppendEntry(ctx context.Context, lessonID string, entry entities.Vocabulary) (docstore.UpdateResult, error) {
	if err := docstore.ValidateID(lessonID); err != nil {
		return docstore.UpdateResult{}, err
	}
	return r.coll.UpdateOne(ctx, docstore.ByID(lessonID), docstore.Update{
		Push: map[string]any{vocabulariesField: entry},
	})
}

// ReplaceEntry swaps the whole first entry matching pronunciation for entry
// in one conditional update. The replacement may carry a different
// pronunciation. When nothing matched, a single read tells a missing lesson
// apart from a missing entry.
func (r *Repository) ReplaceEntry(ctx context.Context, lessonID, pronunciation string, entry entities.Vocabulary) (docstore.UpdateResult, error) {
	if err := docstore.ValidateID(lessonID); err != nil {
		return docstore.UpdateResult{}, err
	}

	filter := docstore.ByID(lessonID).WithElem(vocabulariesField, pronunciationField, pronunciation)
	result, err := r.coll.UpdateOne(ctx, filter, docstore.Update{ReplaceMatched: entry})
	if err != nil {
		return docstore.UpdateResult{}, err
	}
	if result.MatchedCount > 0 {
		return result, nil
	}

	if _, err := r.coll.FindOne(ctx, docstore.ByID(lessonID)); err != nil {
		if errors.Is(err, docstore.ErrNoDocuments) {
			return docstore.UpdateResult{}, ErrLessonNotFound
		}
		return docstore.UpdateResult{}, err
	}
	return docstore.UpdateResult{}, ErrEntryNotFound
}

// DeleteEntry pulls every entry whose pronunciation equals pronunciation.
// A lesson without such an entry is not matched; zero counts are not an
// error.
func (r *Repository) DeleteEntry(ctx context.Context, lessonID, pronunciation string) (docstore.UpdateResult, error) {
	if err := docstore.ValidateID(lessonID); err != nil {
		return docstore.UpdateResult{}, err
	}
	filter := docstore.ByID(lessonID).WithElem(vocabulariesField, pronunciationField, pronunciation)
	return r.coll.UpdateOne(ctx, filter, docstore.Update{
		Pull: &docstore.ElemMatch{Array: vocabulariesField, Field: pronunciationField, Value: pronunciation},
	})
}
