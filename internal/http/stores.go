package http

import (
	"context"

	"github.com/mrlokans/lingua/internal/docstore"
	"github.com/mrlokans/lingua/internal/entities"
)

// Each controller depends on the narrow interface below. The repositories in
// internal/database satisfy them.

// EntryFinder resolves one vocabulary entry inside a lesson.
type EntryFinder interface {
	FindEntry(ctx context.Context, lessonID, pronunciation string) (*entities.Vocabulary, error)
}

// LessonStore defines lesson and vocabulary entry operations.
type LessonStore interface {
	EntryFinder
	List(ctx context.Context) ([]entities.Lesson, error)
	Get(ctx context.Context, id string) (*entities.Lesson, error)
	Create(ctx context.Context, lesson entities.Lesson) (docstore.InsertResult, error)
	Delete(ctx context.Context, id string) (docstore.DeleteResult, error)
	AppendEntry(ctx context.Context, lessonID string, entry entities.Vocabulary) (docstore.UpdateResult, error)
	ReplaceEntry(ctx context.Context, lessonID, pronunciation string, entry entities.Vocabulary) (docstore.UpdateResult, error)
	DeleteEntry(ctx context.Context, lessonID, pronunciation string) (docstore.UpdateResult, error)
}

// UserStore defines the user directory operations.
type UserStore interface {
	SaveIfAbsent(ctx context.Context, user entities.User) (*entities.User, docstore.UpdateResult, error)
	GetByEmail(ctx context.Context, email string) (*entities.User, error)
	List(ctx context.Context) ([]entities.User, error)
	UpdateRole(ctx context.Context, email string, role entities.Role) (docstore.UpdateResult, error)
}

type TutorialStore interface {
	List(ctx context.Context) ([]entities.Tutorial, error)
	Create(ctx context.Context, tutorial entities.Tutorial) (docstore.InsertResult, error)
}

// BookmarkStore defines per-user bookmark operations.
type BookmarkStore interface {
	ListByUser(ctx context.Context, email string) ([]entities.Bookmark, error)
	Create(ctx context.Context, bookmark *entities.Bookmark) (docstore.InsertResult, error)
	Delete(ctx context.Context, id, email string) (docstore.DeleteResult, error)
}

// Pinger reports store connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}
