package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/lingua/internal/auth"
	"github.com/mrlokans/lingua/internal/database/bookmarks"
	"github.com/mrlokans/lingua/internal/docstore"
	"github.com/mrlokans/lingua/internal/entities"
)

// BookmarksController manages the caller's own bookmarks. Every route runs
// behind VerifyToken.
type BookmarksController struct {
	store   BookmarkStore
	entries EntryFinder
}

func NewBookmarksController(store BookmarkStore, entries EntryFinder) *BookmarksController {
	return &BookmarksController{store: store, entries: entries}
}

// GET /bookmarks
func (bc *BookmarksController) ListBookmarks(c *gin.Context) {
	list, err := bc.store.ListByUser(c.Request.Context(), auth.GetEmail(c))
	if err != nil {
		respondInternalError(c, err, "list bookmarks")
		return
	}
	c.JSON(http.StatusOK, list)
}

type createBookmarkRequest struct {
	LessonID      string `json:"lessonId"`
	Pronunciation string `json:"pronunciation"`
}

// CreateBookmark bookmarks an existing vocabulary entry.
// POST /bookmark
func (bc *BookmarksController) CreateBookmark(c *gin.Context) {
	var req createBookmarkRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.LessonID == "" || req.Pronunciation == "" {
		respondBadRequest(c, "lessonId and pronunciation are required")
		return
	}

	ctx := c.Request.Context()
	if _, err := bc.entries.FindEntry(ctx, req.LessonID, req.Pronunciation); err != nil {
		respondLessonError(c, err, "find bookmarked entry")
		return
	}

	res, err := bc.store.Create(ctx, &entities.Bookmark{
		UserEmail:     auth.GetEmail(c),
		LessonID:      req.LessonID,
		Pronunciation: req.Pronunciation,
	})
	if err != nil {
		if errors.Is(err, bookmarks.ErrBookmarkExists) {
			respondError(c, http.StatusConflict, "bookmark already exists")
			return
		}
		respondInternalError(c, err, "create bookmark")
		return
	}
	respondCreated(c, res)
}

// DeleteBookmark removes one of the caller's bookmarks. Other users'
// bookmarks are never matched.
// DELETE /bookmark/:id
func (bc *BookmarksController) DeleteBookmark(c *gin.Context) {
	res, err := bc.store.Delete(c.Request.Context(), c.Param("id"), auth.GetEmail(c))
	if err != nil {
		if errors.Is(err, docstore.ErrMalformedID) {
			respondBadRequest(c, "invalid bookmark id")
			return
		}
		respondInternalError(c, err, "delete bookmark")
		return
	}
	c.JSON(http.StatusOK, res)
}
