package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/lingua/internal/auth"
	"github.com/mrlokans/lingua/internal/entities"
)

type LessonsController struct {
	store LessonStore
}

func NewLessonsController(store LessonStore) *LessonsController {
	return &LessonsController{store: store}
}

// ListLessons returns all lessons.
// GET /lessons
func (lc *LessonsController) ListLessons(c *gin.Context) {
	lessons, err := lc.store.List(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "list lessons")
		return
	}
	c.JSON(http.StatusOK, lessons)
}

// GetLesson returns one lesson.
// GET /lesson/:id
func (lc *LessonsController) GetLesson(c *gin.Context) {
	lesson, err := lc.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondLessonError(c, err, "get lesson")
		return
	}
	c.JSON(http.StatusOK, lesson)
}

// CreateLesson inserts a lesson. The author defaults to the caller.
// POST /lesson
func (lc *LessonsController) CreateLesson(c *gin.Context) {
	var lesson entities.Lesson
	if !bindJSON(c, &lesson) {
		return
	}
	if lesson.AdminEmail == "" {
		lesson.AdminEmail = auth.GetEmail(c)
	}

	res, err := lc.store.Create(c.Request.Context(), lesson)
	if err != nil {
		respondInternalError(c, err, "create lesson")
		return
	}
	respondCreated(c, res)
}

// DeleteLesson removes a lesson and every entry in it.
// DELETE /lesson/delete/:id
func (lc *LessonsController) DeleteLesson(c *gin.Context) {
	res, err := lc.store.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondLessonError(c, err, "delete lesson")
		return
	}
	c.JSON(http.StatusOK, res)
}

// AppendVocabulary adds an entry at the end of a lesson. Duplicates are
// allowed.
// PATCH /lesson/vocab/:id
func (lc *LessonsController) AppendVocabulary(c *gin.Context) {
	var entry entities.Vocabulary
	if !bindJSON(c, &entry) {
		return
	}

	res, err := lc.store.AppendEntry(c.Request.Context(), c.Param("id"), entry)
	if err != nil {
		respondLessonError(c, err, "append vocabulary")
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetVocabulary returns the first entry with the given pronunciation.
// GET /vocab/:id/:pronunciation
func (lc *LessonsController) GetVocabulary(c *gin.Context) {
	entry, err := lc.store.FindEntry(c.Request.Context(), c.Param("id"), c.Param("pronunciation"))
	if err != nil {
		respondLessonError(c, err, "get vocabulary")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// UpdateVocabulary replaces the whole first matching entry.
// PATCH /vocab/update/:id/:pronunciation
func (lc *LessonsController) UpdateVocabulary(c *gin.Context) {
	var entry entities.Vocabulary
	if !bindJSON(c, &entry) {
		return
	}

	res, err := lc.store.ReplaceEntry(c.Request.Context(), c.Param("id"), c.Param("pronunciation"), entry)
	if err != nil {
		respondLessonError(c, err, "update vocabulary")
		return
	}
	c.JSON(http.StatusOK, res)
}

// DeleteVocabulary removes every entry with the given pronunciation.
// DELETE /vocab/delete/:id/:pronunciation
func (lc *LessonsController) DeleteVocabulary(c *gin.Context) {
	res, err := lc.store.DeleteEntry(c.Request.Context(), c.Param("id"), c.Param("pronunciation"))
	if err != nil {
		respondLessonError(c, err, "delete vocabulary")
		return
	}
	c.JSON(http.StatusOK, res)
}
