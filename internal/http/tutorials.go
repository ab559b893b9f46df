package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/lingua/internal/entities"
)

type TutorialsController struct {
	store TutorialStore
}

func NewTutorialsController(store TutorialStore) *TutorialsController {
	return &TutorialsController{store: store}
}

// GET /tutorials
func (tc *TutorialsController) ListTutorials(c *gin.Context) {
	tutorials, err := tc.store.List(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "list tutorials")
		return
	}
	c.JSON(http.StatusOK, tutorials)
}

// POST /tutorial
func (tc *TutorialsController) CreateTutorial(c *gin.Context) {
	var tutorial entities.Tutorial
	if !bindJSON(c, &tutorial) {
		return
	}
	if strings.TrimSpace(tutorial.Title) == "" || strings.TrimSpace(tutorial.VideoURL) == "" {
		respondBadRequest(c, "title and videoUrl are required")
		return
	}

	res, err := tc.store.Create(c.Request.Context(), tutorial)
	if err != nil {
		respondInternalError(c, err, "create tutorial")
		return
	}
	respondCreated(c, res)
}
