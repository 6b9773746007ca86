package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/satsun/backend/internal/repository"
)

// Moods is the fixed list of mood tags a plan or activity can carry.
var Moods = []string{"chill", "adventure", "social", "romantic", "family", "creative", "active"}

// IsMood reports whether the tag is one of the fixed moods.
func IsMood(tag string) bool {
	for _, m := range Moods {
		if m == tag {
			return true
		}
	}
	return false
}

const suggestionLimit = 10

// MoodHandler serves the mood list and catalog suggestions per mood.
type MoodHandler struct {
	Activities *repository.ActivityRepo
}

func NewMoodHandler(a *repository.ActivityRepo) *MoodHandler {
	return &MoodHandler{Activities: a}
}

// List handles GET /v1/moods.
func (h *MoodHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"moods": Moods})
}

// Suggestions handles GET /v1/moods/:mood/suggestions: catalog entries
// whose default mood matches, capped to ten.
func (h *MoodHandler) Suggestions(c echo.Context) error {
	mood := c.Param("mood")
	if !IsMood(mood) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown mood"})
	}
	items, err := h.Activities.ListByMood(c.Request().Context(), mood, suggestionLimit)
	if err != nil {
		c.Logger().Errorf("mood suggestions: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}
