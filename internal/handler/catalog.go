package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/satsun/backend/internal/model"
	"github.com/satsun/backend/internal/repository"
)

const (
	catalogDefaultLimit = 50
	catalogMaxLimit     = 200
)

// CatalogHandler serves the global activity catalog. Reads are public;
// mutations require authentication but no ownership: the catalog is
// deliberately shared and ownerless.
type CatalogHandler struct {
	Activities *repository.ActivityRepo
}

func NewCatalogHandler(a *repository.ActivityRepo) *CatalogHandler {
	if a == nil {
		panic("nil repository passed to NewCatalogHandler")
	}
	return &CatalogHandler{Activities: a}
}

// clampLimit applies the pagination contract: default 50, hard cap 200.
func clampLimit(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return catalogDefaultLimit
	}
	if n > catalogMaxLimit {
		return catalogMaxLimit
	}
	return n
}

func clampOffset(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// List handles GET /v1/activities with the pagination envelope
// {items, total, limit, offset}.
func (h *CatalogHandler) List(c echo.Context) error {
	q := repository.CatalogQuery{
		Limit:    clampLimit(c.QueryParam("limit")),
		Offset:   clampOffset(c.QueryParam("offset")),
		Category: strings.TrimSpace(c.QueryParam("category")),
		Search:   strings.TrimSpace(c.QueryParam("search")),
	}
	items, total, err := h.Activities.List(c.Request().Context(), q)
	if err != nil {
		c.Logger().Errorf("list activities: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":  items,
		"total":  total,
		"limit":  q.Limit,
		"offset": q.Offset,
	})
}

// Get handles GET /v1/activities/:id.
func (h *CatalogHandler) Get(c echo.Context) error {
	a, err := h.Activities.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.activityError(c, err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *CatalogHandler) activityError(c echo.Context, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "activity not found"})
	}
	c.Logger().Errorf("activity: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
}

type createActivityReq struct {
	Title       string   `json:"title"`
	Description *string  `json:"description"`
	Category    string   `json:"category"`
	DurationMin int      `json:"durationMin"`
	Icon        *string  `json:"icon"`
	Tags        []string `json:"tags"`
	IsPremium   bool     `json:"isPremium"`
	DefaultMood *string  `json:"defaultMood"`
}

// Create handles POST /v1/activities.
func (h *CatalogHandler) Create(c echo.Context) error {
	var req createActivityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	req.Category = strings.TrimSpace(req.Category)
	if req.Title == "" || req.Category == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and category are required"})
	}
	if req.DurationMin <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "durationMin must be > 0"})
	}
	a := model.Activity{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		DurationMin: req.DurationMin,
		Icon:        req.Icon,
		Tags:        req.Tags,
		IsPremium:   req.IsPremium,
		DefaultMood: req.DefaultMood,
	}
	if err := h.Activities.Create(c.Request().Context(), &a); err != nil {
		c.Logger().Errorf("create activity: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create activity"})
	}
	return c.JSON(http.StatusCreated, a)
}

type updateActivityReq struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	DurationMin *int      `json:"durationMin"`
	Icon        *string   `json:"icon"`
	Tags        *[]string `json:"tags"`
	IsPremium   *bool     `json:"isPremium"`
	DefaultMood *string   `json:"defaultMood"`
}

func (r updateActivityReq) empty() bool {
	return r.Title == nil && r.Description == nil && r.Category == nil &&
		r.DurationMin == nil && r.Icon == nil && r.Tags == nil &&
		r.IsPremium == nil && r.DefaultMood == nil
}

// Update handles PATCH /v1/activities/:id. Empty patches are rejected and
// durationMin keeps the same positivity rule as create.
func (h *CatalogHandler) Update(c echo.Context) error {
	a, err := h.Activities.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.activityError(c, err)
	}
	var req updateActivityReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.empty() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "empty update"})
	}
	if req.DurationMin != nil && *req.DurationMin <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "durationMin must be > 0"})
	}
	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Description != nil {
		a.Description = req.Description
	}
	if req.Category != nil {
		a.Category = *req.Category
	}
	if req.DurationMin != nil {
		a.DurationMin = *req.DurationMin
	}
	if req.Icon != nil {
		a.Icon = req.Icon
	}
	if req.Tags != nil {
		a.Tags = *req.Tags
	}
	if req.IsPremium != nil {
		a.IsPremium = *req.IsPremium
	}
	if req.DefaultMood != nil {
		a.DefaultMood = req.DefaultMood
	}
	if err := h.Activities.Update(c.Request().Context(), &a); err != nil {
		c.Logger().Errorf("update activity: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, a)
}

// Delete handles DELETE /v1/activities/:id. Unconditional: any
// authenticated caller may remove a catalog entry.
func (h *CatalogHandler) Delete(c echo.Context) error {
	if err := h.Activities.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return h.activityError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
