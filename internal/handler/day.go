package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/satsun/backend/internal/model"
	"github.com/satsun/backend/internal/repository"
)

// DayHandler covers day mutation and the add-activity operation. Every
// mutating path verifies transitive ownership through the day verifier
// first, including the direct /days/:dayId routes.
type DayHandler struct {
	Days      *repository.DayRepo
	Instances *repository.InstanceRepo
	Catalog   *repository.ActivityRepo
}

func NewDayHandler(d *repository.DayRepo, i *repository.InstanceRepo, cat *repository.ActivityRepo) *DayHandler {
	if d == nil || i == nil || cat == nil {
		panic("nil repository passed to NewDayHandler")
	}
	return &DayHandler{Days: d, Instances: i, Catalog: cat}
}

func (h *DayHandler) dayError(c echo.Context, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "day not found"})
	}
	c.Logger().Errorf("day: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
}

// verifyDay runs the ownership verifier and, on the nested route, also
// checks the parent-plan linkage from the URL.
func (h *DayHandler) verifyDay(c echo.Context) (model.DayInstance, error) {
	uid, err := userID(c)
	if err != nil {
		return model.DayInstance{}, echo.ErrUnauthorized
	}
	day, err := h.Days.GetOwned(c.Request().Context(), c.Param("dayId"), uid)
	if err != nil {
		return model.DayInstance{}, err
	}
	if planID := c.Param("id"); planID != "" && day.WeekendPlanID != planID {
		return model.DayInstance{}, repository.ErrNotFound
	}
	return day, nil
}

type updateDayReq struct {
	DayLabel   *string `json:"dayLabel"`
	Notes      *string `json:"notes"`
	ColorTheme *string `json:"colorTheme"`
}

// Update handles PATCH /v1/days/:dayId and the nested
// PATCH /v1/weekends/:id/days/:dayId.
func (h *DayHandler) Update(c echo.Context) error {
	day, err := h.verifyDay(c)
	if err != nil {
		if err == echo.ErrUnauthorized {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		return h.dayError(c, err)
	}
	var req updateDayReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.DayLabel == nil && req.Notes == nil && req.ColorTheme == nil {
		return c.JSON(http.StatusOK, day) // empty patch, no-op
	}
	if req.DayLabel != nil {
		if strings.TrimSpace(*req.DayLabel) == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "dayLabel cannot be empty"})
		}
		day.DayLabel = *req.DayLabel
	}
	if req.Notes != nil {
		day.Notes = req.Notes
	}
	if req.ColorTheme != nil {
		day.ColorTheme = req.ColorTheme
	}
	if err := h.Days.Update(c.Request().Context(), &day); err != nil {
		c.Logger().Errorf("update day: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, day)
}

// Delete handles DELETE on both day routes. Instances cascade at the
// storage layer.
func (h *DayHandler) Delete(c echo.Context) error {
	day, err := h.verifyDay(c)
	if err != nil {
		if err == echo.ErrUnauthorized {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		return h.dayError(c, err)
	}
	if err := h.Days.Delete(c.Request().Context(), day.ID); err != nil {
		return h.dayError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type addInstanceReq struct {
	ActivityID string  `json:"activityId"`
	Order      *int    `json:"order"`
	StartTime  *string `json:"startTime"`
	EndTime    *string `json:"endTime"`
	Notes      *string `json:"notes"`
	CustomMood *string `json:"customMood"`
}

// AddInstance handles POST /v1/days/:dayId/activities. Ownership is
// verified before the body is interpreted; the order defaults to the
// day's max sibling order plus one when not supplied.
func (h *DayHandler) AddInstance(c echo.Context) error {
	day, err := h.verifyDay(c)
	if err != nil {
		if err == echo.ErrUnauthorized {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		return h.dayError(c, err)
	}
	var req addInstanceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if strings.TrimSpace(req.ActivityID) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "activityId is required"})
	}
	if _, err := h.Catalog.GetByID(c.Request().Context(), req.ActivityID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown activityId"})
		}
		c.Logger().Errorf("add instance: activity lookup: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if !validTimeRange(req.StartTime, req.EndTime) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "startTime must not be after endTime"})
	}

	order := 0
	if req.Order != nil {
		order = *req.Order // used verbatim, collisions allowed
	} else {
		order, err = h.Instances.NextOrder(c.Request().Context(), day.ID)
		if err != nil {
			c.Logger().Errorf("add instance: next order: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
	}

	inst := model.ActivityInstance{
		DayID:      day.ID,
		ActivityID: req.ActivityID,
		Order:      order,
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Notes:      req.Notes,
		CustomMood: req.CustomMood,
	}
	if err := h.Instances.Create(c.Request().Context(), &inst); err != nil {
		c.Logger().Errorf("add instance: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not add activity"})
	}
	return c.JSON(http.StatusCreated, inst)
}
