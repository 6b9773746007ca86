package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/satsun/backend/internal/model"
	"github.com/satsun/backend/internal/repository"
)

// InstanceHandler mutates activity instances. Every operation runs the
// instance ownership verifier first and reuses the fetched row for the
// mutation, so current values (order, completion flag, times) come from
// that single read.
type InstanceHandler struct {
	Instances *repository.InstanceRepo
	Days      *repository.DayRepo
}

func NewInstanceHandler(i *repository.InstanceRepo, d *repository.DayRepo) *InstanceHandler {
	if i == nil || d == nil {
		panic("nil repository passed to NewInstanceHandler")
	}
	return &InstanceHandler{Instances: i, Days: d}
}

func (h *InstanceHandler) instanceError(c echo.Context, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "activity instance not found"})
	}
	c.Logger().Errorf("instance: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
}

func (h *InstanceHandler) verify(c echo.Context) (model.ActivityInstance, error) {
	uid, err := userID(c)
	if err != nil {
		return model.ActivityInstance{}, echo.ErrUnauthorized
	}
	return h.Instances.GetOwned(c.Request().Context(), c.Param("id"), uid)
}

type updateInstanceReq struct {
	Order      *int    `json:"order"`
	StartTime  *string `json:"startTime"`
	EndTime    *string `json:"endTime"`
	Notes      *string `json:"notes"`
	CustomMood *string `json:"customMood"`
}

// Update handles PATCH /v1/activity-instances/:id. Unlike plan updates,
// an empty patch is rejected. The time-range check runs against the
// merged values so a patch cannot sneak an inverted range past a partial
// update.
func (h *InstanceHandler) Update(c echo.Context) error {
	inst, err := h.verify(c)
	if err != nil {
		if err == echo.ErrUnauthorized {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		return h.instanceError(c, err)
	}
	var req updateInstanceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Order == nil && req.StartTime == nil && req.EndTime == nil && req.Notes == nil && req.CustomMood == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "empty update"})
	}
	if req.Order != nil {
		inst.Order = *req.Order
	}
	if req.StartTime != nil {
		inst.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		inst.EndTime = req.EndTime
	}
	if req.Notes != nil {
		inst.Notes = req.Notes
	}
	if req.CustomMood != nil {
		inst.CustomMood = req.CustomMood
	}
	if !validTimeRange(inst.StartTime, inst.EndTime) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "startTime must not be after endTime"})
	}
	if err := h.Instances.Update(c.Request().Context(), &inst); err != nil {
		c.Logger().Errorf("update instance: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, inst)
}

// Delete handles DELETE /v1/activity-instances/:id.
func (h *InstanceHandler) Delete(c echo.Context) error {
	inst, err := h.verify(c)
	if err != nil {
		if err == echo.ErrUnauthorized {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		return h.instanceError(c, err)
	}
	if err := h.Instances.Delete(c.Request().Context(), inst.ID); err != nil {
		return h.instanceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Toggle handles POST /v1/activity-instances/:id/toggle. The flag flips
// from the value fetched by the verifier: a read-then-write, not an
// atomic flip, which two concurrent toggles can collapse into one. That
// is accepted behavior for a single-user planning tool.
func (h *InstanceHandler) Toggle(c echo.Context) error {
	inst, err := h.verify(c)
	if err != nil {
		if err == echo.ErrUnauthorized {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		return h.instanceError(c, err)
	}
	inst.IsCompleted = !inst.IsCompleted
	if err := h.Instances.Update(c.Request().Context(), &inst); err != nil {
		c.Logger().Errorf("toggle instance: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, inst)
}

type moveInstanceReq struct {
	DayID *string `json:"dayId"`
	Order *int    `json:"order"`
}

// Move handles PUT /v1/activity-instances/:id/move: a pure update of the
// order key and, for cross-day moves, the parent day id. No sibling
// renumbering happens on either side; gaps and duplicate orders persist.
func (h *InstanceHandler) Move(c echo.Context) error {
	inst, err := h.verify(c)
	if err != nil {
		if err == echo.ErrUnauthorized {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		return h.instanceError(c, err)
	}
	var req moveInstanceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.DayID == nil && req.Order == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "dayId or order required"})
	}
	if req.DayID != nil && *req.DayID != inst.DayID {
		uid, _ := userID(c)
		// The target day must also be owned by the caller.
		if _, err := h.Days.GetOwned(c.Request().Context(), *req.DayID, uid); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "day not found"})
			}
			c.Logger().Errorf("move instance: target day: %v", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
		}
		inst.DayID = *req.DayID
	}
	if req.Order != nil {
		inst.Order = *req.Order
	}
	if err := h.Instances.Update(c.Request().Context(), &inst); err != nil {
		c.Logger().Errorf("move instance: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, inst)
}
