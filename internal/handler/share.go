package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/satsun/backend/internal/model"
	"github.com/satsun/backend/internal/repository"
)

// ShareHandler creates share links and serves the public read path. The
// public read bypasses the ownership verifier by design: knowing the link
// id is the authorization.
type ShareHandler struct {
	Shares    *repository.ShareRepo
	Weekends  *repository.WeekendRepo
	Days      *repository.DayRepo
	Instances *repository.InstanceRepo
}

func NewShareHandler(s *repository.ShareRepo, w *repository.WeekendRepo, d *repository.DayRepo, i *repository.InstanceRepo) *ShareHandler {
	if s == nil || w == nil || d == nil || i == nil {
		panic("nil repository passed to NewShareHandler")
	}
	return &ShareHandler{Shares: s, Weekends: w, Days: d, Instances: i}
}

type createShareReq struct {
	ExpiresAt *string `json:"expiresAt"` // RFC 3339
	Password  *string `json:"password"`
}

// Create handles POST /v1/weekends/:id/share. The optional password is
// stored as received and never checked on the read path; the column rides
// along as an incomplete product feature.
func (h *ShareHandler) Create(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	plan, err := h.Weekends.GetByIDAndOwner(c.Request().Context(), c.Param("id"), uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "weekend not found"})
		}
		c.Logger().Errorf("create share: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	var req createShareReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	link := model.SharedWeekendLink{WeekendID: plan.ID, Password: req.Password}
	if req.ExpiresAt != nil {
		t, err := time.Parse(time.RFC3339, *req.ExpiresAt)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "expiresAt must be RFC 3339"})
		}
		link.ExpiresAt = &t
	}
	if err := h.Shares.Create(c.Request().Context(), &link); err != nil {
		c.Logger().Errorf("create share: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create share link"})
	}
	return c.JSON(http.StatusCreated, link)
}

// Read handles GET /v1/shared/:linkId without authentication. Expired
// links answer 410 even when the plan still exists; the view counter is
// best effort and its failure is swallowed.
func (h *ShareHandler) Read(c echo.Context) error {
	link, err := h.Shares.GetByID(c.Request().Context(), c.Param("linkId"))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrLinkExpired):
			return c.JSON(http.StatusGone, echo.Map{"error": "share link expired"})
		case errors.Is(err, repository.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "share link not found"})
		}
		c.Logger().Errorf("read share: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if err := h.Shares.IncrementViews(c.Request().Context(), link.ID); err != nil {
		c.Logger().Warnf("read share: view count: %v", err)
	}

	plan, err := h.Weekends.GetByID(c.Request().Context(), link.WeekendID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "weekend not found"})
		}
		c.Logger().Errorf("read share: plan: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	days, err := h.Days.ListByPlan(c.Request().Context(), plan.ID)
	if err != nil {
		c.Logger().Errorf("read share: days: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	dayIDs := make([]string, len(days))
	for i, d := range days {
		dayIDs[i] = d.ID
	}
	instances, err := h.Instances.ListByDayIDs(c.Request().Context(), dayIDs)
	if err != nil {
		c.Logger().Errorf("read share: instances: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, planWithDays{WeekendPlan: plan, Days: nestInstances(days, instances)})
}
