package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/satsun/backend/internal/model"
	"github.com/satsun/backend/internal/queue"
	"github.com/satsun/backend/internal/repository"
)

// ExportPublisher announces queued export jobs on the message broker.
// Publishing is best effort: the job row is authoritative and a broker
// outage must not fail the request.
type ExportPublisher interface {
	PublishExportRequested(ctx context.Context, evt queue.ExportRequestedEvent) error
}

// ExportHandler queues plan exports.
type ExportHandler struct {
	Exports   *repository.ExportRepo
	Weekends  *repository.WeekendRepo
	Publisher ExportPublisher
}

func NewExportHandler(e *repository.ExportRepo, w *repository.WeekendRepo, p ExportPublisher) *ExportHandler {
	if e == nil || w == nil {
		panic("nil repository passed to NewExportHandler")
	}
	return &ExportHandler{Exports: e, Weekends: w, Publisher: p}
}

type createExportReq struct {
	Format  string          `json:"format"`
	Options json.RawMessage `json:"options"`
}

// Create handles POST /v1/weekends/:id/export: ownership is verified, a
// queued job row is written, and the event goes out on the export queue.
func (h *ExportHandler) Create(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	plan, err := h.Weekends.GetByIDAndOwner(c.Request().Context(), c.Param("id"), uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "weekend not found"})
		}
		c.Logger().Errorf("export: plan: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	var req createExportReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	format := strings.TrimSpace(req.Format)
	if format == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "format is required"})
	}

	job := model.ExportJob{
		UserID:        uid,
		WeekendPlanID: plan.ID,
		Format:        format,
		Options:       req.Options,
	}
	if err := h.Exports.Create(c.Request().Context(), &job); err != nil {
		c.Logger().Errorf("export: create job: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create export job"})
	}
	if h.Publisher != nil {
		evt := queue.ExportRequestedEvent{
			JobID:         job.ID,
			UserID:        uid,
			WeekendPlanID: plan.ID,
			PlanTitle:     plan.Title,
			Format:        format,
			RequestedAt:   time.Now().UTC().Format(time.RFC3339),
		}
		if err := h.Publisher.PublishExportRequested(c.Request().Context(), evt); err != nil {
			c.Logger().Warnf("export: publish: %v", err)
		}
	}
	return c.JSON(http.StatusAccepted, job)
}

// Get handles GET /v1/exports/:id for the requesting user.
func (h *ExportHandler) Get(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	job, err := h.Exports.GetByIDAndUser(c.Request().Context(), c.Param("id"), uid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "export job not found"})
		}
		c.Logger().Errorf("export: get job: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, job)
}
