package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/satsun/backend/internal/model"
	"github.com/satsun/backend/internal/repository"
)

// WeekendHandler bundles the repositories needed for plan lifecycle
// operations, including the nested reads that pull days and instances.
type WeekendHandler struct {
	Weekends  *repository.WeekendRepo
	Days      *repository.DayRepo
	Instances *repository.InstanceRepo
}

func NewWeekendHandler(w *repository.WeekendRepo, d *repository.DayRepo, i *repository.InstanceRepo) *WeekendHandler {
	if w == nil || d == nil || i == nil {
		panic("nil repository passed to NewWeekendHandler")
	}
	return &WeekendHandler{Weekends: w, Days: d, Instances: i}
}

type dayInput struct {
	Date       string  `json:"date"`
	DayLabel   *string `json:"dayLabel"`
	Order      *int    `json:"order"`
	Notes      *string `json:"notes"`
	ColorTheme *string `json:"colorTheme"`
}

type createWeekendReq struct {
	Title      string     `json:"title"`
	Mood       *string    `json:"mood"`
	StartDate  string     `json:"startDate"`
	EndDate    string     `json:"endDate"`
	IsTemplate bool       `json:"isTemplate"`
	Days       []dayInput `json:"days"`
}

// Create handles POST /v1/weekends. With an explicit days list each day is
// inserted as given (order defaults to the array index); otherwise days
// are auto-enumerated over the inclusive date range. Plan and day rows are
// one transactional insert.
func (h *WeekendHandler) Create(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createWeekendReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.StartDate == "" || req.EndDate == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "startDate and endDate are required"})
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "My Weekend"
	}

	var days []model.DayInstance
	if len(req.Days) > 0 {
		days = make([]model.DayInstance, 0, len(req.Days))
		for i, in := range req.Days {
			d := model.DayInstance{
				Date:       in.Date,
				DayLabel:   "Day",
				Order:      i,
				Notes:      in.Notes,
				ColorTheme: in.ColorTheme,
			}
			if in.DayLabel != nil && *in.DayLabel != "" {
				d.DayLabel = *in.DayLabel
			}
			if in.Order != nil {
				d.Order = *in.Order
			}
			days = append(days, d)
		}
	} else {
		days, err = enumerateDays(req.StartDate, req.EndDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "dates must be YYYY-MM-DD"})
		}
	}

	plan := model.WeekendPlan{
		UserID:     uid,
		Title:      title,
		Mood:       req.Mood,
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		IsTemplate: req.IsTemplate,
	}
	if err := h.Weekends.CreateWithDays(c.Request().Context(), &plan, days); err != nil {
		c.Logger().Errorf("create weekend: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create weekend"})
	}
	return c.JSON(http.StatusCreated, planWithDays{WeekendPlan: plan, Days: nestInstances(days, nil)})
}

// List handles GET /v1/weekends. With ?include=days the days and instances
// of every returned plan are loaded in two batched queries and grouped in
// memory.
func (h *WeekendHandler) List(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	plans, err := h.Weekends.ListByOwner(c.Request().Context(), uid)
	if err != nil {
		c.Logger().Errorf("list weekends: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	if c.QueryParam("include") != "days" {
		return c.JSON(http.StatusOK, echo.Map{"items": plans})
	}

	planIDs := make([]string, len(plans))
	for i, p := range plans {
		planIDs[i] = p.ID
	}
	days, err := h.Days.ListByPlanIDs(c.Request().Context(), planIDs)
	if err != nil {
		c.Logger().Errorf("list weekends: days: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	dayIDs := make([]string, len(days))
	for i, d := range days {
		dayIDs[i] = d.ID
	}
	instances, err := h.Instances.ListByDayIDs(c.Request().Context(), dayIDs)
	if err != nil {
		c.Logger().Errorf("list weekends: instances: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	nested := nestInstances(days, instances)
	byPlan := make(map[string][]dayWithInstances, len(plans))
	for _, d := range nested {
		byPlan[d.WeekendPlanID] = append(byPlan[d.WeekendPlanID], d)
	}
	items := make([]planWithDays, 0, len(plans))
	for _, p := range plans {
		ds := byPlan[p.ID]
		if ds == nil {
			ds = []dayWithInstances{}
		}
		items = append(items, planWithDays{WeekendPlan: p, Days: ds})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /v1/weekends/:id and returns the plan with days sorted
// ascending by order, each with its nested instances.
func (h *WeekendHandler) Get(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	plan, err := h.Weekends.GetByIDAndOwner(c.Request().Context(), c.Param("id"), uid)
	if err != nil {
		return h.planError(c, err)
	}
	nested, err := h.loadDays(c, plan.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return c.JSON(http.StatusOK, planWithDays{WeekendPlan: plan, Days: nested})
}

func (h *WeekendHandler) loadDays(c echo.Context, planID string) ([]dayWithInstances, error) {
	days, err := h.Days.ListByPlan(c.Request().Context(), planID)
	if err != nil {
		c.Logger().Errorf("load days: %v", err)
		return nil, err
	}
	dayIDs := make([]string, len(days))
	for i, d := range days {
		dayIDs[i] = d.ID
	}
	instances, err := h.Instances.ListByDayIDs(c.Request().Context(), dayIDs)
	if err != nil {
		c.Logger().Errorf("load instances: %v", err)
		return nil, err
	}
	return nestInstances(days, instances), nil
}

func (h *WeekendHandler) planError(c echo.Context, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "weekend not found"})
	}
	c.Logger().Errorf("weekend: %v", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
}

type updateWeekendReq struct {
	Title     *string `json:"title"`
	Mood      *string `json:"mood"`
	StartDate *string `json:"startDate"`
	EndDate   *string `json:"endDate"`
}

// Update handles PATCH /v1/weekends/:id. An empty patch succeeds as a
// no-op and returns the unchanged record.
func (h *WeekendHandler) Update(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	plan, err := h.Weekends.GetByIDAndOwner(c.Request().Context(), c.Param("id"), uid)
	if err != nil {
		return h.planError(c, err)
	}
	var req updateWeekendReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.Title == nil && req.Mood == nil && req.StartDate == nil && req.EndDate == nil {
		return c.JSON(http.StatusOK, plan) // empty patch, no-op
	}
	if req.Title != nil {
		plan.Title = *req.Title
	}
	if req.Mood != nil {
		plan.Mood = req.Mood
	}
	if req.StartDate != nil {
		plan.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		plan.EndDate = *req.EndDate
	}
	if err := h.Weekends.Update(c.Request().Context(), &plan); err != nil {
		c.Logger().Errorf("update weekend: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, plan)
}

// Delete handles DELETE /v1/weekends/:id. Children cascade at the storage
// layer; nothing is re-verified here.
func (h *WeekendHandler) Delete(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	if err := h.Weekends.Delete(c.Request().Context(), c.Param("id"), uid); err != nil {
		return h.planError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Duplicate handles POST /v1/weekends/:id/duplicate: the plan and its day
// rows are cloned, activity instances deliberately are not, so every
// duplicated day starts empty.
func (h *WeekendHandler) Duplicate(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	src, err := h.Weekends.GetByIDAndOwner(c.Request().Context(), c.Param("id"), uid)
	if err != nil {
		return h.planError(c, err)
	}
	days, err := h.Days.ListByPlan(c.Request().Context(), src.ID)
	if err != nil {
		c.Logger().Errorf("duplicate: load days: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	clone, clonedDays, err := h.Weekends.Duplicate(c.Request().Context(), src, days)
	if err != nil {
		c.Logger().Errorf("duplicate: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "duplicate failed"})
	}
	return c.JSON(http.StatusCreated, planWithDays{WeekendPlan: clone, Days: nestInstances(clonedDays, nil)})
}

// SetMood handles PUT /v1/weekends/:id/mood. The mood must be one of the
// fixed tags; ownership is verified like every other plan mutation.
func (h *WeekendHandler) SetMood(c echo.Context) error {
	uid, err := userID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req struct {
		Mood string `json:"mood"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if !IsMood(req.Mood) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown mood"})
	}
	plan, err := h.Weekends.GetByIDAndOwner(c.Request().Context(), c.Param("id"), uid)
	if err != nil {
		return h.planError(c, err)
	}
	if err := h.Weekends.SetMood(c.Request().Context(), plan.ID, &req.Mood); err != nil {
		c.Logger().Errorf("set mood: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	plan.Mood = &req.Mood
	return c.JSON(http.StatusOK, plan)
}
