package handler

import (
	"encoding/json"
	"net/http"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satsun/backend/internal/repository"
)

var dayCols = []string{"id", "weekend_plan_id", "date", "day_label", "order", "notes", "color_theme"}

func newDayHandler(t *testing.T) (*DayHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewDayHandler(
		repository.NewDayRepo(db),
		repository.NewInstanceRepo(db),
		repository.NewActivityRepo(db),
	), mock
}

func expectDayOwned(mock sqlmock.Sqlmock, dayID, planID string) {
	mock.ExpectQuery("SELECT (.+) FROM day_instances d JOIN weekend_plans p").
		WithArgs(dayID, "user-1").
		WillReturnRows(sqlmock.NewRows(dayCols).
			AddRow(dayID, planID, "2025-01-03", "Friday", 0, nil, nil))
}

func expectActivityExists(mock sqlmock.Sqlmock, id string) {
	mock.ExpectQuery("SELECT (.+) FROM activities WHERE id=").
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows(activityCols).
			AddRow(id, "Picnic", nil, "outdoor", 60, nil, nil, false, nil))
}

func TestUpdateDayNestedRouteChecksPlanLinkage(t *testing.T) {
	h, mock := newDayHandler(t)

	// The day exists and is owned, but hangs off a different plan than the
	// URL names; that mismatch must read as not found.
	expectDayOwned(mock, "day-1", "plan-other")

	c, rec := testContext(t, http.MethodPatch, `{"dayLabel":"Kickoff"}`)
	c.SetParamNames("id", "dayId")
	c.SetParamValues("plan-1", "day-1")
	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateDayEmptyPatchIsNoOp(t *testing.T) {
	h, mock := newDayHandler(t)

	expectDayOwned(mock, "day-1", "plan-1")

	c, rec := testContext(t, http.MethodPatch, `{}`)
	c.SetParamNames("dayId")
	c.SetParamValues("day-1")
	require.NoError(t, h.Update(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		DayLabel string `json:"day_label"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Friday", resp.DayLabel)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateDayRejectsBlankLabel(t *testing.T) {
	h, mock := newDayHandler(t)

	expectDayOwned(mock, "day-1", "plan-1")

	c, rec := testContext(t, http.MethodPatch, `{"dayLabel":"  "}`)
	c.SetParamNames("dayId")
	c.SetParamValues("day-1")
	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "dayLabel cannot be empty")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddInstanceDefaultsOrderToMaxPlusOne(t *testing.T) {
	h, mock := newDayHandler(t)

	expectDayOwned(mock, "day-1", "plan-1")
	expectActivityExists(mock, "act-1")
	// Sibling orders are sparse {0,1,3}; the default lands at 4, not the
	// count.
	mock.ExpectQuery("SELECT (.+) FROM activity_instances i WHERE i.day_id=(.+) ORDER BY (.+) DESC LIMIT 1").
		WithArgs("day-1").
		WillReturnRows(sqlmock.NewRows([]string{"order"}).AddRow(3))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO activity_instances")).
		WithArgs(sqlmock.AnyArg(), "day-1", "act-1", 4, nil, nil, nil, nil, false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := testContext(t, http.MethodPost, `{"activityId":"act-1"}`)
	c.SetParamNames("dayId")
	c.SetParamValues("day-1")
	require.NoError(t, h.AddInstance(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Order int `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Order)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddInstanceEmptyDayStartsAtZero(t *testing.T) {
	h, mock := newDayHandler(t)

	expectDayOwned(mock, "day-1", "plan-1")
	expectActivityExists(mock, "act-1")
	mock.ExpectQuery("SELECT (.+) FROM activity_instances i WHERE i.day_id=(.+) ORDER BY (.+) DESC LIMIT 1").
		WithArgs("day-1").
		WillReturnRows(sqlmock.NewRows([]string{"order"}))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO activity_instances")).
		WithArgs(sqlmock.AnyArg(), "day-1", "act-1", 0, nil, nil, nil, nil, false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := testContext(t, http.MethodPost, `{"activityId":"act-1"}`)
	c.SetParamNames("dayId")
	c.SetParamValues("day-1")
	require.NoError(t, h.AddInstance(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddInstanceExplicitOrderIsUsedVerbatim(t *testing.T) {
	h, mock := newDayHandler(t)

	expectDayOwned(mock, "day-1", "plan-1")
	expectActivityExists(mock, "act-1")
	// No sibling query: the supplied order wins even if it collides.
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO activity_instances")).
		WithArgs(sqlmock.AnyArg(), "day-1", "act-1", 7, "09:00", "11:00", nil, nil, false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := testContext(t, http.MethodPost, `{"activityId":"act-1","order":7,"startTime":"09:00","endTime":"11:00"}`)
	c.SetParamNames("dayId")
	c.SetParamValues("day-1")
	require.NoError(t, h.AddInstance(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddInstanceRejectsInvertedTimeRange(t *testing.T) {
	h, mock := newDayHandler(t)

	expectDayOwned(mock, "day-1", "plan-1")
	expectActivityExists(mock, "act-1")

	c, rec := testContext(t, http.MethodPost, `{"activityId":"act-1","startTime":"15:00","endTime":"09:00"}`)
	c.SetParamNames("dayId")
	c.SetParamValues("day-1")
	require.NoError(t, h.AddInstance(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "startTime must not be after endTime")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAddInstanceUnknownActivityIsRejected(t *testing.T) {
	h, mock := newDayHandler(t)

	expectDayOwned(mock, "day-1", "plan-1")
	mock.ExpectQuery("SELECT (.+) FROM activities WHERE id=").
		WithArgs("act-9").
		WillReturnRows(sqlmock.NewRows(activityCols))

	c, rec := testContext(t, http.MethodPost, `{"activityId":"act-9"}`)
	c.SetParamNames("dayId")
	c.SetParamValues("day-1")
	require.NoError(t, h.AddInstance(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "unknown activityId")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteDayNotOwnedIs404(t *testing.T) {
	h, mock := newDayHandler(t)

	mock.ExpectQuery("SELECT (.+) FROM day_instances d JOIN weekend_plans p").
		WithArgs("day-9", "user-1").
		WillReturnRows(sqlmock.NewRows(dayCols))

	c, rec := testContext(t, http.MethodDelete, "")
	c.SetParamNames("dayId")
	c.SetParamValues("day-9")
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
