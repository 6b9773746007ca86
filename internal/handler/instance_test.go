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

var instanceCols = []string{"id", "day_id", "activity_id", "order", "start_time", "end_time", "notes", "custom_mood", "is_completed"}

func newInstanceHandler(t *testing.T) (*InstanceHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewInstanceHandler(repository.NewInstanceRepo(db), repository.NewDayRepo(db)), mock
}

func expectInstanceOwned(mock sqlmock.Sqlmock, completed bool) {
	mock.ExpectQuery("SELECT (.+) FROM activity_instances i JOIN day_instances d").
		WithArgs("inst-1", "user-1").
		WillReturnRows(sqlmock.NewRows(instanceCols).
			AddRow("inst-1", "day-1", "act-1", 2, "10:00", "12:00", nil, nil, completed))
}

func TestToggleFlipsCompletionBothWays(t *testing.T) {
	h, mock := newInstanceHandler(t)

	for _, start := range []bool{false, true} {
		expectInstanceOwned(mock, start)
		mock.ExpectExec(regexp.QuoteMeta("UPDATE activity_instances SET")).
			WithArgs("day-1", 2, "10:00", "12:00", nil, nil, !start, "inst-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		c, rec := testContext(t, http.MethodPost, "")
		c.SetParamNames("id")
		c.SetParamValues("inst-1")
		require.NoError(t, h.Toggle(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			IsCompleted bool `json:"is_completed"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, !start, resp.IsCompleted)
	}
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateInstanceEmptyPatchIsRejected(t *testing.T) {
	h, mock := newInstanceHandler(t)

	expectInstanceOwned(mock, false)

	c, rec := testContext(t, http.MethodPatch, `{}`)
	c.SetParamNames("id")
	c.SetParamValues("inst-1")
	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "empty update")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateInstanceRejectsMergedInvertedRange(t *testing.T) {
	h, mock := newInstanceHandler(t)

	// Stored end is 12:00; moving start past it must fail even though the
	// patch on its own looks harmless.
	expectInstanceOwned(mock, false)

	c, rec := testContext(t, http.MethodPatch, `{"startTime":"13:00"}`)
	c.SetParamNames("id")
	c.SetParamValues("inst-1")
	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "startTime must not be after endTime")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateInstanceOrderIsWrittenVerbatim(t *testing.T) {
	h, mock := newInstanceHandler(t)

	expectInstanceOwned(mock, false)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE activity_instances SET")).
		WithArgs("day-1", 42, "10:00", "12:00", nil, nil, false, "inst-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := testContext(t, http.MethodPatch, `{"order":42}`)
	c.SetParamNames("id")
	c.SetParamValues("inst-1")
	require.NoError(t, h.Update(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Order int `json:"order"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 42, resp.Order)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMoveInstanceRequiresTarget(t *testing.T) {
	h, mock := newInstanceHandler(t)

	expectInstanceOwned(mock, false)

	c, rec := testContext(t, http.MethodPut, `{}`)
	c.SetParamNames("id")
	c.SetParamValues("inst-1")
	require.NoError(t, h.Move(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMoveInstanceToForeignDayIs404(t *testing.T) {
	h, mock := newInstanceHandler(t)

	expectInstanceOwned(mock, false)
	mock.ExpectQuery("SELECT (.+) FROM day_instances d JOIN weekend_plans p").
		WithArgs("day-other", "user-1").
		WillReturnRows(sqlmock.NewRows(dayCols))

	c, rec := testContext(t, http.MethodPut, `{"dayId":"day-other"}`)
	c.SetParamNames("id")
	c.SetParamValues("inst-1")
	require.NoError(t, h.Move(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInstanceNotOwnedIs404(t *testing.T) {
	h, mock := newInstanceHandler(t)

	mock.ExpectQuery("SELECT (.+) FROM activity_instances i JOIN day_instances d").
		WithArgs("inst-9", "user-1").
		WillReturnRows(sqlmock.NewRows(instanceCols))

	c, rec := testContext(t, http.MethodDelete, "")
	c.SetParamNames("id")
	c.SetParamValues("inst-9")
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInstanceMissingAuthIs401(t *testing.T) {
	h, mock := newInstanceHandler(t)

	c, rec := testContext(t, http.MethodPost, "")
	c.Set("user_id", nil)
	c.SetParamNames("id")
	c.SetParamValues("inst-1")
	require.NoError(t, h.Toggle(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
