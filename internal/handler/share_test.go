package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satsun/backend/internal/repository"
)

var shareCols = []string{"id", "weekend_id", "expires_at", "password", "view_count"}

func newShareHandler(t *testing.T) (*ShareHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewShareHandler(
		repository.NewShareRepo(db),
		repository.NewWeekendRepo(db),
		repository.NewDayRepo(db),
		repository.NewInstanceRepo(db),
	), mock
}

func shareRequest(linkID string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.SetParamNames("linkId")
	c.SetParamValues(linkID)
	return c, rec
}

func TestReadShareExpiredLinkIsGone(t *testing.T) {
	h, mock := newShareHandler(t)

	// The plan behind the link still exists; only the link has lapsed.
	past := time.Now().UTC().Add(-time.Hour)
	mock.ExpectQuery("SELECT (.+) FROM shared_weekend_links WHERE id=").
		WithArgs("link-1").
		WillReturnRows(sqlmock.NewRows(shareCols).
			AddRow("link-1", "plan-1", past, nil, 3))

	c, rec := shareRequest("link-1")
	require.NoError(t, h.Read(c))
	assert.Equal(t, http.StatusGone, rec.Code)
	assert.Contains(t, rec.Body.String(), "share link expired")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReadShareUnknownLinkIs404(t *testing.T) {
	h, mock := newShareHandler(t)

	mock.ExpectQuery("SELECT (.+) FROM shared_weekend_links WHERE id=").
		WithArgs("link-9").
		WillReturnRows(sqlmock.NewRows(shareCols))

	c, rec := shareRequest("link-9")
	require.NoError(t, h.Read(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReadShareReturnsPlanAndSurvivesViewCountFailure(t *testing.T) {
	h, mock := newShareHandler(t)

	mock.ExpectQuery("SELECT (.+) FROM shared_weekend_links WHERE id=").
		WithArgs("link-1").
		WillReturnRows(sqlmock.NewRows(shareCols).
			AddRow("link-1", "plan-1", nil, nil, 0))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE shared_weekend_links SET view_count = view_count + 1")).
		WithArgs("link-1").
		WillReturnError(assert.AnError)
	mock.ExpectQuery("SELECT (.+) FROM weekend_plans WHERE id=").
		WithArgs("plan-1").
		WillReturnRows(sqlmock.NewRows(planCols).
			AddRow("plan-1", "user-1", "Trip", nil, "2025-01-03", "2025-01-04", false, time.Now()))
	mock.ExpectQuery("SELECT (.+) FROM day_instances d WHERE d.weekend_plan_id=").
		WithArgs("plan-1").
		WillReturnRows(sqlmock.NewRows(dayCols).
			AddRow("day-1", "plan-1", "2025-01-03", "Friday", 0, nil, nil))
	mock.ExpectQuery("SELECT (.+) FROM activity_instances i WHERE i.day_id IN").
		WithArgs("day-1").
		WillReturnRows(sqlmock.NewRows(instanceCols).
			AddRow("inst-1", "day-1", "act-1", 0, nil, nil, nil, nil, false))

	c, rec := shareRequest("link-1")
	require.NoError(t, h.Read(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Title string `json:"title"`
		Days  []struct {
			DayLabel   string `json:"day_label"`
			Activities []struct {
				ID string `json:"id"`
			} `json:"activities"`
		} `json:"days"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Trip", resp.Title)
	require.Len(t, resp.Days, 1)
	require.Len(t, resp.Days[0].Activities, 1)
	assert.Equal(t, "inst-1", resp.Days[0].Activities[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateShareRejectsBadExpiry(t *testing.T) {
	h, mock := newShareHandler(t)

	mock.ExpectQuery("SELECT (.+) FROM weekend_plans WHERE id=(.+) AND user_id=").
		WithArgs("plan-1", "user-1").
		WillReturnRows(sqlmock.NewRows(planCols).
			AddRow("plan-1", "user-1", "Trip", nil, "2025-01-03", "2025-01-04", false, time.Now()))

	c, rec := testContext(t, http.MethodPost, `{"expiresAt":"next friday"}`)
	c.SetParamNames("id")
	c.SetParamValues("plan-1")
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateShareStoresPasswordWithoutEchoingIt(t *testing.T) {
	h, mock := newShareHandler(t)

	mock.ExpectQuery("SELECT (.+) FROM weekend_plans WHERE id=(.+) AND user_id=").
		WithArgs("plan-1", "user-1").
		WillReturnRows(sqlmock.NewRows(planCols).
			AddRow("plan-1", "user-1", "Trip", nil, "2025-01-03", "2025-01-04", false, time.Now()))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO shared_weekend_links")).
		WithArgs(sqlmock.AnyArg(), "plan-1", nil, "hunter2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := testContext(t, http.MethodPost, `{"password":"hunter2"}`)
	c.SetParamNames("id")
	c.SetParamValues("plan-1")
	require.NoError(t, h.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "hunter2")
	require.NoError(t, mock.ExpectationsWereMet())
}
