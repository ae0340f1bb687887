package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diabeto/patient-registry/internal/predict"
	"github.com/diabeto/patient-registry/internal/repository"
)

func newPatientHandler(t *testing.T) (*PatientHandler, sqlmock.Sqlmock, *echo.Echo, *stubRenderer) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	e := echo.New()
	r := &stubRenderer{}
	e.Renderer = r
	h := NewPatientHandler(repository.NewPatientRepo(db), predict.Load("", ""))
	return h, mock, e, r
}

// asPhysician simulates the identity injection done by the session middleware.
func asPhysician(c echo.Context, id uint64, username string) {
	c.Set("physician_id", id)
	c.Set("username", username)
}

var testCreatedAt = time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)

func patientRows(preds ...any) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "doctor_id", "name", "age", "sex",
		"glucose", "bmi", "bloodpressure", "pedigree", "prediction_result", "created_at",
	})
	for i, pred := range preds {
		rows.AddRow(uint64(i+1), uint64(9), "Patient", 40, "F", 120.0, 25.0, 70.0, 0.3, pred, testCreatedAt)
	}
	return rows
}

func TestDashboard_Stats(t *testing.T) {
	h, mock, e, r := newPatientHandler(t)

	mock.ExpectQuery("SELECT (.+) FROM patients WHERE doctor_id = \\? ORDER BY id").
		WithArgs(uint64(9)).
		WillReturnRows(patientRows(0, 1, 0, 0))
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM patients").
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	asPhysician(c, 9, "dr_leroy")

	require.NoError(t, h.Dashboard(c))
	assert.Equal(t, "patients.html", r.name)
	assert.Equal(t, "dr_leroy", r.data["username"])
	assert.Equal(t, 4, r.data["total_patients"])
	assert.Equal(t, 1, r.data["diabetic_patients"])
	assert.InDelta(t, 25.0, r.data["diabetic_percentage"], 1e-9)
}

func TestDashboard_EmptyRosterHasZeroPercentage(t *testing.T) {
	h, mock, e, r := newPatientHandler(t)

	mock.ExpectQuery("SELECT (.+) FROM patients WHERE doctor_id = \\? ORDER BY id").
		WithArgs(uint64(9)).
		WillReturnRows(patientRows())
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM patients").
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	req := httptest.NewRequest(http.MethodGet, "/patients", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	asPhysician(c, 9, "dr_leroy")

	require.NoError(t, h.Dashboard(c))
	assert.Equal(t, 0, r.data["total_patients"])
	assert.InDelta(t, 0.0, r.data["diabetic_percentage"], 1e-9, "no division by zero on an empty roster")
}

func TestSubmitPatient_OwnerComesFromSession(t *testing.T) {
	h, mock, e, r := newPatientHandler(t)

	// Predictor has no classifier loaded: the stored label must be -1 and
	// creation must still succeed.
	mock.ExpectExec("INSERT INTO patients").
		WithArgs(uint64(9), "Jean Petit", 50, "M", 150.0, 32.0, 80.0, 0.5, -1).
		WillReturnResult(sqlmock.NewResult(21, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT created_at FROM patients WHERE id = ?")).
		WithArgs(uint64(21)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(testCreatedAt))

	c, rec := postForm(e, "/submit", url.Values{
		"name":          {"Jean Petit"},
		"age":           {"50"},
		"sex":           {"M"},
		"glucose":       {"150.0"},
		"bmi":           {"32.0"},
		"bloodpressure": {"80.0"},
		"pedigree":      {"0.5"},
	})
	asPhysician(c, 9, "dr_leroy")

	require.NoError(t, h.SubmitPatient(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "add_patient.html", r.name)
	assert.Equal(t, -1, r.data["result"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubmitPatient_RejectsBlankName(t *testing.T) {
	h, _, e, r := newPatientHandler(t)

	c, _ := postForm(e, "/submit", url.Values{
		"name": {"   "},
		"age":  {"50"},
	})
	asPhysician(c, 9, "dr_leroy")

	require.NoError(t, h.SubmitPatient(c))
	assert.Equal(t, "add_patient.html", r.name)
	assert.NotEmpty(t, r.data["error"])
}

func TestUpdatePatient_ForeignPatientRedirectsSilently(t *testing.T) {
	h, mock, e, _ := newPatientHandler(t)

	// Patient 5 belongs to another physician: zero rows are touched.
	mock.ExpectExec("UPDATE patients SET").
		WithArgs("Renamed", uint64(5), uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	c, rec := postForm(e, "/patients/update/5", url.Values{"name": {"Renamed"}})
	c.SetParamNames("id")
	c.SetParamValues("5")
	asPhysician(c, 9, "dr_leroy")

	require.NoError(t, h.UpdatePatient(c))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/patients", rec.Header().Get(echo.HeaderLocation))
}

func TestUpdatePatient_OwnedPatient(t *testing.T) {
	h, mock, e, _ := newPatientHandler(t)

	mock.ExpectExec("UPDATE patients SET").
		WithArgs("Renamed", 160.0, uint64(5), uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := postForm(e, "/patients/update/5", url.Values{
		"name":    {"Renamed"},
		"glucose": {"160.0"},
	})
	c.SetParamNames("id")
	c.SetParamValues("5")
	asPhysician(c, 9, "dr_leroy")

	require.NoError(t, h.UpdatePatient(c))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeletePatient_ForeignPatientIsSilentNoOp(t *testing.T) {
	h, mock, e, _ := newPatientHandler(t)

	mock.ExpectExec("DELETE FROM patients").
		WithArgs(uint64(5), uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	c, rec := postForm(e, "/delete/5", url.Values{})
	c.SetParamNames("id")
	c.SetParamValues("5")
	asPhysician(c, 9, "dr_leroy")

	require.NoError(t, h.DeletePatient(c))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/patients", rec.Header().Get(echo.HeaderLocation),
		"a foreign id must be indistinguishable from a missing id")
}

func TestDeletePatient_Owned(t *testing.T) {
	h, mock, e, _ := newPatientHandler(t)

	mock.ExpectExec("DELETE FROM patients").
		WithArgs(uint64(5), uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c, rec := postForm(e, "/delete/5", url.Values{})
	c.SetParamNames("id")
	c.SetParamValues("5")
	asPhysician(c, 9, "dr_leroy")

	require.NoError(t, h.DeletePatient(c))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}
