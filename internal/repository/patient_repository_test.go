package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diabeto/patient-registry/internal/model"
)

func newPatientRepo(t *testing.T) (*PatientRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPatientRepo(db), mock
}

var patientColumns = []string{
	"id", "doctor_id", "name", "age", "sex",
	"glucose", "bmi", "bloodpressure", "pedigree", "prediction_result", "created_at",
}

func TestPatientCreate(t *testing.T) {
	repo, mock := newPatientRepo(t)
	created := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO patients").
		WithArgs(uint64(1), "Patient_1", 45, "F", 150.0, 32.0, 80.0, 0.5, 1).
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT created_at FROM patients WHERE id = ?")).
		WithArgs(uint64(11)).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	p := &model.Patient{
		DoctorID: 1, Name: "Patient_1", Age: 45, Sex: "F",
		Glucose: 150.0, BMI: 32.0, BloodPressure: 80.0, Pedigree: 0.5, Prediction: 1,
	}
	require.NoError(t, repo.Create(context.Background(), p))
	assert.Equal(t, uint64(11), p.ID)
	assert.Equal(t, created, p.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientListByOwner(t *testing.T) {
	repo, mock := newPatientRepo(t)
	created := time.Date(2024, 5, 2, 10, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows(patientColumns).
		AddRow(1, 9, "Patient_1", 40, "M", 120.0, 25.0, 70.0, 0.3, 0, created).
		AddRow(2, 9, "Patient_2", 55, "F", 170.0, 33.0, 90.0, 1.2, 1, created).
		AddRow(3, 9, "Patient_3", 60, "F", 140.0, 30.0, 85.0, 0.9, nil, created)
	mock.ExpectQuery("SELECT (.+) FROM patients WHERE doctor_id = \\? ORDER BY id").
		WithArgs(uint64(9)).
		WillReturnRows(rows)

	out, err := repo.ListByOwner(context.Background(), 9)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, 0, out[0].Prediction)
	assert.Equal(t, 1, out[1].Prediction)
	assert.Equal(t, model.PredictionUnavailable, out[2].Prediction, "NULL prediction maps to -1")
	for _, p := range out {
		assert.Equal(t, uint64(9), p.DoctorID)
	}
}

func TestPatientGetByIDAndOwner_ForeignOwnerLooksMissing(t *testing.T) {
	repo, mock := newPatientRepo(t)

	// The row exists under doctor 2, so the owner-scoped query returns no rows.
	mock.ExpectQuery("SELECT (.+) FROM patients WHERE id = \\? AND doctor_id = \\?").
		WithArgs(uint64(5), uint64(1)).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByIDAndOwner(context.Background(), 5, 1)
	assert.ErrorIs(t, err, ErrPatientNotFound)
}

func TestPatientUpdate_PartialFields(t *testing.T) {
	repo, mock := newPatientRepo(t)

	name := "Renamed"
	glucose := 160.0
	mock.ExpectExec(regexp.QuoteMeta(
		"UPDATE patients SET name = ?, glucose = ? WHERE id = ? AND doctor_id = ?")).
		WithArgs(name, glucose, uint64(4), uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Update(context.Background(), 4, 9, PatientUpdate{Name: &name, Glucose: &glucose})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPatientUpdate_NotOwned(t *testing.T) {
	repo, mock := newPatientRepo(t)

	name := "Renamed"
	mock.ExpectExec("UPDATE patients SET").
		WithArgs(name, uint64(4), uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), 4, 1, PatientUpdate{Name: &name})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestPatientUpdate_NoFields(t *testing.T) {
	repo, _ := newPatientRepo(t)

	// No SQL expected: an empty update never reaches the database.
	err := repo.Update(context.Background(), 4, 9, PatientUpdate{})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestPatientDelete(t *testing.T) {
	repo, mock := newPatientRepo(t)

	mock.ExpectExec(regexp.QuoteMeta(
		"DELETE FROM patients WHERE id = ? AND doctor_id = ?")).
		WithArgs(uint64(4), uint64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	deleted, err := repo.Delete(context.Background(), 4, 9)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestPatientDelete_ForeignOwnerIsNoOp(t *testing.T) {
	repo, mock := newPatientRepo(t)

	mock.ExpectExec("DELETE FROM patients").
		WithArgs(uint64(4), uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	deleted, err := repo.Delete(context.Background(), 4, 1)
	require.NoError(t, err, "deleting a foreign patient must not surface an error")
	assert.False(t, deleted)
}

func TestCountDiabeticByOwner(t *testing.T) {
	repo, mock := newPatientRepo(t)

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM patients WHERE doctor_id = \\? AND prediction_result = 1").
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	n, err := repo.CountDiabeticByOwner(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
