// This file defines the repository for patient records. Every query is
// scoped by doctor_id taken from the authenticated session; the repository
// has no method that reads or mutates a patient across tenants.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/diabeto/patient-registry/internal/model"
)

// PatientRepo encapsulates all database queries related to patients. It
// depends on a sql.DB connection which should be configured elsewhere.
type PatientRepo struct {
	db *sql.DB // db is the underlying database connection pool
}

// NewPatientRepo constructs a PatientRepo with the provided DB handle. This
// function allows dependency injection of the database in tests and at
// startup. There is no initialization logic beyond assigning the field.
func NewPatientRepo(db *sql.DB) *PatientRepo {
	return &PatientRepo{db: db}
}

// PatientUpdate carries the optional fields of a partial update. Nil
// pointers leave the corresponding column untouched. The prediction result
// is deliberately absent: it is computed once at creation and never edited
// through the form.
type PatientUpdate struct {
	Name          *string
	Age           *int
	Sex           *string
	Glucose       *float64
	BMI           *float64
	BloodPressure *float64
	Pedigree      *float64
}

// Create inserts a new patient into the database. On success the patient's
// ID field will be populated with the auto-generated value. After the
// insert, a SELECT is executed to populate the CreatedAt field so that
// callers receive a fully populated record.
func (r *PatientRepo) Create(ctx context.Context, p *model.Patient) error {
	const qInsert = `INSERT INTO patients
	                 (doctor_id, name, age, sex, glucose, bmi, bloodpressure, pedigree, prediction_result)
	                 VALUES (?,?,?,?,?,?,?,?,?)`
	res, err := r.db.ExecContext(ctx, qInsert,
		p.DoctorID, p.Name, p.Age, p.Sex, p.Glucose, p.BMI, p.BloodPressure, p.Pedigree, p.Prediction)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)

	const qSelect = "SELECT created_at FROM patients WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, p.ID).Scan(&p.CreatedAt)
}

// ListByOwner returns all patients of a specific physician ordered by id.
func (r *PatientRepo) ListByOwner(ctx context.Context, doctorID uint64) ([]*model.Patient, error) {
	const q = `SELECT id, doctor_id, name, age, sex, glucose, bmi, bloodpressure, pedigree, prediction_result, created_at
	           FROM patients WHERE doctor_id = ? ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q, doctorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByIDAndOwner fetches a patient by id but only if it belongs to the
// specified physician. If the patient doesn't exist or is owned by someone
// else, ErrPatientNotFound is returned.
func (r *PatientRepo) GetByIDAndOwner(ctx context.Context, id, doctorID uint64) (*model.Patient, error) {
	const q = `SELECT id, doctor_id, name, age, sex, glucose, bmi, bloodpressure, pedigree, prediction_result, created_at
	           FROM patients WHERE id = ? AND doctor_id = ?`
	row := r.db.QueryRowContext(ctx, q, id, doctorID)
	p, err := scanPatient(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPatientNotFound
		}
		return nil, err
	}
	return p, nil
}

// Update applies the non-nil fields of upd to a patient owned by doctorID.
// It returns sql.ErrNoRows when no row is affected (not found / not owned /
// nothing to change).
func (r *PatientRepo) Update(ctx context.Context, id, doctorID uint64, upd PatientUpdate) error {
	sets := make([]string, 0, 7)
	args := make([]any, 0, 9)
	appendSet := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if upd.Name != nil {
		appendSet("name", *upd.Name)
	}
	if upd.Age != nil {
		appendSet("age", *upd.Age)
	}
	if upd.Sex != nil {
		appendSet("sex", *upd.Sex)
	}
	if upd.Glucose != nil {
		appendSet("glucose", *upd.Glucose)
	}
	if upd.BMI != nil {
		appendSet("bmi", *upd.BMI)
	}
	if upd.BloodPressure != nil {
		appendSet("bloodpressure", *upd.BloodPressure)
	}
	if upd.Pedigree != nil {
		appendSet("pedigree", *upd.Pedigree)
	}
	if len(sets) == 0 {
		return sql.ErrNoRows
	}
	q := "UPDATE patients SET " + strings.Join(sets, ", ") + " WHERE id = ? AND doctor_id = ?"
	args = append(args, id, doctorID)
	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a patient owned by doctorID. It reports whether a row was
// actually deleted; deleting a missing or foreign id is not an error.
func (r *PatientRepo) Delete(ctx context.Context, id, doctorID uint64) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM patients WHERE id = ? AND doctor_id = ?", id, doctorID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CountDiabeticByOwner counts the physician's patients whose stored
// prediction equals 1.
func (r *PatientRepo) CountDiabeticByOwner(ctx context.Context, doctorID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM patients WHERE doctor_id = ? AND prediction_result = 1",
		doctorID).Scan(&n)
	return n, err
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanPatient reads one patient row; a NULL prediction_result becomes
// model.PredictionUnavailable.
func scanPatient(s scanner) (*model.Patient, error) {
	p := new(model.Patient)
	var pred sql.NullInt64
	if err := s.Scan(&p.ID, &p.DoctorID, &p.Name, &p.Age, &p.Sex,
		&p.Glucose, &p.BMI, &p.BloodPressure, &p.Pedigree, &pred, &p.CreatedAt); err != nil {
		return nil, err
	}
	if pred.Valid {
		p.Prediction = int(pred.Int64)
	} else {
		p.Prediction = model.PredictionUnavailable
	}
	return p, nil
}
