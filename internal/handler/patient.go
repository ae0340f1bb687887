package handler // handler package contains patient management handlers

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/diabeto/patient-registry/internal/model"
	"github.com/diabeto/patient-registry/internal/predict"
	"github.com/diabeto/patient-registry/internal/queue"
	"github.com/diabeto/patient-registry/internal/repository"
	queue_publisher "github.com/diabeto/patient-registry/internal/service"
)

// PatientHandler bundles the patient repository and the prediction adapter.
// Every handler first resolves the session identity and scopes all
// repository calls by the session's physician id.
type PatientHandler struct {
	Patients  *repository.PatientRepo
	Predictor *predict.Predictor
}

// NewPatientHandler constructs a PatientHandler and panics if a dependency
// is nil.
func NewPatientHandler(patients *repository.PatientRepo, predictor *predict.Predictor) *PatientHandler {
	if patients == nil || predictor == nil {
		panic("nil dependency passed to NewPatientHandler")
	}
	return &PatientHandler{Patients: patients, Predictor: predictor}
}

// ----- DTOs -----

type patientReq struct {
	Name          string  `form:"name" json:"name"`
	Age           int     `form:"age" json:"age"`
	Sex           string  `form:"sex" json:"sex"`
	Glucose       float64 `form:"glucose" json:"glucose"`
	BMI           float64 `form:"bmi" json:"bmi"`
	BloodPressure float64 `form:"bloodpressure" json:"bloodpressure"`
	Pedigree      float64 `form:"pedigree" json:"pedigree"`
}

// patientUpdateReq uses pointers so absent form fields stay nil and leave
// the stored value untouched.
type patientUpdateReq struct {
	Name          *string  `form:"name" json:"name"`
	Age           *int     `form:"age" json:"age"`
	Sex           *string  `form:"sex" json:"sex"`
	Glucose       *float64 `form:"glucose" json:"glucose"`
	BMI           *float64 `form:"bmi" json:"bmi"`
	BloodPressure *float64 `form:"bloodpressure" json:"bloodpressure"`
	Pedigree      *float64 `form:"pedigree" json:"pedigree"`
}

// Dashboard handles GET /patients: the physician's roster plus aggregate
// risk statistics.
func (h *PatientHandler) Dashboard(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return c.Redirect(http.StatusSeeOther, "/")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	patients, err := h.Patients.ListByOwner(ctx, sess.PhysicianID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	diabetic, err := h.Patients.CountDiabeticByOwner(ctx, sess.PhysicianID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	total := len(patients)
	percentage := 0.0
	if total > 0 {
		percentage = float64(diabetic) / float64(total) * 100
	}

	return c.Render(http.StatusOK, "patients.html", echo.Map{
		"username":            sess.Username,
		"patients":            patients,
		"total_patients":      total,
		"diabetic_patients":   diabetic,
		"diabetic_percentage": percentage,
	})
}

// AddPatientPage handles GET /add and renders the patient form.
func (h *PatientHandler) AddPatientPage(c echo.Context) error {
	if _, err := currentSession(c); err != nil {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	return c.Render(http.StatusOK, "add_patient.html", echo.Map{})
}

// SubmitPatient handles POST /submit: computes the risk prediction, persists
// the patient under the session's physician and re-displays the form with
// the resulting label. A missing classifier stores -1 and never blocks the
// creation.
func (h *PatientHandler) SubmitPatient(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	var req patientReq
	if err := c.Bind(&req); err != nil {
		return c.Render(http.StatusOK, "add_patient.html", echo.Map{"error": "Formulaire invalide."})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Age < 0 {
		return c.Render(http.StatusOK, "add_patient.html", echo.Map{"error": "Nom obligatoire et âge positif requis."})
	}

	// Fixed feature order [glucose, bloodpressure, bmi, pedigree]; age and
	// sex are recorded but are not model inputs.
	label := h.Predictor.Predict(req.Glucose, req.BloodPressure, req.BMI, req.Pedigree)

	p := &model.Patient{
		DoctorID:      sess.PhysicianID,
		Name:          req.Name,
		Age:           req.Age,
		Sex:           req.Sex,
		Glucose:       req.Glucose,
		BMI:           req.BMI,
		BloodPressure: req.BloodPressure,
		Pedigree:      req.Pedigree,
		Prediction:    label,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Patients.Create(ctx, p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create patient failed"})
	}

	// Best-effort audit event; broker trouble never fails the request.
	event := queue.PatientCreatedEvent{
		PatientID:   p.ID,
		DoctorID:    p.DoctorID,
		PatientName: p.Name,
		Prediction:  p.Prediction,
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
	}
	go func() {
		pubCtx, pubCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pubCancel()
		_ = queue_publisher.PublishPatientCreated(pubCtx, event)
	}()

	return c.Render(http.StatusOK, "add_patient.html", echo.Map{"result": label})
}

// UpdatePatient handles POST /patients/update/:id. Only a patient owned by
// the session's physician is touched; a missing id and a foreign id both
// redirect silently to the dashboard so nothing about other tenants leaks.
func (h *PatientHandler) UpdatePatient(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.Redirect(http.StatusSeeOther, "/patients")
	}
	var req patientUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.Redirect(http.StatusSeeOther, "/patients")
	}

	upd := repository.PatientUpdate{
		Name:          req.Name,
		Age:           req.Age,
		Sex:           req.Sex,
		Glucose:       req.Glucose,
		BMI:           req.BMI,
		BloodPressure: req.BloodPressure,
		Pedigree:      req.Pedigree,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Patients.Update(ctx, id, sess.PhysicianID, upd); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Redirect(http.StatusSeeOther, "/patients")
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.Redirect(http.StatusSeeOther, "/patients")
}

// DeletePatient handles POST /delete/:id. Deleting a missing or foreign id
// is a silent no-op.
func (h *PatientHandler) DeletePatient(c echo.Context) error {
	sess, err := currentSession(c)
	if err != nil {
		return c.Redirect(http.StatusSeeOther, "/")
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.Redirect(http.StatusSeeOther, "/patients")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if _, err := h.Patients.Delete(ctx, id, sess.PhysicianID); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.Redirect(http.StatusSeeOther, "/patients")
}
