package model

import "time"

// PredictionUnavailable is stored when the classifier was not loaded at
// startup or failed to produce a label.  The two risk classes are 0 and 1.
const PredictionUnavailable = -1

// Patient models a row in the `patients` table.  Every patient belongs to
// exactly one physician via DoctorID; all reads and mutations are keyed by
// (id, doctor_id) so a foreign id behaves exactly like a missing one.
//
// Fields:
//  ID            – primary key identifier.
//  DoctorID      – owning physician (medecins.id).
//  Name          – patient display name.
//  Age           – age in years; not part of the model feature vector.
//  Sex           – categorical string ("M"/"F"); not part of the feature vector.
//  Glucose       – plasma glucose concentration.
//  BMI           – body-mass index.
//  BloodPressure – diastolic blood pressure.
//  Pedigree      – diabetes pedigree function score.
//  Prediction    – risk label computed at creation (-1 unavailable, 0/1 classes).
//  CreatedAt     – timestamp of creation.
type Patient struct {
    ID            uint64    // patients.id
    DoctorID      uint64    // patients.doctor_id
    Name          string    // patients.name
    Age           int       // patients.age
    Sex           string    // patients.sex
    Glucose       float64   // patients.glucose
    BMI           float64   // patients.bmi
    BloodPressure float64   // patients.bloodpressure
    Pedigree      float64   // patients.pedigree
    Prediction    int       // patients.prediction_result (-1 when unavailable)
    CreatedAt     time.Time // patients.created_at
}
