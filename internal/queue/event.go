// Package queue defines message payloads exchanged over the message broker.
package queue

// PatientCreatedEvent is published when a patient record is successfully
// created. It contains enough information for downstream consumers to write
// an audit trail or trigger analytics without querying the primary database.
// Clinical measurements are deliberately excluded from the payload.
type PatientCreatedEvent struct {
    PatientID   uint64 `json:"patient_id"`
    DoctorID    uint64 `json:"doctor_id"`
    PatientName string `json:"patient_name"`
    Prediction  int    `json:"prediction"`
    CreatedAt   string `json:"created_at"`
}
