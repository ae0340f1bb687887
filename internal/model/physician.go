package model

import "time"

// Physician represents an account holder as stored in the `medecins`
// table. Each field corresponds to a column in the database. The json
// tags are omitted here because these structs are primarily used
// internally by the repository layer; handlers may define separate
// response types where needed.  A physician owns zero or more patients
// and is never updated or deleted after registration.
//
// Fields:
//  ID           – primary key identifier of the physician.
//  Username     – unique login name.
//  Email        – unique email address.
//  PasswordHash – bcrypt hashed password; the raw password is never stored.
//  CreatedAt    – timestamp of registration.
type Physician struct {
    ID           uint64    // medecins.id
    Username     string    // medecins.username
    Email        string    // medecins.email
    PasswordHash string    // medecins.password_hash
    CreatedAt    time.Time // medecins.created_at
}

// Session is the typed identity carried by a signed session cookie.  It is
// threaded explicitly through protected handlers instead of living in
// ambient request state.
//
// Fields:
//  PhysicianID – id of the authenticated physician.
//  Username    – display name shown on the dashboard.
type Session struct {
    PhysicianID uint64
    Username    string
}
