// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrPatientNotFound covers both a genuinely missing row and a
// row owned by another physician, so handlers cannot accidentally leak
// whether a foreign record exists.
package repository

import "errors"

// ErrPhysicianExists is returned when registration collides with an
// existing username or email. Handlers re-display the registration form
// with a human-readable message.
var ErrPhysicianExists = errors.New("username or email already exists")

// ErrPatientNotFound is returned when a patient lookup or mutation matches
// no row for the claimed owner. A patient that exists under a different
// physician produces this same error by design.
var ErrPatientNotFound = errors.New("patient not found")
