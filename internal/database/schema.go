package database

import (
	"context"
	"database/sql"
)

// schemaStatements creates the two application tables. The registry keeps the
// historical French table name "medecins" so existing databases keep working.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS medecins (
		id            BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		username      VARCHAR(64)  NOT NULL,
		email         VARCHAR(255) NOT NULL,
		password_hash VARCHAR(100) NOT NULL,
		created_at    TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		UNIQUE KEY uq_medecins_username (username),
		UNIQUE KEY uq_medecins_email (email)
	) ENGINE=InnoDB`,
	`CREATE TABLE IF NOT EXISTS patients (
		id                BIGINT UNSIGNED NOT NULL AUTO_INCREMENT,
		doctor_id         BIGINT UNSIGNED NOT NULL,
		name              VARCHAR(255) NOT NULL,
		age               INT          NOT NULL,
		sex               VARCHAR(8)   NOT NULL,
		glucose           DOUBLE       NOT NULL,
		bmi               DOUBLE       NOT NULL,
		bloodpressure     DOUBLE       NOT NULL,
		pedigree          DOUBLE       NOT NULL,
		prediction_result INT          NULL,
		created_at        TIMESTAMP    NOT NULL DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (id),
		KEY idx_patients_doctor (doctor_id),
		CONSTRAINT fk_patients_doctor FOREIGN KEY (doctor_id) REFERENCES medecins (id)
	) ENGINE=InnoDB`,
}

// EnsureSchema creates the application tables when they do not exist yet.
// It runs once at startup; statements are idempotent.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
