// Command seed populates a development database with three physician
// accounts and twenty randomized patients. It is idempotent: existing
// physicians are kept and patients are only inserted into an empty roster.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/joho/godotenv"

	"github.com/diabeto/patient-registry/internal/config"
	"github.com/diabeto/patient-registry/internal/database"
	"github.com/diabeto/patient-registry/internal/model"
	"github.com/diabeto/patient-registry/internal/repository"
)

type seedPhysician struct {
	username string
	email    string
	password string
}

var physicians = []seedPhysician{
	{"dr_leroy", "leroy@diabeto.fr", "Medecin123!"},
	{"dr_dupont", "dupont@diabeto.fr", "SecurePass456!"},
	{"dr_martin", "martin@diabeto.fr", "Diabeto2024*"},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := database.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("schema: %v", err)
	}

	physicianRepo := repository.NewPhysicianRepo(db)
	patientRepo := repository.NewPatientRepo(db)

	ids, err := seedPhysicians(ctx, physicianRepo, cfg.BcryptCost)
	if err != nil {
		log.Fatalf("seed physicians: %v", err)
	}
	log.Printf("physicians ready: %d", len(ids))

	n, err := seedPatients(ctx, db, patientRepo, ids)
	if err != nil {
		log.Fatalf("seed patients: %v", err)
	}
	log.Printf("patients inserted: %d", n)
}

func seedPhysicians(ctx context.Context, repo *repository.PhysicianRepo, cost int) ([]uint64, error) {
	ids := make([]uint64, 0, len(physicians))
	for _, doc := range physicians {
		exists, err := repo.Exists(ctx, doc.username, doc.email)
		if err != nil {
			return nil, err
		}
		if !exists {
			if _, err := repo.Create(ctx, doc.username, doc.email, doc.password, cost); err != nil &&
				!errors.Is(err, repository.ErrPhysicianExists) {
				return nil, err
			}
		}
		p, err := repo.GetByUsername(ctx, doc.username)
		if err != nil {
			return nil, err
		}
		ids = append(ids, p.ID)
	}
	return ids, nil
}

func seedPatients(ctx context.Context, db *sql.DB, repo *repository.PatientRepo, doctorIDs []uint64) (int, error) {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM patients").Scan(&count); err != nil {
		return 0, err
	}
	if count > 0 {
		log.Printf("patients already present; skipping insert")
		return 0, nil
	}

	sexes := []string{"M", "F"}
	inserted := 0
	for i := 1; i <= 20; i++ {
		glucose := round1(70 + rand.Float64()*130)
		bmi := round1(18 + rand.Float64()*22)
		bp := round1(60 + rand.Float64()*60)
		pedigree := float64(int((0.1+rand.Float64()*2.4)*1000)) / 1000

		// Same heuristic label the original seed data used.
		prediction := 0
		if glucose > 140 && bmi > 30 {
			prediction = 1
		}

		p := &model.Patient{
			DoctorID:      doctorIDs[rand.Intn(len(doctorIDs))],
			Name:          fmt.Sprintf("Patient_%d", i),
			Age:           20 + rand.Intn(51),
			Sex:           sexes[rand.Intn(len(sexes))],
			Glucose:       glucose,
			BMI:           bmi,
			BloodPressure: bp,
			Pedigree:      pedigree,
			Prediction:    prediction,
		}
		if err := repo.Create(ctx, p); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

func round1(v float64) float64 { return float64(int(v*10)) / 10 }
