package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/diabeto/patient-registry/internal/config"
	"github.com/diabeto/patient-registry/internal/database"
	"github.com/diabeto/patient-registry/internal/handler"
	"github.com/diabeto/patient-registry/internal/predict"
	"github.com/diabeto/patient-registry/internal/queue"
	"github.com/diabeto/patient-registry/internal/repository"
	"github.com/diabeto/patient-registry/internal/router"
	"github.com/diabeto/patient-registry/internal/view"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := database.EnsureSchema(ctx, db); err != nil {
		cancel()
		log.Fatalf("schema: %v", err)
	}
	cancel()

	// Redis backs the logout denylist and the auth rate limiter. A nil
	// client degrades both gracefully.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; rate limiting and session revocation disabled")
	}
	revoked := repository.NewRevocationStore(rdb)

	// Classifier and scaler artifacts load once; the predictor is read-only
	// afterwards and shared by all requests.
	predictor := predict.Load(cfg.ModelPath, cfg.ScalerPath)

	physicians := repository.NewPhysicianRepo(db)
	patients := repository.NewPatientRepo(db)

	authHandler := handler.NewAuthHandler(cfg, physicians, revoked)
	patientHandler := handler.NewPatientHandler(patients, predictor)

	e := echo.New()
	renderer, err := view.New("web/templates/*.html")
	if err != nil {
		log.Fatalf("templates: %v", err)
	}
	e.Renderer = renderer

	router.RegisterRoutes(e, authHandler, patientHandler, revoked, rdb)

	// Background audit consumer; reconnects on its own.
	go func() {
		if err := queue.StartPatientConsumer(); err != nil {
			log.Printf("patient consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
