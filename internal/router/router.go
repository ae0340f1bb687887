package router // package router defines how HTTP routes are registered for the application

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/diabeto/patient-registry/internal/config"
	"github.com/diabeto/patient-registry/internal/handler"
	"github.com/diabeto/patient-registry/internal/middleware"
	"github.com/diabeto/patient-registry/internal/repository"
)

// RegisterRoutes wires up the complete HTTP surface of the application.
//
// Public routes: the login/registration page, the credential forms and the
// health check.  The credential forms additionally pass through the Redis
// token-bucket rate limiter to slow credential stuffing (pass-through when
// Redis is unavailable).
//
// Protected routes live behind the SessionAuth middleware, which validates
// the signed session cookie and redirects anonymous browsers to the login
// page instead of answering with a hard error.
func RegisterRoutes(e *echo.Echo, a *handler.AuthHandler, p *handler.PatientHandler, revoked *repository.RevocationStore, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	// Entry page and session lifecycle.  Logout stays public on purpose:
	// destroying a session must work even when the session is already gone.
	e.GET("/", a.LoginPage)
	e.GET("/logout", a.Logout)

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	e.POST("/register", a.Register, limiter)
	e.POST("/login", a.Login, limiter)

	// Patient management requires an authenticated physician.
	auth := e.Group("")
	auth.Use(middleware.SessionAuth(a.Cfg.SessionSecret, revoked))
	auth.GET("/patients", p.Dashboard)
	auth.GET("/add", p.AddPatientPage)
	auth.POST("/submit", p.SubmitPatient)
	auth.POST("/patients/update/:id", p.UpdatePatient)
	auth.POST("/delete/:id", p.DeletePatient)
}
