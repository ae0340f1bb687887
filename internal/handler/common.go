package handler // handler defines http handlers

import (
	"errors"

	"github.com/labstack/echo/v4"

	"github.com/diabeto/patient-registry/internal/model"
)

// currentSession rebuilds the typed session identity injected by the
// session middleware. Handlers receive identity exclusively through this
// value; the claimed owner id never comes from client-supplied input.
func currentSession(c echo.Context) (model.Session, error) {
	id, ok := c.Get("physician_id").(uint64)
	if !ok || id == 0 {
		return model.Session{}, errors.New("no authenticated physician in context")
	}
	username, _ := c.Get("username").(string)
	return model.Session{PhysicianID: id, Username: username}, nil
}
