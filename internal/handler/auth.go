package handler

import (
    "context"      // provides context with cancellation for DB calls
    "database/sql" // SQL database interactions
    "errors"       // sentinel error comparisons
    "net/http"     // HTTP status codes and primitives
    "strings"      // string manipulation utilities
    "time"         // timeouts for DB calls

    "github.com/labstack/echo/v4" // Echo framework for HTTP routing

    "github.com/diabeto/patient-registry/internal/config"     // app configuration
    "github.com/diabeto/patient-registry/internal/middleware" // session cookie name
    "github.com/diabeto/patient-registry/internal/repository" // DB repositories
    "github.com/diabeto/patient-registry/internal/utils"      // helper functions (hashing, token issuing)
)

// AuthHandler bundles dependencies for the registration/login/logout flow.
type AuthHandler struct {
	Cfg        config.Config
	Physicians *repository.PhysicianRepo
	Revoked    *repository.RevocationStore
}

func NewAuthHandler(cfg config.Config, p *repository.PhysicianRepo, r *repository.RevocationStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Physicians: p, Revoked: r}
}

// ----- DTOs -----

type registerReq struct {
	Username        string `form:"username" json:"username"`
	Email           string `form:"email" json:"email"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}
type loginReq struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// Uniform message for both unknown username and wrong password: the login
// form must not reveal which of the two failed.
const msgBadCredentials = "Nom d'utilisateur ou mot de passe incorrect."

// LoginPage renders the combined login/registration page.
func (h *AuthHandler) LoginPage(c echo.Context) error {
	return c.Render(http.StatusOK, "login.html", echo.Map{})
}

// Register: create a physician account. The new account is NOT logged in
// automatically; on success the browser is sent back to the login page.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.Render(http.StatusOK, "login.html", echo.Map{"error_register": "Formulaire invalide."})
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return c.Render(http.StatusOK, "login.html", echo.Map{"error_register": "Tous les champs sont obligatoires."})
	}
	if req.Password != req.ConfirmPassword {
		return c.Render(http.StatusOK, "login.html", echo.Map{"error_register": "Les mots de passe ne correspondent pas."})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	_, err := h.Physicians.Create(ctx, req.Username, req.Email, req.Password, h.Cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrPhysicianExists) {
			return c.Render(http.StatusOK, "login.html", echo.Map{"error_register": "Ce nom d'utilisateur ou cet e-mail est déjà utilisé."})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create account failed"})
	}

	return c.Redirect(http.StatusSeeOther, "/")
}

// Login: verify credentials and establish a cookie session.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.Render(http.StatusOK, "login.html", echo.Map{"error_login": msgBadCredentials})
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return c.Render(http.StatusOK, "login.html", echo.Map{"error_login": msgBadCredentials})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Physicians.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.Render(http.StatusOK, "login.html", echo.Map{"error_login": msgBadCredentials})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if !utils.VerifyPassword(p.PasswordHash, req.Password) {
		return c.Render(http.StatusOK, "login.html", echo.Map{"error_login": msgBadCredentials})
	}

	tok, err := utils.NewSessionToken(h.Cfg.SessionSecret, p.ID, p.Username, h.Cfg.SessionTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue session failed"})
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    tok.Token,
		Path:     "/",
		Expires:  tok.Exp,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return c.Redirect(http.StatusSeeOther, "/patients")
}

// Logout invalidates the current session and clears the cookie. It is
// idempotent: logging out twice, or with no session at all, still redirects
// to the login page without error.
func (h *AuthHandler) Logout(c echo.Context) error {
	if cookie, err := c.Cookie(middleware.SessionCookieName); err == nil && cookie.Value != "" {
		// Deny the token until its natural expiry. A malformed cookie is
		// simply dropped: clearing it below already ends the session on
		// this client.
		if _, exp, err := utils.ParseSessionToken(h.Cfg.SessionSecret, cookie.Value); err == nil {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
			defer cancel()
			_ = h.Revoked.Revoke(ctx, utils.HashSessionRaw(cookie.Value), time.Until(exp))
		}
	}
	c.SetCookie(&http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.Redirect(http.StatusSeeOther, "/")
}
