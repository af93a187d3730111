package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/forumhub/forum-api/internal/core/domain"
	"github.com/forumhub/forum-api/internal/core/ports"
)

// CookieConfig names the session cookies and how they are flagged.
type CookieConfig struct {
	Name   string
	Secure bool
}

// refreshName is the refresh cookie, scoped to /auth so it only travels with
// the refresh and logout calls.
func (cc CookieConfig) refreshName() string { return cc.Name + "_refresh" }

type AuthHandler struct {
	authService ports.AuthService
	cookies     CookieConfig
}

func NewAuthHandler(authService ports.AuthService, cookies CookieConfig) *AuthHandler {
	return &AuthHandler{authService: authService, cookies: cookies}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	user, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toUserResponse(user))
}

// Login verifies credentials and sets the access and refresh cookies.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	session, err := h.authService.Login(c.Request().Context(), req.Email, req.Password, c.RealIP())
	if err != nil {
		return err
	}

	c.SetCookie(h.sessionCookie(h.cookies.Name, "/", session.Access))
	c.SetCookie(h.sessionCookie(h.cookies.refreshName(), "/auth", session.Refresh))
	return c.JSON(http.StatusOK, sessionResponse{
		User:      toUserResponse(session.User),
		ExpiresAt: session.Access.ExpiresAt,
	})
}

// Refresh exchanges the refresh cookie for a new access cookie.
//
// @Summary      Refresh the access token
// @Tags         auth
// @Produce      json
// @Success      200   {object}  sessionResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c echo.Context) error {
	cookie, err := c.Cookie(h.cookies.refreshName())
	if err != nil || cookie.Value == "" {
		return domain.ErrUnauthenticated
	}

	session, err := h.authService.Refresh(c.Request().Context(), cookie.Value, c.RealIP())
	if err != nil {
		return err
	}

	c.SetCookie(h.sessionCookie(h.cookies.Name, "/", session.Access))
	return c.JSON(http.StatusOK, sessionResponse{
		User:      toUserResponse(session.User),
		ExpiresAt: session.Access.ExpiresAt,
	})
}

// Logout clears both cookies. Tokens are stateless, so an access token copied
// elsewhere stays valid until it expires.
//
// @Summary      Logout
// @Tags         auth
// @Success      204
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if p, ok := domain.PrincipalFromContext(c.Request().Context()); ok {
		h.authService.Logout(c.Request().Context(), p.ID, c.RealIP())
	}

	c.SetCookie(h.expiredCookie(h.cookies.Name, "/"))
	c.SetCookie(h.expiredCookie(h.cookies.refreshName(), "/auth"))
	return c.NoContent(http.StatusNoContent)
}

// Me returns the authenticated user.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200   {object}  userResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	user, err := h.authService.Me(c.Request().Context(), p.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *AuthHandler) sessionCookie(name, path string, tok domain.IssuedToken) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    tok.Value,
		Path:     path,
		Expires:  tok.ExpiresAt,
		MaxAge:   int(tok.MaxAge / time.Second),
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}

// expiredCookie renders as Max-Age=0, which tells the browser to drop it.
func (h *AuthHandler) expiredCookie(name, path string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
