package controller

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/beharry-studio/ms-go-booking/app/auth"
	"github.com/beharry-studio/ms-go-booking/app/factory"
	"github.com/beharry-studio/ms-go-booking/app/service"
	"github.com/beharry-studio/ms-go-booking/app/types"
	"github.com/beharry-studio/ms-go-booking/config"
)

const sessionCookieName = "admin_session"

type AdminController struct {
	sessions     *auth.SessionManager
	statsService *service.StatsService
	adminCfg     config.AdminConfig
	logger       logrus.FieldLogger
}

func NewAdminController(sessions *auth.SessionManager, statsService *service.StatsService, adminCfg config.AdminConfig) *AdminController {
	return &AdminController{
		sessions:     sessions,
		statsService: statsService,
		adminCfg:     adminCfg,
		logger:       factory.NewModuleLogger("admin-controller"),
	}
}

func (c *AdminController) Login(ctx echo.Context) error {
	req, err := types.NewAdminLoginRequestFromContext(ctx)
	if err != nil {
		return c.writeError(ctx, http.StatusBadRequest, "invalid request body")
	}
	if err := req.Validate(); err != nil {
		return c.writeError(ctx, http.StatusBadRequest, err.Error())
	}

	if c.adminCfg.Username == "" || c.adminCfg.Password == "" {
		return c.writeError(ctx, http.StatusServiceUnavailable, "admin login is not configured")
	}

	usernameOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(c.adminCfg.Username)) == 1
	passwordOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(c.adminCfg.Password)) == 1
	if !usernameOK || !passwordOK {
		c.logger.WithField("username", req.Username).Warn("Admin login rejected")
		return c.writeError(ctx, http.StatusUnauthorized, "invalid credentials")
	}

	token, err := c.sessions.Issue(req.Username)
	if err != nil {
		c.logger.WithError(err).Error("Session issue failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}

	ctx.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(c.sessions.TTL()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})

	return ctx.JSON(http.StatusOK, &types.AdminSessionResponse{Authenticated: true, Username: req.Username})
}

func (c *AdminController) Session(ctx echo.Context) error {
	username, ok := c.sessionUser(ctx)
	if !ok {
		return ctx.JSON(http.StatusOK, &types.AdminSessionResponse{Authenticated: false})
	}
	return ctx.JSON(http.StatusOK, &types.AdminSessionResponse{Authenticated: true, Username: username})
}

func (c *AdminController) Logout(ctx echo.Context) error {
	ctx.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
	return ctx.JSON(http.StatusOK, &types.MessageResponse{Message: "Logged out"})
}

func (c *AdminController) Stats(ctx echo.Context) error {
	stats, err := c.statsService.Stats(ctx.Request().Context())
	if err != nil {
		c.logger.WithError(err).Error("Stats failed")
		return c.writeError(ctx, http.StatusInternalServerError, "internal server error")
	}
	return ctx.JSON(http.StatusOK, stats)
}

// RequireSession guards admin-only routes with the session cookie.
func (c *AdminController) RequireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if _, ok := c.sessionUser(ctx); !ok {
			return c.writeError(ctx, http.StatusUnauthorized, "authentication required")
		}
		return next(ctx)
	}
}

func (c *AdminController) sessionUser(ctx echo.Context) (string, bool) {
	cookie, err := ctx.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	username, err := c.sessions.Parse(cookie.Value)
	if err != nil {
		return "", false
	}
	return username, true
}

func (c *AdminController) writeError(ctx echo.Context, statusCode int, message string) error {
	return ctx.JSON(statusCode, &types.ErrorResponse{Error: message})
}
