package http

import (
	"net/http"
	"strings"

	"portfolio/internal/domain/models"
	"portfolio/internal/transport/http/dto/response"
	"portfolio/internal/transport/http/views"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	sessionName     = "session"
	sessionAdminKey = "admin_email"
	adminContextKey = "admin"
)

type gateResult int

const (
	gateAnonymous gateResult = iota
	gateAllowed
	gateForbidden
)

// resolveAdmin checks a Bearer access token first, then the session
// cookie. A credential for anyone but the configured admin is forbidden.
func (r *Routers) resolveAdmin(c echo.Context) (*models.Admin, gateResult) {
	if token, ok := bearerToken(c); ok {
		admin, err := r.TokenService.ValidateAccess(token)
		if err != nil {
			return nil, gateAnonymous
		}
		if !r.AuthService.IsAdmin(admin.Email) {
			return nil, gateForbidden
		}
		return admin, gateAllowed
	}

	sess, err := session.Get(sessionName, c)
	if err != nil {
		return nil, gateAnonymous
	}

	email, ok := sess.Values[sessionAdminKey].(string)
	if !ok || email == "" {
		return nil, gateAnonymous
	}
	if !r.AuthService.IsAdmin(email) {
		return nil, gateForbidden
	}

	admin := r.AuthService.Admin()
	return &admin, gateAllowed
}

// RequireAdminPage redirects anyone but the admin to the login page.
func (r *Routers) RequireAdminPage(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		admin, result := r.resolveAdmin(c)
		if result != gateAllowed {
			return c.Redirect(http.StatusSeeOther, "/admin/auth")
		}

		c.Set(adminContextKey, *admin)
		return next(c)
	}
}

// RequireAdminAPI answers 401 without credentials and 403 for a
// non-admin identity.
func (r *Routers) RequireAdminAPI(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		admin, result := r.resolveAdmin(c)
		switch result {
		case gateAnonymous:
			return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationRequired)
		case gateForbidden:
			return c.JSON(http.StatusForbidden, response.ErrAdminRequired)
		}

		c.Set(adminContextKey, *admin)
		return next(c)
	}
}

func currentAdmin(c echo.Context) models.Admin {
	admin, _ := c.Get(adminContextKey).(models.Admin)
	return admin
}

func setAdminSession(c echo.Context, email string) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	sess.Values[sessionAdminKey] = email
	return sess.Save(c.Request(), c.Response())
}

func clearAdminSession(c echo.Context) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	delete(sess.Values, sessionAdminKey)
	sess.Options.MaxAge = -1
	return sess.Save(c.Request(), c.Response())
}

func bearerToken(c echo.Context) (string, bool) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

func csrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}

func isAPI(c echo.Context) bool {
	return strings.HasPrefix(c.Request().URL.Path, "/api/")
}

func (r *Routers) page(c echo.Context) views.Page {
	return views.Page{Site: r.site, CSRF: csrfToken(c)}
}
