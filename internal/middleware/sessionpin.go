package middleware

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/fedeguidottii/easyfood/internal/model"
	"github.com/fedeguidottii/easyfood/internal/repository"
	"github.com/fedeguidottii/easyfood/internal/utils"
)

// SessionPIN guards customer routes under /sessions/:id. It loads the
// session named in the path, requires it to still be OPEN, checks the
// X-Session-PIN header against the session's PIN (surrounding
// whitespace is ignored on both sides) and stores the loaded session
// in context under "session". Missing sessions, closed sessions and
// wrong PINs are all answered 401 so a guesser cannot probe which
// session IDs exist.
func SessionPIN(sessions *repository.SessionRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, err := strconv.ParseUint(c.Param("id"), 10, 64)
			if err != nil {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
			}
			pin := c.Request().Header.Get("X-Session-PIN")
			if pin == "" {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing session pin"})
			}
			s, err := sessions.GetByID(c.Request().Context(), id)
			if err != nil || s.Status != model.SessionOpen || !utils.PINsMatch(s.PIN, pin) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid session pin"})
			}
			c.Set("session", s)
			return next(c)
		}
	}
}
