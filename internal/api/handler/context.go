package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/workhub/collab-api/internal/api/middleware"
	"github.com/workhub/collab-api/internal/core/domain"
)

// requireIdentity extracts the identity resolved by the Authenticate
// middleware. Routes calling this sit behind a role gate, so a missing
// identity means broken wiring rather than a missing token; it is still
// rejected with 401 instead of panicking.
func requireIdentity(c echo.Context) (domain.Identity, error) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		return domain.Identity{}, echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
	}
	return identity, nil
}
