package http

import (
	"courier/internal/core/domain/model/kernel"
	"courier/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Identity headers set by the authenticating proxy in front of the service.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

func actorFrom(c echo.Context) (kernel.Actor, error) {
	rawID := c.Request().Header.Get(HeaderUserID)
	if rawID == "" {
		return kernel.Actor{}, errs.NewValueIsRequiredError(HeaderUserID + " header")
	}
	id, err := kernel.UUIDFromString(rawID)
	if err != nil {
		return kernel.Actor{}, errs.NewValueIsInvalidErrorWithCause(HeaderUserID+" header", err)
	}
	role, err := kernel.ParseRole(c.Request().Header.Get(HeaderUserRole))
	if err != nil {
		return kernel.Actor{}, err
	}
	return kernel.NewActor(id, role)
}

func uuidParam(c echo.Context, name string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(c.Param(name))
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return id, nil
}

func parseUUIDs(name string, raw []string) ([]kernel.UUID, error) {
	ids := make([]kernel.UUID, 0, len(raw))
	for _, r := range raw {
		id, err := kernel.UUIDFromString(r)
		if err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause(name, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
