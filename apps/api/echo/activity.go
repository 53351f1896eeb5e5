package echoapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edugrade/portal/core"
	"github.com/edugrade/portal/core/activity"
)

var (
	errInvalidSince = core.NewValidationError(errors.New("since must be an RFC3339 time"))
	errInvalidLimit = core.NewValidationError(errors.New("limit must be a positive number"))
)

type activityApi struct {
	svc *activity.Service
}

func registerActivityAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *activity.Service) {
	api := activityApi{svc: svc}
	g.GET("/activity", api.query, jwt)
}

// query returns the events visible to the caller, newest first.
func (api *activityApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var since time.Time
	if s := ctx.QueryParam("since"); s != "" {
		if since, err = time.Parse(time.RFC3339, s); err != nil {
			return errInvalidSince
		}
	}
	var limit int
	if l := ctx.QueryParam("limit"); l != "" {
		if limit, err = strconv.Atoi(l); err != nil || limit <= 0 {
			return errInvalidLimit
		}
	}

	var events []activity.Event
	if claims.IsStudent() {
		events, err = api.svc.ForStudent(ctx.Request().Context(), claims.RegNo, since, limit)
	} else {
		events, err = api.svc.ForTeachers(ctx.Request().Context(), since, limit)
	}
	if err != nil {
		return errors.Wrap(err, "reading activity")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"events": events})
}
