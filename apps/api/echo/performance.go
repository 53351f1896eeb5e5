package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edugrade/portal/core/performance"
)

type performanceApi struct {
	svc *performance.Service
}

func registerPerformanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *performance.Service) {
	api := performanceApi{svc: svc}
	g.POST("/student/performance", api.report, jwt)
}

func (api *performanceApi) report(ctx echo.Context) error {
	var q performance.Query
	if err := ctx.Bind(&q); err != nil {
		return errors.Wrap(err, "binding to performance.Query")
	}
	if err := ownRecordsOnly(ctx, q.RegNo); err != nil {
		return err
	}

	report, err := api.svc.Report(ctx.Request().Context(), q)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, report)
}
