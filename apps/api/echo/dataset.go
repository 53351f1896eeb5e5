package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edugrade/portal/core/dataset"
)

type datasetApi struct {
	svc *dataset.Service
}

func registerDatasetAPI(g *echo.Group, jwt, bodyLimit echo.MiddlewareFunc, svc *dataset.Service) {
	api := datasetApi{svc: svc}

	g.POST("/upload", api.upload, bodyLimit, jwt, teacherMiddleware)

	dg := g.Group("/datasets", jwt, teacherMiddleware)
	dg.GET("", api.query)
	dg.DELETE("/:semester", api.destroySemester)
}

// Handlers

func (api *datasetApi) upload(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	data, filename, err := formFileBytes(ctx, "file")
	if err != nil {
		return err
	}

	res, err := api.svc.Upload(ctx.Request().Context(), dataset.UploadRequest{
		File:       data,
		Filename:   filename,
		Semester:   ctx.FormValue("semester"),
		UploadedBy: claims.Email,
	})
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *datasetApi) query(ctx echo.Context) error {
	var ord Ordering
	ord.Bind(ctx)

	datasets, err := api.svc.List(ctx.Request().Context(), ord.Orderings...)
	if err != nil {
		return errors.Wrap(err, "listing datasets")
	}
	if datasets == nil {
		datasets = []dataset.Dataset{}
	}
	return ctx.JSON(http.StatusOK, echo.Map{"datasets": datasets})
}

func (api *datasetApi) destroySemester(ctx echo.Context) error {
	semester, err := dataset.ParseSemester(ctx.Param("semester"))
	if err != nil {
		return err
	}
	if err = api.svc.DeleteSemester(ctx.Request().Context(), semester); err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf("Semester %d dataset deleted", semester)})
}
