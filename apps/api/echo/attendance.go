package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kicentre/madrasa/core"
	"github.com/kicentre/madrasa/core/attendance"
	"github.com/kicentre/madrasa/core/user"
)

type attendanceApi struct {
	svc     *attendance.Service
	userSvc *user.Service
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *attendance.Service, userSvc *user.Service) {
	api := attendanceApi{svc: svc, userSvc: userSvc}

	ag := g.Group("/attendance", jwt, staffMiddleware())
	ag.GET("", api.list)
	ag.POST("/mark", api.markBulk)
	ag.GET("/summary", api.summarizeDay)
}

func (api *attendanceApi) list(ctx echo.Context) error {
	filter := new(attendance.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, core.NewListResult([]attendance.Record{}, 0))
	}

	records, count, err := api.svc.Filter(*filter)
	if err != nil {
		return errors.Wrap(err, "filtering attendance records")
	}
	if records == nil {
		records = []attendance.Record{}
	}
	return ctx.JSON(http.StatusOK, core.NewListResult(records, count))
}

func (api *attendanceApi) markBulk(ctx echo.Context) error {
	var data attendance.BulkMark
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to BulkMark")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	marker, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	records, err := api.svc.MarkBulk(data, marker)
	if err != nil {
		return errors.Wrap(err, "marking attendance")
	}
	return ctx.JSON(http.StatusOK, records)
}

func (api *attendanceApi) summarizeDay(ctx echo.Context) error {
	date := time.Now().UTC()
	if raw := ctx.QueryParam("date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: "date", Error: "expected YYYY-MM-DD"})
		}
		date = parsed
	}

	summary, err := api.svc.SummarizeDay(date)
	if err != nil {
		return errors.Wrap(err, "summarizing attendance")
	}
	return ctx.JSON(http.StatusOK, summary)
}
