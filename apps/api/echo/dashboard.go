package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kicentre/madrasa/core/dashboard"
)

type dashboardApi struct {
	svc *dashboard.Service
}

func registerDashboardAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *dashboard.Service) {
	api := dashboardApi{svc: svc}

	g.GET("/dashboard/stats", api.stats, jwt, staffMiddleware())
}

func (api *dashboardApi) stats(ctx echo.Context) error {
	stats, err := api.svc.Stats()
	if err != nil {
		return errors.Wrap(err, "computing dashboard stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}
