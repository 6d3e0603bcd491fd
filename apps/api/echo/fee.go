package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kicentre/madrasa/core"
	"github.com/kicentre/madrasa/core/fee"
	"github.com/kicentre/madrasa/core/user"
)

type feeApi struct {
	svc     *fee.Service
	userSvc *user.Service
}

func registerFeeAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *fee.Service, userSvc *user.Service) {
	api := feeApi{svc: svc, userSvc: userSvc}

	fg := g.Group("/fees", jwt, staffMiddleware())
	fg.GET("/structures", api.listStructures)
	fg.POST("/structures", api.createStructure, adminMiddleware())
	fg.GET("/collections", api.listCollections)
	fg.POST("/collections", api.collect)
	fg.GET("/collections/:id", api.retrieveCollection)
	fg.POST("/collections/:id/approve", api.approveCollection, adminMiddleware())
	fg.POST("/collections/:id/cancel", api.cancelCollection, adminMiddleware())
	fg.GET("/balance/:studentID", api.studentBalance)
}

func (api *feeApi) listStructures(ctx echo.Context) error {
	structures, err := api.svc.Structures(ctx.QueryParam("academic_year"), ctx.QueryParam("class"))
	if err != nil {
		return errors.Wrap(err, "listing fee structures")
	}
	if structures == nil {
		structures = []fee.Structure{}
	}
	return ctx.JSON(http.StatusOK, structures)
}

func (api *feeApi) createStructure(ctx echo.Context) error {
	var data fee.NewStructure
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStructure")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	s, err := api.svc.CreateStructure(data)
	if err != nil {
		return errors.Wrap(err, "creating fee structure")
	}
	return ctx.JSON(http.StatusCreated, s)
}

func (api *feeApi) listCollections(ctx echo.Context) error {
	filter := new(fee.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, core.NewListResult([]fee.Collection{}, 0))
	}

	collections, count, err := api.svc.Filter(*filter)
	if err != nil {
		return errors.Wrap(err, "filtering fee collections")
	}
	if collections == nil {
		collections = []fee.Collection{}
	}
	return ctx.JSON(http.StatusOK, core.NewListResult(collections, count))
}

func (api *feeApi) collect(ctx echo.Context) error {
	var data fee.NewCollection
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCollection")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	collector, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	c, err := api.svc.Collect(data, collector)
	if err != nil {
		return errors.Wrap(err, "collecting fee")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *feeApi) retrieveCollection(ctx echo.Context) error {
	c, err := api.svc.GetCollection(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == fee.ErrCollectionNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting fee collection")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *feeApi) approveCollection(ctx echo.Context) error {
	return api.reviewCollection(ctx, true)
}

func (api *feeApi) cancelCollection(ctx echo.Context) error {
	return api.reviewCollection(ctx, false)
}

func (api *feeApi) reviewCollection(ctx echo.Context, approve bool) error {
	approver, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	var c fee.Collection
	if approve {
		c, err = api.svc.Approve(ctx.Param("id"), approver)
	} else {
		c, err = api.svc.Cancel(ctx.Param("id"), approver)
	}
	if err != nil {
		if errors.Cause(err) == fee.ErrCollectionNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "reviewing fee collection")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *feeApi) studentBalance(ctx echo.Context) error {
	yearID := ctx.QueryParam("academic_year")
	balance, err := api.svc.StudentBalance(ctx.Param("studentID"), yearID)
	if err != nil {
		return errors.Wrap(err, "computing student balance")
	}
	return ctx.JSON(http.StatusOK, balance)
}
