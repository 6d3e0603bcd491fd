package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kicentre/madrasa/core"
	"github.com/kicentre/madrasa/core/staff"
	"github.com/kicentre/madrasa/core/user"
)

type staffApi struct {
	svc     *staff.Service
	userSvc *user.Service
}

func registerStaffAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *staff.Service, userSvc *user.Service) {
	api := staffApi{svc: svc, userSvc: userSvc}

	sg := g.Group("/staff", jwt)
	sg.GET("", api.list, staffMiddleware())
	sg.POST("", api.create, adminMiddleware())
	sg.GET("/:id", api.retrieve, staffMiddleware())
	sg.PUT("/:id", api.update, adminMiddleware())
	sg.DELETE("/:id", api.destroy, adminMiddleware())

	lg := g.Group("/leave-requests", jwt, staffMiddleware())
	lg.GET("", api.listLeave)
	lg.POST("", api.requestLeave)
	lg.POST("/:id/approve", api.approveLeave, adminMiddleware())
	lg.POST("/:id/reject", api.rejectLeave, adminMiddleware())
}

func (api *staffApi) list(ctx echo.Context) error {
	filter := new(staff.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, core.NewListResult([]staff.Staff{}, 0))
	}

	members, count, err := api.svc.Filter(*filter)
	if err != nil {
		return errors.Wrap(err, "filtering staff")
	}
	if members == nil {
		members = []staff.Staff{}
	}
	return ctx.JSON(http.StatusOK, core.NewListResult(members, count))
}

func (api *staffApi) create(ctx echo.Context) error {
	var data staff.NewStaff
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStaff")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	st, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating staff member")
	}
	return ctx.JSON(http.StatusCreated, st)
}

func (api *staffApi) retrieve(ctx echo.Context) error {
	st, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == staff.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting staff member")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *staffApi) update(ctx echo.Context) error {
	var data staff.UpdateStaff
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStaff")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	st, err := api.svc.Update(ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == staff.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating staff member")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *staffApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting staff member")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *staffApi) listLeave(ctx echo.Context) error {
	filter := new(staff.LeaveQueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, core.NewListResult([]staff.LeaveRequest{}, 0))
	}

	requests, count, err := api.svc.LeaveRequests(*filter)
	if err != nil {
		return errors.Wrap(err, "filtering leave requests")
	}
	if requests == nil {
		requests = []staff.LeaveRequest{}
	}
	return ctx.JSON(http.StatusOK, core.NewListResult(requests, count))
}

func (api *staffApi) requestLeave(ctx echo.Context) error {
	var data staff.NewLeaveRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLeaveRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	lr, err := api.svc.RequestLeave(data)
	if err != nil {
		return errors.Wrap(err, "requesting leave")
	}
	return ctx.JSON(http.StatusCreated, lr)
}

func (api *staffApi) approveLeave(ctx echo.Context) error {
	return api.reviewLeave(ctx, true)
}

func (api *staffApi) rejectLeave(ctx echo.Context) error {
	return api.reviewLeave(ctx, false)
}

func (api *staffApi) reviewLeave(ctx echo.Context, approve bool) error {
	reviewer, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	lr, err := api.svc.ReviewLeave(ctx.Param("id"), reviewer, approve)
	if err != nil {
		if errors.Cause(err) == staff.ErrLeaveNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "reviewing leave request")
	}
	return ctx.JSON(http.StatusOK, lr)
}
