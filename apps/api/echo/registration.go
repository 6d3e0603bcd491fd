package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kicentre/madrasa/core"
	"github.com/kicentre/madrasa/core/registration"
	"github.com/kicentre/madrasa/core/user"
)

type registrationApi struct {
	svc     *registration.Service
	userSvc *user.Service
}

func registerRegistrationAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *registration.Service, userSvc *user.Service) {
	api := registrationApi{svc: svc, userSvc: userSvc}

	rg := g.Group("/registrations")

	// public endpoints: applicants submit and check back on their submission.
	// Review routes carry their middleware per route; a nested middleware
	// group on the same prefix would shadow the public ones.
	rg.POST("", api.submit)
	rg.GET("/:id/status", api.status)

	rg.GET("", api.list, jwt, adminMiddleware())
	rg.GET("/:id", api.retrieve, jwt, adminMiddleware())
	rg.POST("/:id/approve", api.approve, jwt, adminMiddleware())
	rg.POST("/:id/reject", api.reject, jwt, adminMiddleware())
	rg.POST("/:id/request-info", api.requestInfo, jwt, adminMiddleware())
}

func (api *registrationApi) submit(ctx echo.Context) error {
	var data registration.NewRegistration
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRegistration")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	reg, err := api.svc.Submit(data)
	if err != nil {
		return errors.Wrap(err, "submitting registration")
	}
	return ctx.JSON(http.StatusCreated, reg)
}

// status exposes a limited view of a submission so applicants can track it
// without an account.
func (api *registrationApi) status(ctx echo.Context) error {
	reg, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == registration.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting registration")
	}
	return ctx.JSON(http.StatusOK, echo.Map{
		"id":           reg.ID,
		"status":       reg.Status,
		"submitted_at": reg.SubmittedAt,
		"reviewed_at":  reg.ReviewedAt,
	})
}

func (api *registrationApi) list(ctx echo.Context) error {
	filter := new(registration.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, core.NewListResult([]registration.Registration{}, 0))
	}

	regs, count, err := api.svc.Filter(*filter)
	if err != nil {
		return errors.Wrap(err, "filtering registrations")
	}
	if regs == nil {
		regs = []registration.Registration{}
	}
	return ctx.JSON(http.StatusOK, core.NewListResult(regs, count))
}

func (api *registrationApi) retrieve(ctx echo.Context) error {
	reg, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == registration.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting registration")
	}
	return ctx.JSON(http.StatusOK, reg)
}

func (api *registrationApi) approve(ctx echo.Context) error {
	var data registration.Approval
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Approval")
	}

	reviewer, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	st, err := api.svc.Approve(ctx.Param("id"), reviewer, data)
	if err != nil {
		if errors.Cause(err) == registration.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "approving registration")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *registrationApi) reject(ctx echo.Context) error {
	var data registration.Rejection
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Rejection")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	reviewer, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	reg, err := api.svc.Reject(ctx.Param("id"), reviewer, data)
	if err != nil {
		if errors.Cause(err) == registration.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "rejecting registration")
	}
	return ctx.JSON(http.StatusOK, reg)
}

func (api *registrationApi) requestInfo(ctx echo.Context) error {
	var data registration.InfoRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to InfoRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	reviewer, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	reg, err := api.svc.RequestInfo(ctx.Param("id"), reviewer, data)
	if err != nil {
		if errors.Cause(err) == registration.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "requesting registration info")
	}
	return ctx.JSON(http.StatusOK, reg)
}
