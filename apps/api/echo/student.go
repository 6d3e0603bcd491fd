package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kicentre/madrasa/core"
	"github.com/kicentre/madrasa/core/student"
)

type studentApi struct {
	svc *student.Service
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *student.Service) {
	api := studentApi{svc: svc}

	sg := g.Group("/students", jwt, staffMiddleware())
	sg.GET("", api.list)
	sg.POST("", api.create, adminMiddleware())
	sg.GET("/:id", api.retrieve)
	sg.PUT("/:id", api.update, adminMiddleware())
	sg.DELETE("/:id", api.destroy, adminMiddleware())
	sg.GET("/:id/enrollments", api.listEnrollments)
	sg.POST("/:id/enrollments", api.enroll, adminMiddleware())
}

func (api *studentApi) list(ctx echo.Context) error {
	filter := new(student.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, core.NewListResult([]student.Student{}, 0))
	}

	students, count, err := api.svc.Filter(*filter)
	if err != nil {
		return errors.Wrap(err, "filtering students")
	}
	if students == nil {
		students = []student.Student{}
	}
	return ctx.JSON(http.StatusOK, core.NewListResult(students, count))
}

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	st, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, st)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	st, err := api.svc.GetByID(ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting student")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *studentApi) update(ctx echo.Context) error {
	var data student.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	st, err := api.svc.Update(ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting student")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) listEnrollments(ctx echo.Context) error {
	enrollments, err := api.svc.Enrollments(ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "listing enrollments")
	}
	if enrollments == nil {
		enrollments = []student.Enrollment{}
	}
	return ctx.JSON(http.StatusOK, enrollments)
}

func (api *studentApi) enroll(ctx echo.Context) error {
	var data EnrollRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to EnrollRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	e, err := api.svc.Enroll(ctx.Param("id"), data.AcademicYearID, data.ClassID, data.DivisionID)
	if err != nil {
		return errors.Wrap(err, "enrolling student")
	}
	return ctx.JSON(http.StatusCreated, e)
}

type EnrollRequest struct {
	AcademicYearID string `json:"academic_year_id" validate:"required"`
	ClassID        string `json:"class_id" validate:"required"`
	DivisionID     string `json:"division_id"`
}

func (er *EnrollRequest) Validate() error {
	return core.Validate.Struct(er)
}
