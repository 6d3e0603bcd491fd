package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kicentre/madrasa/core/catalog"
)

type catalogApi struct {
	svc *catalog.Service
}

func registerCatalogAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *catalog.Service) {
	api := catalogApi{svc: svc}

	cg := g.Group("/catalog", jwt, staffMiddleware())
	cg.GET("/branches", api.listBranches)
	cg.POST("/branches", api.createBranch, adminMiddleware())
	cg.GET("/classes", api.listClasses)
	cg.POST("/classes", api.createClass, adminMiddleware())
	cg.GET("/divisions", api.listDivisions)
	cg.POST("/divisions", api.createDivision, adminMiddleware())
	cg.GET("/academic-years", api.listAcademicYears)
	cg.POST("/academic-years", api.createAcademicYear, adminMiddleware())
	cg.GET("/academic-years/active", api.activeAcademicYear)
}

func (api *catalogApi) listBranches(ctx echo.Context) error {
	branches, err := api.svc.Branches()
	if err != nil {
		return errors.Wrap(err, "listing branches")
	}
	if branches == nil {
		branches = []catalog.Branch{}
	}
	return ctx.JSON(http.StatusOK, branches)
}

func (api *catalogApi) createBranch(ctx echo.Context) error {
	var data catalog.NewBranch
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewBranch")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	b, err := api.svc.CreateBranch(data)
	if err != nil {
		return errors.Wrap(err, "creating branch")
	}
	return ctx.JSON(http.StatusCreated, b)
}

func (api *catalogApi) listClasses(ctx echo.Context) error {
	classes, err := api.svc.Classes()
	if err != nil {
		return errors.Wrap(err, "listing classes")
	}
	if classes == nil {
		classes = []catalog.Class{}
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *catalogApi) createClass(ctx echo.Context) error {
	var data catalog.NewClass
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewClass")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	c, err := api.svc.CreateClass(data)
	if err != nil {
		return errors.Wrap(err, "creating class")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *catalogApi) listDivisions(ctx echo.Context) error {
	divisions, err := api.svc.Divisions(ctx.QueryParam("class"), ctx.QueryParam("branch"))
	if err != nil {
		return errors.Wrap(err, "listing divisions")
	}
	if divisions == nil {
		divisions = []catalog.Division{}
	}
	return ctx.JSON(http.StatusOK, divisions)
}

func (api *catalogApi) createDivision(ctx echo.Context) error {
	var data catalog.NewDivision
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewDivision")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	d, err := api.svc.CreateDivision(data)
	if err != nil {
		return errors.Wrap(err, "creating division")
	}
	return ctx.JSON(http.StatusCreated, d)
}

func (api *catalogApi) listAcademicYears(ctx echo.Context) error {
	years, err := api.svc.AcademicYears()
	if err != nil {
		return errors.Wrap(err, "listing academic years")
	}
	if years == nil {
		years = []catalog.AcademicYear{}
	}
	return ctx.JSON(http.StatusOK, years)
}

func (api *catalogApi) createAcademicYear(ctx echo.Context) error {
	var data catalog.NewAcademicYear
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAcademicYear")
	}
	if err := data.Validate(); err != nil {
		return err
	}
	y, err := api.svc.CreateAcademicYear(data)
	if err != nil {
		return errors.Wrap(err, "creating academic year")
	}
	return ctx.JSON(http.StatusCreated, y)
}

func (api *catalogApi) activeAcademicYear(ctx echo.Context) error {
	year, err := api.svc.ActiveYear()
	if err != nil {
		if errors.Cause(err) == catalog.ErrNoActiveYear {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting active academic year")
	}
	return ctx.JSON(http.StatusOK, year)
}
