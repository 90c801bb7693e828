package echoapi

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/forgelabs/anvil/core"
	"github.com/forgelabs/anvil/core/problem"
)

type problemApi struct {
	svc problem.Service
}

func registerProblemAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc problem.Service) {
	api := problemApi{svc: svc}

	pg := g.Group("/problems", jwt)
	pg.GET("", api.query)
	pg.GET("/slug/:slug", api.retrieveBySlug)

	// write endpoints are admin-only
	pg.POST("", api.create, adminMiddleware())
	pg.DELETE("", api.destroyMultiple, adminMiddleware())

	dg := pg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, adminMiddleware())
	dg.POST("/publish", api.publish, adminMiddleware())
	dg.POST("/archive", api.archive, adminMiddleware())
	dg.DELETE("", api.destroy, adminMiddleware())
}

func (api *problemApi) create(ctx echo.Context) error {
	var data problem.NewProblem
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewProblem")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	prob, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating problem")
	}
	return ctx.JSON(http.StatusCreated, prob)
}

func (api *problemApi) query(ctx echo.Context) error {
	filter := new(problem.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []problem.Problem{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	var problems []problem.Problem
	var err error
	if filter.IsEmpty() {
		problems, err = api.svc.QueryAll(ctx.Request().Context())
	} else {
		problems, err = api.svc.Filter(ctx.Request().Context(), *filter)
	}
	if err != nil {
		return errors.Wrap(err, "querying problems")
	}
	if problems == nil {
		problems = []problem.Problem{}
	}
	sortProblems(problems, ordering.Orderings)
	return ctx.JSON(http.StatusOK, problems)
}

func sortProblems(problems []problem.Problem, orderings []core.DBOrdering) {
	for _, ord := range orderings {
		switch ord.Field {
		case "title":
			sort.SliceStable(problems, func(i, j int) bool {
				if ord.Ascending {
					return problems[i].Title < problems[j].Title
				}
				return problems[j].Title < problems[i].Title
			})
		case "difficulty":
			sort.SliceStable(problems, func(i, j int) bool {
				if ord.Ascending {
					return problems[i].Difficulty < problems[j].Difficulty
				}
				return problems[j].Difficulty < problems[i].Difficulty
			})
		case "created_at":
			sort.SliceStable(problems, func(i, j int) bool {
				if ord.Ascending {
					return problems[i].CreatedAt.Before(problems[j].CreatedAt)
				}
				return problems[j].CreatedAt.Before(problems[i].CreatedAt)
			})
		}
	}
}

func (api *problemApi) retrieve(ctx echo.Context) error {
	prob, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == problem.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding problem by ID")
	}
	return ctx.JSON(http.StatusOK, prob)
}

func (api *problemApi) retrieveBySlug(ctx echo.Context) error {
	prob, err := api.svc.GetBySlug(ctx.Request().Context(), ctx.Param("slug"))
	if err != nil {
		if errors.Cause(err) == problem.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding problem by slug")
	}
	return ctx.JSON(http.StatusOK, prob)
}

func (api *problemApi) update(ctx echo.Context) error {
	var data problem.UpdateProblem
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProblem")
	}

	orig, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == problem.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding problem by ID")
	}
	if err := data.Validate(orig); err != nil {
		return err
	}

	prob, err := api.svc.Update(ctx.Request().Context(), orig.ID, data)
	if err != nil {
		if errors.Cause(err) == problem.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "updating problem")
	}
	return ctx.JSON(http.StatusOK, prob)
}

func (api *problemApi) publish(ctx echo.Context) error {
	prob, err := api.svc.Publish(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == problem.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "publishing problem")
	}
	return ctx.JSON(http.StatusOK, prob)
}

func (api *problemApi) archive(ctx echo.Context) error {
	prob, err := api.svc.Archive(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == problem.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "archiving problem")
	}
	return ctx.JSON(http.StatusOK, prob)
}

func (api *problemApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == problem.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting problem")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *problemApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting problems")
	}
	return ctx.NoContent(http.StatusNoContent)
}
