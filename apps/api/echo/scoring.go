package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/forgelabs/anvil/core/scoring"
)

type scoringApi struct {
	svc scoring.Service
}

func registerScoringAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc scoring.Service) {
	api := scoringApi{svc: svc}

	sg := g.Group("/scoring", jwt)

	// solve events come from the grading pipeline, admin credentials only
	sg.POST("", api.recordSolve, adminMiddleware())

	// per-user views: owner or admin
	ug := sg.Group("/:id", selfOrAdminMiddleware())
	ug.POST("/goal", api.setGoal)
	ug.GET("/dashboard", api.dashboard)
	ug.GET("/skills", api.skillSummary)
	ug.GET("/insights", api.insights)
	ug.GET("/patterns", api.learningPatterns)
	ug.GET("/role-match", api.roleMatch)
	ug.GET("/next-up", api.nextUp)
	ug.POST("/rebuild-daily-stats", api.rebuildDailyStats)
}

func (api *scoringApi) recordSolve(ctx echo.Context) error {
	var data scoring.SolveEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SolveEvent")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	result, err := api.svc.RecordSolve(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "recording solve")
	}
	return ctx.JSON(http.StatusOK, result)
}

func (api *scoringApi) setGoal(ctx echo.Context) error {
	var data scoring.Goal
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Goal")
	}

	profile, err := api.svc.SetActiveGoal(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == scoring.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "setting active goal")
	}
	return ctx.JSON(http.StatusOK, profile)
}

func (api *scoringApi) dashboard(ctx echo.Context) error {
	view, err := api.svc.Dashboard(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == scoring.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "building scoring dashboard")
	}
	return ctx.JSON(http.StatusOK, view)
}

func (api *scoringApi) skillSummary(ctx echo.Context) error {
	view, err := api.svc.SkillSummary(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == scoring.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "summarizing skills")
	}
	return ctx.JSON(http.StatusOK, view)
}

func (api *scoringApi) insights(ctx echo.Context) error {
	view, err := api.svc.Insights(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == scoring.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "building insights")
	}
	return ctx.JSON(http.StatusOK, view)
}

func (api *scoringApi) learningPatterns(ctx echo.Context) error {
	patterns, err := api.svc.RecomputeLearningPatterns(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == scoring.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "recomputing learning patterns")
	}
	return ctx.JSON(http.StatusOK, patterns)
}

func (api *scoringApi) roleMatch(ctx echo.Context) error {
	match, err := api.svc.RecomputeRoleMatch(ctx.Request().Context(), ctx.Param("id"), ctx.QueryParam("role"))
	if err != nil {
		if errors.Cause(err) == scoring.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "recomputing role match")
	}
	return ctx.JSON(http.StatusOK, match)
}

func (api *scoringApi) nextUp(ctx echo.Context) error {
	rec, err := api.svc.NextUp(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == scoring.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "recommending next up")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *scoringApi) rebuildDailyStats(ctx echo.Context) error {
	stats, err := api.svc.RebuildDailyStats(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == scoring.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "rebuilding daily stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}
