package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/forgelabs/anvil/core/curriculum"
)

type curriculumApi struct {
	svc curriculum.Service
}

func registerCurriculumAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc curriculum.Service) {
	api := curriculumApi{svc: svc}

	cg := g.Group("/curriculum", jwt)

	phg := cg.Group("/phases")
	phg.GET("", api.queryPhases)
	phg.POST("", api.createPhase, adminMiddleware())
	phg.GET("/:id", api.retrievePhase)
	phg.PUT("/:id", api.updatePhase, adminMiddleware())
	phg.DELETE("/:id", api.destroyPhase, adminMiddleware())
	phg.POST("/reorder", api.reorderPhases, adminMiddleware())
	phg.GET("/:id/weeks", api.queryWeeks)

	wg := cg.Group("/weeks")
	wg.POST("", api.createWeek, adminMiddleware())
	wg.GET("/:id", api.retrieveWeek)
	wg.PUT("/:id", api.updateWeek, adminMiddleware())
	wg.DELETE("/:id", api.destroyWeek, adminMiddleware())
	wg.POST("/reorder", api.reorderWeeks, adminMiddleware())
	wg.GET("/:id/lessons", api.queryLessons)

	lg := cg.Group("/lessons")
	lg.POST("", api.createLesson, adminMiddleware())
	lg.GET("/:id", api.retrieveLesson)
	lg.PUT("/:id", api.updateLesson, adminMiddleware())
	lg.DELETE("/:id", api.destroyLesson, adminMiddleware())
	lg.POST("/reorder", api.reorderLessons, adminMiddleware())
}

// phases

func (api *curriculumApi) createPhase(ctx echo.Context) error {
	var data curriculum.NewPhase
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPhase")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	ph, err := api.svc.CreatePhase(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating phase")
	}
	return ctx.JSON(http.StatusCreated, ph)
}

func (api *curriculumApi) queryPhases(ctx echo.Context) error {
	phases, err := api.svc.QueryAllPhases(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying phases")
	}
	if phases == nil {
		phases = []curriculum.Phase{}
	}
	return ctx.JSON(http.StatusOK, phases)
}

func (api *curriculumApi) retrievePhase(ctx echo.Context) error {
	ph, err := api.svc.GetPhaseByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == curriculum.ErrPhaseNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding phase by ID")
	}
	return ctx.JSON(http.StatusOK, ph)
}

func (api *curriculumApi) updatePhase(ctx echo.Context) error {
	var data curriculum.UpdatePhase
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdatePhase")
	}

	orig, err := api.svc.GetPhaseByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == curriculum.ErrPhaseNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding phase by ID")
	}
	if err := data.Validate(orig); err != nil {
		return err
	}

	ph, err := api.svc.UpdatePhase(ctx.Request().Context(), orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating phase")
	}
	return ctx.JSON(http.StatusOK, ph)
}

func (api *curriculumApi) reorderPhases(ctx echo.Context) error {
	var data ReorderRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReorderRequest")
	}

	if err := api.svc.ReorderPhases(ctx.Request().Context(), data.IDA, data.IDB); err != nil {
		if errors.Cause(err) == curriculum.ErrPhaseNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "reordering phases")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *curriculumApi) destroyPhase(ctx echo.Context) error {
	if err := api.svc.DeletePhase(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == curriculum.ErrPhaseNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting phase")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// weeks

func (api *curriculumApi) createWeek(ctx echo.Context) error {
	var data curriculum.NewWeek
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewWeek")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	wk, err := api.svc.CreateWeek(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == curriculum.ErrPhaseNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "creating week")
	}
	return ctx.JSON(http.StatusCreated, wk)
}

func (api *curriculumApi) queryWeeks(ctx echo.Context) error {
	weeks, err := api.svc.QueryWeeksByPhase(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying weeks")
	}
	if weeks == nil {
		weeks = []curriculum.Week{}
	}
	return ctx.JSON(http.StatusOK, weeks)
}

func (api *curriculumApi) retrieveWeek(ctx echo.Context) error {
	wk, err := api.svc.GetWeekByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == curriculum.ErrWeekNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding week by ID")
	}
	return ctx.JSON(http.StatusOK, wk)
}

func (api *curriculumApi) updateWeek(ctx echo.Context) error {
	var data curriculum.UpdateWeek
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateWeek")
	}

	orig, err := api.svc.GetWeekByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == curriculum.ErrWeekNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding week by ID")
	}
	if err := data.Validate(orig); err != nil {
		return err
	}

	wk, err := api.svc.UpdateWeek(ctx.Request().Context(), orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating week")
	}
	return ctx.JSON(http.StatusOK, wk)
}

func (api *curriculumApi) reorderWeeks(ctx echo.Context) error {
	var data ReorderRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReorderRequest")
	}

	if err := api.svc.ReorderWeeks(ctx.Request().Context(), data.IDA, data.IDB); err != nil {
		if errors.Cause(err) == curriculum.ErrWeekNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "reordering weeks")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *curriculumApi) destroyWeek(ctx echo.Context) error {
	if err := api.svc.DeleteWeek(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == curriculum.ErrWeekNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting week")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// lessons

func (api *curriculumApi) createLesson(ctx echo.Context) error {
	var data curriculum.NewLesson
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewLesson")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	ls, err := api.svc.CreateLesson(ctx.Request().Context(), data)
	if err != nil {
		if errors.Cause(err) == curriculum.ErrWeekNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "creating lesson")
	}
	return ctx.JSON(http.StatusCreated, ls)
}

func (api *curriculumApi) queryLessons(ctx echo.Context) error {
	lessons, err := api.svc.QueryLessonsByWeek(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "querying lessons")
	}
	if lessons == nil {
		lessons = []curriculum.Lesson{}
	}
	return ctx.JSON(http.StatusOK, lessons)
}

func (api *curriculumApi) retrieveLesson(ctx echo.Context) error {
	ls, err := api.svc.GetLessonByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == curriculum.ErrLessonNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding lesson by ID")
	}
	return ctx.JSON(http.StatusOK, ls)
}

func (api *curriculumApi) updateLesson(ctx echo.Context) error {
	var data curriculum.UpdateLesson
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateLesson")
	}

	orig, err := api.svc.GetLessonByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == curriculum.ErrLessonNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding lesson by ID")
	}
	if err := data.Validate(orig); err != nil {
		return err
	}

	ls, err := api.svc.UpdateLesson(ctx.Request().Context(), orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating lesson")
	}
	return ctx.JSON(http.StatusOK, ls)
}

func (api *curriculumApi) reorderLessons(ctx echo.Context) error {
	var data ReorderRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ReorderRequest")
	}

	if err := api.svc.ReorderLessons(ctx.Request().Context(), data.IDA, data.IDB); err != nil {
		if errors.Cause(err) == curriculum.ErrLessonNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "reordering lessons")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *curriculumApi) destroyLesson(ctx echo.Context) error {
	if err := api.svc.DeleteLesson(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == curriculum.ErrLessonNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting lesson")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type ReorderRequest struct {
	IDA string `json:"id_a"`
	IDB string `json:"id_b"`
}
