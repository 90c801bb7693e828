package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/forgelabs/anvil/core/channel"
	"github.com/forgelabs/anvil/core/user"
)

type channelApi struct {
	svc     channel.Service
	userSvc user.Service
}

func registerChannelAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc channel.Service, userSvc user.Service) {
	api := channelApi{svc: svc, userSvc: userSvc}

	cg := g.Group("/channels", jwt)
	cg.GET("", api.query)
	cg.GET("/slug/:slug", api.retrieveBySlug)
	cg.POST("", api.create, adminMiddleware())
	cg.DELETE("", api.destroyMultiple, adminMiddleware())

	dg := cg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, adminMiddleware())
	dg.POST("/archive", api.archive, adminMiddleware())
	dg.DELETE("", api.destroy, adminMiddleware())
}

func (api *channelApi) create(ctx echo.Context) error {
	var data channel.NewChannel
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewChannel")
	}
	if err := data.Validate(api.svc); err != nil {
		return err
	}

	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	ch, err := api.svc.Create(ctx.Request().Context(), data, ctxUsr.ID)
	if err != nil {
		return errors.Wrap(err, "creating channel")
	}
	return ctx.JSON(http.StatusCreated, ch)
}

func (api *channelApi) query(ctx echo.Context) error {
	filter := new(channel.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []channel.Channel{})
	}
	filter.Clean()

	var channels []channel.Channel
	var err error
	if filter.IsEmpty() {
		channels, err = api.svc.QueryAll(ctx.Request().Context())
	} else {
		channels, err = api.svc.Filter(ctx.Request().Context(), *filter)
	}
	if err != nil {
		return errors.Wrap(err, "querying channels")
	}
	if channels == nil {
		channels = []channel.Channel{}
	}
	return ctx.JSON(http.StatusOK, channels)
}

func (api *channelApi) retrieve(ctx echo.Context) error {
	ch, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == channel.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding channel by ID")
	}
	return ctx.JSON(http.StatusOK, ch)
}

func (api *channelApi) retrieveBySlug(ctx echo.Context) error {
	ch, err := api.svc.GetBySlug(ctx.Request().Context(), ctx.Param("slug"))
	if err != nil {
		if errors.Cause(err) == channel.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding channel by slug")
	}
	return ctx.JSON(http.StatusOK, ch)
}

func (api *channelApi) update(ctx echo.Context) error {
	var data channel.UpdateChannel
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateChannel")
	}

	orig, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == channel.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding channel by ID")
	}
	if err := data.Validate(orig, api.svc); err != nil {
		return err
	}

	ch, err := api.svc.Update(ctx.Request().Context(), orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating channel")
	}
	return ctx.JSON(http.StatusOK, ch)
}

func (api *channelApi) archive(ctx echo.Context) error {
	ch, err := api.svc.Archive(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == channel.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "archiving channel")
	}
	return ctx.JSON(http.StatusOK, ch)
}

func (api *channelApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == channel.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting channel")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *channelApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting channels")
	}
	return ctx.NoContent(http.StatusNoContent)
}
