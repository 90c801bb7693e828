package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/forgelabs/anvil/core/notification"
	"github.com/forgelabs/anvil/core/user"
)

type notificationApi struct {
	svc     notification.Service
	userSvc user.Service
}

func registerNotificationAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc notification.Service, userSvc user.Service) {
	api := notificationApi{svc: svc, userSvc: userSvc}

	ng := g.Group("/notifications", jwt)
	ng.POST("/broadcast", api.broadcast, adminMiddleware())
	ng.GET("", api.list)
	ng.GET("/unread-count", api.unreadCount)
	ng.POST("/mark-read", api.markRead)
	ng.POST("/mark-all-read", api.markAllRead)
	ng.DELETE("", api.destroyMultiple)
}

func (api *notificationApi) broadcast(ctx echo.Context) error {
	var data notification.NewBroadcast
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewBroadcast")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	count, err := api.svc.Broadcast(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "broadcasting notification")
	}
	return ctx.JSON(http.StatusCreated, BroadcastResponse{Recipients: count})
}

func (api *notificationApi) list(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	notifs, err := api.svc.ListForUser(ctx.Request().Context(), ctxUsr.ID)
	if err != nil {
		return errors.Wrap(err, "listing notifications")
	}
	if notifs == nil {
		notifs = []notification.Notification{}
	}
	return ctx.JSON(http.StatusOK, notifs)
}

func (api *notificationApi) unreadCount(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	count, err := api.svc.UnreadCount(ctx.Request().Context(), ctxUsr.ID)
	if err != nil {
		return errors.Wrap(err, "counting unread notifications")
	}
	return ctx.JSON(http.StatusOK, UnreadCountResponse{Unread: count})
}

func (api *notificationApi) markRead(ctx echo.Context) error {
	var data MarkReadRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MarkReadRequest")
	}

	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	if err := api.svc.MarkRead(ctx.Request().Context(), ctxUsr.ID, data.IDs...); err != nil {
		return errors.Wrap(err, "marking notifications read")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *notificationApi) markAllRead(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	if err := api.svc.MarkAllRead(ctx.Request().Context(), ctxUsr.ID); err != nil {
		return errors.Wrap(err, "marking all notifications read")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *notificationApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	ctxUsr, err := getContextUser(ctx, api.userSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	if err := api.svc.Delete(ctx.Request().Context(), ctxUsr.ID, query.IDs...); err != nil {
		return errors.Wrap(err, "deleting notifications")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type (
	BroadcastResponse struct {
		Recipients int `json:"recipients"`
	}

	UnreadCountResponse struct {
		Unread int `json:"unread"`
	}

	MarkReadRequest struct {
		IDs []string `json:"ids"`
	}
)
