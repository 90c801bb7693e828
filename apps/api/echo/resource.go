package echoapi

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/forgelabs/anvil/core"
	"github.com/forgelabs/anvil/core/resource"
)

type resourceApi struct {
	svc resource.Service
}

func registerResourceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc resource.Service) {
	api := resourceApi{svc: svc}

	rg := g.Group("/resources", jwt)
	rg.GET("", api.query)
	rg.POST("", api.create, adminMiddleware())
	rg.DELETE("", api.destroyMultiple, adminMiddleware())

	dg := rg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, adminMiddleware())
	dg.DELETE("", api.destroy, adminMiddleware())
}

func (api *resourceApi) create(ctx echo.Context) error {
	var data resource.NewResource
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewResource")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	res, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating resource")
	}
	return ctx.JSON(http.StatusCreated, res)
}

func (api *resourceApi) query(ctx echo.Context) error {
	filter := new(resource.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []resource.Resource{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	var resources []resource.Resource
	var err error
	if filter.IsEmpty() {
		resources, err = api.svc.QueryAll(ctx.Request().Context())
	} else {
		resources, err = api.svc.Filter(ctx.Request().Context(), *filter)
	}
	if err != nil {
		return errors.Wrap(err, "querying resources")
	}
	if resources == nil {
		resources = []resource.Resource{}
	}
	sortResources(resources, ordering.Orderings)
	return ctx.JSON(http.StatusOK, resources)
}

func sortResources(resources []resource.Resource, orderings []core.DBOrdering) {
	for _, ord := range orderings {
		switch ord.Field {
		case "title":
			sort.SliceStable(resources, func(i, j int) bool {
				if ord.Ascending {
					return resources[i].Title < resources[j].Title
				}
				return resources[j].Title < resources[i].Title
			})
		case "type":
			sort.SliceStable(resources, func(i, j int) bool {
				if ord.Ascending {
					return resources[i].Type < resources[j].Type
				}
				return resources[j].Type < resources[i].Type
			})
		case "created_at":
			sort.SliceStable(resources, func(i, j int) bool {
				if ord.Ascending {
					return resources[i].CreatedAt.Before(resources[j].CreatedAt)
				}
				return resources[j].CreatedAt.Before(resources[i].CreatedAt)
			})
		}
	}
}

func (api *resourceApi) retrieve(ctx echo.Context) error {
	res, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == resource.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding resource by ID")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *resourceApi) update(ctx echo.Context) error {
	var data resource.UpdateResource
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateResource")
	}

	orig, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == resource.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding resource by ID")
	}
	if err := data.Validate(orig); err != nil {
		return err
	}

	res, err := api.svc.Update(ctx.Request().Context(), orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating resource")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *resourceApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		if errors.Cause(err) == resource.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting resource")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *resourceApi) destroyMultiple(ctx echo.Context) error {
	var query DestroyMultipleRequest
	if err := ctx.Bind(&query); err != nil {
		return errors.Wrap(err, "binding to DestroyMultipleRequest")
	}
	if query.IDs == nil {
		return ctx.NoContent(http.StatusNoContent)
	}

	if err := api.svc.Delete(ctx.Request().Context(), query.IDs...); err != nil {
		return errors.Wrap(err, "deleting resources")
	}
	return ctx.NoContent(http.StatusNoContent)
}
