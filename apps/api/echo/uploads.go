package echoapi

import (
	"net/http"
	"path"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/forgelabs/anvil/core"
	uploadsvc "github.com/forgelabs/anvil/services/uploads"
)

// maxUploadSize caps image uploads at 5 MiB.
const maxUploadSize = 5 << 20

type uploadsApi struct {
	uploader uploadsvc.Uploader
	logger   core.Logger
}

func registerUploadsAPI(g *echo.Group, jwt echo.MiddlewareFunc, uploader uploadsvc.Uploader, logger core.Logger) {
	api := uploadsApi{uploader: uploader, logger: logger}

	ug := g.Group("/uploads", jwt, adminMiddleware())
	ug.POST("", api.upload)
	ug.DELETE("/:key", api.destroy)
}

func (api *uploadsApi) upload(ctx echo.Context) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "file", Error: "a file is required"})
	}
	if fileHeader.Size > maxUploadSize {
		return core.NewValidationError(nil, core.FieldError{Field: "file", Error: "file exceeds the 5 MiB limit"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return errors.Wrap(err, "opening uploaded file")
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	key := uuid.New().String() + path.Ext(fileHeader.Filename)

	// replaces oldKey's object when provided
	oldKey := ctx.FormValue("old_key")
	url, err := uploadsvc.ReplaceImage(ctx.Request().Context(), api.uploader, api.logger, oldKey, key, contentType, file)
	if err != nil {
		return errors.Wrap(err, "storing uploaded file")
	}

	return ctx.JSON(http.StatusCreated, UploadResponse{Key: key, URL: url})
}

func (api *uploadsApi) destroy(ctx echo.Context) error {
	if err := api.uploader.Delete(ctx.Request().Context(), ctx.Param("key")); err != nil {
		if errors.Cause(err) == uploadsvc.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting uploaded file")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type UploadResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}
