package handler

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bernardokeke/fleetlease/internal/model"
	"github.com/bernardokeke/fleetlease/internal/storage"
)

// ObjectUploader is the slice of the storage uploader the file handler
// needs.
type ObjectUploader interface {
	Upload(ctx context.Context, r io.Reader, originalName, contentType string, size int64) (*storage.UploadResult, error)
}

// FileHandler relays multipart uploads to object storage.
type FileHandler struct {
	Store ObjectUploader
}

func NewFileHandler(store ObjectUploader) *FileHandler {
	return &FileHandler{Store: store}
}

// Upload accepts a multipart form with a `file` field, pushes it to the
// object store and returns the public URL and generated name.
func (h *FileHandler) Upload(c echo.Context) error {
	if h.Store == nil {
		return c.JSON(http.StatusServiceUnavailable, model.Fail("File storage is not configured"))
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, model.Fail("file is required"))
	}
	src, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	defer src.Close()

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	res, err := h.Store.Upload(ctx, src, fh.Filename, fh.Header.Get("Content-Type"), fh.Size)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, model.Fail(model.MsgException))
	}
	return c.JSON(http.StatusOK, model.Success(res))
}

// UploadMany accepts a multipart form with a `files[]` field and pushes
// every file to the object store. Any single failure fails the whole
// batch; files already stored are not rolled back.
func (h *FileHandler) UploadMany(c echo.Context) error {
	if h.Store == nil {
		return c.JSON(http.StatusServiceUnavailable, model.Fail("File storage is not configured"))
	}
	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, model.Fail("files are required"))
	}
	files := form.File["files[]"]
	if len(files) == 0 {
		return c.JSON(http.StatusBadRequest, model.Fail("files are required"))
	}

	results := make([]*storage.UploadResult, 0, len(files))
	for _, fh := range files {
		res, err := h.uploadOne(c, fh)
		if err != nil {
			return c.JSON(http.StatusBadRequest, model.Fail("Unable to upload files"))
		}
		results = append(results, res)
	}
	return c.JSON(http.StatusOK, model.Success(results))
}

func (h *FileHandler) uploadOne(c echo.Context, fh *multipart.FileHeader) (*storage.UploadResult, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()
	return h.Store.Upload(ctx, src, fh.Filename, fh.Header.Get("Content-Type"), fh.Size)
}
