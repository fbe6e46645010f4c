package catalogapi

import (
	"context"
	"mime/multipart"

	"github.com/labstack/echo/v4"
	"github.com/melangjewelers/catalog/internal/objstore"
	"github.com/pkg/errors"
)

// storedObject is the result of a completed upload: the row write may only
// reference images that already landed in the object store.
type storedObject struct {
	Key string
	URL string
}

// formFile returns the named multipart file, or nil when the part is absent.
// Absence is for the caller to judge.
func formFile(c echo.Context, field string) *multipart.FileHeader {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil
	}
	return fh
}

// storeUpload streams one multipart file into the object store under a fresh
// key in folder and returns the stored reference.
func storeUpload(ctx context.Context, store objstore.Store, fh *multipart.FileHeader, folder string) (*storedObject, error) {
	key, ctype, err := objstore.NewKey(folder, fh.Filename)
	if err != nil {
		return nil, err
	}
	src, err := fh.Open()
	if err != nil {
		return nil, errors.Wrap(err, "open uploaded file")
	}
	defer src.Close()

	url, err := store.Put(ctx, key, ctype, src)
	if err != nil {
		return nil, err
	}
	return &storedObject{Key: key, URL: url}, nil
}
