// Package objstore stores uploaded image bytes outside the database and hands
// back stable public URLs. The relational rows keep only the key and URL.
package objstore

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/pkg/errors"
)

// ErrUnsupportedType is returned for uploads that are not jpg/jpeg/png.
var ErrUnsupportedType = errors.New("unsupported image type")

// Store is the object-storage contract. Put must complete and return a
// public URL before any database row referencing the object is written.
type Store interface {
	// Put stores the object under key and returns its public URL.
	Put(ctx context.Context, key string, contentType string, r io.Reader) (string, error)
	// Delete removes the object. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// List returns all stored keys, used by the orphan sweep.
	List(ctx context.Context) ([]string, error)
	// URL returns the public URL for a key without touching the backend.
	URL(key string) string
}

var idNode *snowflake.Node

func init() {
	var err error
	idNode, err = snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
}

var allowedExts = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// NewKey builds a unique object key for an uploaded file, keyed off a
// snowflake id so concurrent uploads of the same filename never collide.
// Returns ErrUnsupportedType for extensions outside jpg/jpeg/png.
func NewKey(folder, filename string) (key string, contentType string, err error) {
	ext := strings.ToLower(path.Ext(filename))
	ctype, ok := allowedExts[ext]
	if !ok {
		return "", "", errors.Wrap(ErrUnsupportedType, filename)
	}
	return fmt.Sprintf("%s/%s%s", folder, idNode.Generate().String(), ext), ctype, nil
}
