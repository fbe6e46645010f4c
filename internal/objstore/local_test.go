package objstore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKey(t *testing.T) {
	key, ctype, err := NewKey("products", "ring.PNG")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "products/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.Equal(t, "image/png", ctype)

	// concurrent uploads of the same filename get distinct keys
	key2, _, err := NewKey("products", "ring.PNG")
	require.NoError(t, err)
	assert.NotEqual(t, key, key2)

	_, _, err = NewKey("products", "ring.gif")
	assert.True(t, errors.Is(err, ErrUnsupportedType))
	_, _, err = NewKey("products", "noext")
	assert.True(t, errors.Is(err, ErrUnsupportedType))
}

func TestLocalStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir, "http://test.local/uploads/")
	require.NoError(t, err)
	ctx := context.Background()

	url, err := store.Put(ctx, "products/1.png", "image/png", strings.NewReader("png bytes"))
	require.NoError(t, err)
	assert.Equal(t, "http://test.local/uploads/products/1.png", url)
	assert.Equal(t, url, store.URL("products/1.png"))

	f, err := os.Open(filepath.Join(dir, "products", "1.png"))
	require.NoError(t, err)
	data, err := io.ReadAll(f)
	f.Close()
	require.NoError(t, err)
	assert.Equal(t, "png bytes", string(data))

	_, err = store.Put(ctx, "banners/2.jpg", "image/jpeg", strings.NewReader("jpg bytes"))
	require.NoError(t, err)

	keys, err := store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"products/1.png", "banners/2.jpg"}, keys)

	require.NoError(t, store.Delete(ctx, "products/1.png"))
	keys, err = store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"banners/2.jpg"}, keys)

	// deleting a missing key is not an error
	require.NoError(t, store.Delete(ctx, "products/1.png"))
}
