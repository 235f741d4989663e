package bdispatch_test

import (
	"testing"

	"github.com/advdv/bdispatch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReverser(t *testing.T) {
	rev := bdispatch.NewReverser()

	t.Run("should allow naming patterns", func(t *testing.T) {
		s := rev.Named("homepage", "/")
		assert.Equal(t, "/", s)

		s, err := rev.NamedPattern("blog_post", "/blog/:id")
		require.NoError(t, err)
		assert.Equal(t, "/blog/:id", s)

		rev.Named("static", "/static/*file")
	})

	t.Run("should reverse named patterns", func(t *testing.T) {
		res, err := rev.Reverse("homepage")
		require.NoError(t, err)
		assert.Equal(t, "/", res)

		res, err = rev.Reverse("blog_post", "hello-world")
		require.NoError(t, err)
		assert.Equal(t, "/blog/hello-world", res)

		res, err = rev.Reverse("static", "css/main.css")
		require.NoError(t, err)
		assert.Equal(t, "/static/css/main.css", res)
	})

	t.Run("should error if pattern already exists", func(t *testing.T) {
		_, err := rev.NamedPattern("homepage", "/")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("should panic for Named error", func(t *testing.T) {
		assert.PanicsWithValue(t, `bdispatch: failed to parse pattern: invalid pattern "": must begin with '/'`, func() {
			rev.Named("bogus", "")
		})
	})

	t.Run("should error if reversing unknown name", func(t *testing.T) {
		_, err := rev.Reverse("bogus")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no pattern named: \"bogus\"")
		assert.Contains(t, err.Error(), "[blog_post homepage static]")
	})

	t.Run("should error if url building fails", func(t *testing.T) {
		_, err := rev.Reverse("blog_post")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not enough values")
	})
}

func TestAppNamedRoutes(t *testing.T) {
	app := bdispatch.New(bdispatch.WithLogger(bdispatch.NewTestLogger(t)))
	app.Get(app.Named("get-item", "/items/:id"), bdispatch.Static("item"))

	loc, err := app.Reverse("get-item", "123")
	require.NoError(t, err)
	require.Equal(t, "/items/123", loc)
}
