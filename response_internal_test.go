package bdispatch

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

// codeRecorder records every status code that is written, informational ones included.
type codeRecorder struct {
	*httptest.ResponseRecorder
	codes []int
}

func (c *codeRecorder) WriteHeader(code int) {
	c.codes = append(c.codes, code)
	if code >= http.StatusOK {
		c.ResponseRecorder.WriteHeader(code)
	}
}

func TestInformationalStatusDoesNotFinalize(t *testing.T) {
	rec := &codeRecorder{ResponseRecorder: httptest.NewRecorder()}
	w := NewResponseWriter(rec)

	w.WriteHeader(http.StatusEarlyHints)
	require.False(t, w.Finalized())
	require.Equal(t, http.StatusOK, w.Status())

	w.SetStatus(http.StatusCreated)
	_, err := w.Write([]byte("body"))
	require.NoError(t, err)
	require.True(t, w.Finalized())
	require.Equal(t, []int{http.StatusEarlyHints, http.StatusCreated}, rec.codes)
	require.Equal(t, "body", rec.Body.String())
}

func TestResponseFinalization(t *testing.T) {
	t.Run("set status is deferred", func(t *testing.T) {
		rec := httptest.NewRecorder()
		w := NewResponseWriter(rec)
		w.SetStatus(http.StatusAccepted)
		require.False(t, w.Finalized())
		require.Equal(t, http.StatusAccepted, w.Status())

		_, err := w.Write([]byte("a"))
		require.NoError(t, err)
		require.True(t, w.Finalized())
		require.Equal(t, http.StatusAccepted, rec.Code)

		w.SetStatus(http.StatusTeapot)
		require.Equal(t, http.StatusAccepted, w.Status())
	})

	t.Run("write header only once", func(t *testing.T) {
		rec := httptest.NewRecorder()
		w := NewResponseWriter(rec)
		w.WriteHeader(http.StatusCreated)
		w.WriteHeader(http.StatusConflict)
		require.Equal(t, http.StatusCreated, rec.Code)
		require.Equal(t, http.StatusCreated, w.Status())
	})

	t.Run("end", func(t *testing.T) {
		rec := httptest.NewRecorder()
		w := NewResponseWriter(rec)
		w.SetStatus(http.StatusNoContent)
		require.NoError(t, w.End())
		require.NoError(t, w.End())
		require.True(t, w.Finalized())
		require.Equal(t, http.StatusNoContent, rec.Code)

		_, err := w.Write([]byte("late"))
		require.ErrorIs(t, err, ErrResponseEnded)
		require.Empty(t, rec.Body.String())
	})

	t.Run("wrap is idempotent", func(t *testing.T) {
		w := NewResponseWriter(httptest.NewRecorder())
		require.Same(t, w, NewResponseWriter(w))
	})

	t.Run("flush sends headers", func(t *testing.T) {
		rec := httptest.NewRecorder()
		w := NewResponseWriter(rec)
		w.SetStatus(http.StatusPartialContent)
		http.NewResponseController(w).Flush() //nolint:errcheck
		require.True(t, rec.Flushed)
		require.True(t, w.Finalized())
		require.Equal(t, http.StatusPartialContent, rec.Code)
	})
}

func TestFinalizeResultTypes(t *testing.T) {
	a := New(WithLogger(NewTestLogger(t)))
	f := &frame{app: a}

	t.Run("nil continues", func(t *testing.T) {
		f.w = NewResponseWriter(httptest.NewRecorder())
		require.False(t, f.finalize(nil))
		require.False(t, f.w.Finalized())
	})

	t.Run("error value", func(t *testing.T) {
		rec := httptest.NewRecorder()
		f.w = NewResponseWriter(rec)
		require.True(t, f.finalize(http.ErrNoCookie))
		require.Equal(t, http.ErrNoCookie.Error(), rec.Body.String())
	})

	t.Run("stringer", func(t *testing.T) {
		rec := httptest.NewRecorder()
		f.w = NewResponseWriter(rec)
		require.True(t, f.finalize(RoleErrorHandler))
		require.Equal(t, "error handler", rec.Body.String())
	})
}
