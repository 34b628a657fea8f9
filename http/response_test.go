package http

import (
	"testing"

	"github.com/emberhttp/ember/http/mime"
	"github.com/emberhttp/ember/http/status"
	"github.com/stretchr/testify/require"
)

func TestResponseConstructors(t *testing.T) {
	t.Run("HTML", func(t *testing.T) {
		r := HTML("<html>hi</html>")
		require.Equal(t, status.OK, r.Code)
		require.Equal(t, "OK", r.StatusText())
		require.Equal(t, mime.HTML, r.ContentType)
		require.Equal(t, "<html>hi</html>", r.Body.String())
	})

	t.Run("HTMLWithStatus", func(t *testing.T) {
		r := HTMLWithStatus(status.ServiceUnavailable, "Come Back Later", "busy")
		require.Equal(t, status.ServiceUnavailable, r.Code)
		require.Equal(t, "Come Back Later", r.StatusText())
		require.Equal(t, "busy", r.Body.String())
	})

	t.Run("JSON", func(t *testing.T) {
		r := JSON(map[string]int{"answer": 42})
		require.Equal(t, status.OK, r.Code)
		require.Equal(t, mime.JSON, r.ContentType)
		require.JSONEq(t, `{"answer":42}`, r.Body.String())
	})

	t.Run("Format", func(t *testing.T) {
		r := Format(status.OK, "", mime.Plain, "%d-%s", 7, "seven")
		require.Equal(t, "7-seven", r.Body.String())
	})

	t.Run("File", func(t *testing.T) {
		r := File("/tmp/some.png")
		require.Equal(t, "/tmp/some.png", r.Filename)
		require.Zero(t, r.Body.Len())
		require.Empty(t, r.ContentType)
	})

	t.Run("NotFound", func(t *testing.T) {
		r := NotFound("/missing")
		require.Equal(t, status.NotFound, r.Code)
		require.Contains(t, r.Body.String(), "'/missing'")

		r = NotFound("")
		require.Equal(t, status.NotFound, r.Code)
		require.NotContains(t, r.Body.String(), "''")
	})
}

func TestResponseHeader(t *testing.T) {
	r := HTML("x").Header("A", "1").Header("B", "2")
	require.Equal(t, []Pair{{"A", "1"}, {"B", "2"}}, r.ExtraHeaders)
}

func TestResponseWrite(t *testing.T) {
	r := New(status.OK, "", mime.Plain, 0)
	n, err := r.Write([]byte("hello "))
	require.NoError(t, err)
	require.Equal(t, 6, n)
	_, _ = r.Write([]byte("world"))
	require.Equal(t, "hello world", r.Body.String())
}
