package contenthost_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/storage/contenthost"
)

func newClient(t *testing.T, h http.HandlerFunc) *contenthost.Client {
	t.Helper()

	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	return contenthost.New(&configs.ContentHostConfig{
		APIURL: srv.URL,
		Owner:  "acme",
		Repo:   "site",
		Token:  "test-token",
	}, contenthost.WithDoer(srv.Client()))
}

// TestCreateFileRequestShape 校验请求路径、方法、头和请求体.
func TestCreateFileRequestShape(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/repos/acme/site/contents/public/uploads/1-abc-a.png", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))

		raw, err := io.ReadAll(r.Body)
		require.NoError(t, err)

		var body map[string]string
		require.NoError(t, sonic.Unmarshal(raw, &body))
		assert.Equal(t, "Upload 1-abc-a.png", body["message"])
		assert.Equal(t, "aGVsbG8=", body["content"])
		assert.Equal(t, "gh-pages", body["branch"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"content":{"name":"1-abc-a.png","path":"public/uploads/1-abc-a.png","sha":"deadbeef"}}`))
	})

	fc, err := c.CreateFile(context.Background(), "public/uploads/1-abc-a.png", "Upload 1-abc-a.png", "aGVsbG8=", "gh-pages")
	require.NoError(t, err)
	assert.Equal(t, "deadbeef", fc.SHA)
}

// TestCreateFileStatusErrors 非 2xx 映射为 StatusError，只有 409 是冲突.
func TestCreateFileStatusErrors(t *testing.T) {
	for _, code := range []int{http.StatusConflict, http.StatusUnauthorized, http.StatusUnprocessableEntity, http.StatusBadGateway} {
		c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(code)
			_, _ = w.Write([]byte(`{"message":"nope"}`))
		})

		_, err := c.CreateFile(context.Background(), "a.png", "m", "eA==", "main")
		require.Error(t, err)

		var se *contenthost.StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, code, se.Code)
		assert.Equal(t, "nope", se.Message)
		assert.Equal(t, code == http.StatusConflict, contenthost.IsConflict(err))
	}
}

// TestCreateFileMissingContent 响应缺少 content 时返回空 SHA.
func TestCreateFileMissingContent(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{}`))
	})

	fc, err := c.CreateFile(context.Background(), "a.png", "m", "eA==", "main")
	require.NoError(t, err)
	assert.Empty(t, fc.SHA)
}

// TestCreateFileMalformedBody 2xx 但响应体为空或无法解析.
func TestCreateFileMalformedBody(t *testing.T) {
	for _, body := range []string{"not json", ""} {
		c := newClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(body))
		})

		_, err := c.CreateFile(context.Background(), "a.png", "m", "eA==", "main")
		require.ErrorIs(t, err, contenthost.ErrMalformedResponse, "body %q", body)
	}
}
