package s3_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/storage/s3"
)

const preconditionFailed = `<?xml version="1.0" encoding="UTF-8"?>
<Error><Code>PreconditionFailed</Code><Message>At least one of the pre-conditions you specified did not hold</Message><BucketName>gallery</BucketName><Key>a.png</Key></Error>`

// fakeStore 只实现单次 PUT，按 If-None-Match 判断对象是否已存在.
type fakeStore struct {
	mu      sync.Mutex
	objects map[string]bool
	headers []string
}

func (f *fakeStore) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_, _ = io.Copy(io.Discard, r.Body)

	if r.Method != http.MethodPut {
		w.WriteHeader(http.StatusNotImplemented)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.headers = append(f.headers, r.Header.Get("If-None-Match"))

	if f.objects[r.URL.Path] && r.Header.Get("If-None-Match") == "*" {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusPreconditionFailed)
		_, _ = w.Write([]byte(preconditionFailed))

		return
	}

	f.objects[r.URL.Path] = true

	w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
	w.WriteHeader(http.StatusOK)
}

func newBucket(t *testing.T, store *fakeStore) *s3.Bucket {
	t.Helper()

	srv := httptest.NewServer(store)
	t.Cleanup(srv.Close)

	cli, err := s3.New(context.Background(), &configs.S3Config{
		Endpoint:        srv.URL,
		AccessKeyID:     "test",
		SecretAccessKey: "test-secret",
		Region:          "us-east-1",
		PathStyle:       true,
	})
	require.NoError(t, err)

	return cli.Bucket("gallery")
}

// TestBucketPut_Conditional 写入带 If-None-Match，已存在的对象返回 ErrObjectExists.
func TestBucketPut_Conditional(t *testing.T) {
	store := &fakeStore{objects: map[string]bool{}}
	b := newBucket(t, store)
	ctx := context.Background()

	data := []byte("png-bytes")

	require.NoError(t, b.Put(ctx, "a.png", bytes.NewReader(data), int64(len(data)), "image/png", "max-age=3600"))

	err := b.Put(ctx, "a.png", bytes.NewReader(data), int64(len(data)), "image/png", "max-age=3600")
	require.ErrorIs(t, err, s3.ErrObjectExists)

	store.mu.Lock()
	defer store.mu.Unlock()

	assert.Equal(t, []string{"*", "*"}, store.headers)
}
