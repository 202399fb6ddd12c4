package upload_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/admin"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/naming"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/storage/contenthost"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/upload"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/queue"
)

var (
	adminPrincipal = admin.Principal{UserID: "u1", IsAdmin: true}
	fixedPolicy    = naming.Policy{Now: func() time.Time { return time.UnixMilli(1700000000000) }}
	pngRequest     = upload.Request{Data: []byte("png-bytes"), FileName: "My Photo!.png", ContentType: "image/png"}
)

// ---------------------------------------------------------------- fakes

type fakeBucket struct {
	mu       sync.Mutex
	objects  map[string][]byte
	existing map[string]bool
	putErr   error
	statErr  error
	puts     int
	lastCC   string
	lastCT   string
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{objects: map[string][]byte{}, existing: map[string]bool{}}
}

func (b *fakeBucket) Name() string { return "gallery" }

func (b *fakeBucket) Exists(_ context.Context, key string) (bool, error) {
	if b.statErr != nil {
		return false, b.statErr
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	_, ok := b.objects[key]

	return ok || b.existing[key], nil
}

func (b *fakeBucket) Put(_ context.Context, key string, r io.Reader, _ int64, contentType, cacheControl string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.puts++
	if b.putErr != nil {
		return b.putErr
	}

	// 与 s3.Bucket 一样按条件写入
	if _, ok := b.objects[key]; ok || b.existing[key] {
		return fmt.Errorf("put gallery/%s: object already exists", key)
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	b.objects[key] = raw
	b.lastCC = cacheControl
	b.lastCT = contentType

	return nil
}

type fakeFiles struct {
	mu        sync.Mutex
	responses []func(path string) (*contenthost.FileContent, error)
	paths     []string
	branches  []string
}

func (f *fakeFiles) Owner() string { return "acme" }
func (f *fakeFiles) Repo() string  { return "site" }

func (f *fakeFiles) CreateFile(ctx context.Context, path, _, _, branch string) (*contenthost.FileContent, error) {
	f.mu.Lock()
	n := len(f.paths)
	f.paths = append(f.paths, path)
	f.branches = append(f.branches, branch)
	resp := f.responses[min(n, len(f.responses)-1)]
	f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return resp(path)
}

func ok(path string) (*contenthost.FileContent, error) {
	return &contenthost.FileContent{Path: path, SHA: "abc123"}, nil
}

func conflict(string) (*contenthost.FileContent, error) {
	return nil, &contenthost.StatusError{Code: http.StatusConflict, Message: "sha mismatch"}
}

func status(code int) func(string) (*contenthost.FileContent, error) {
	return func(string) (*contenthost.FileContent, error) {
		return nil, &contenthost.StatusError{Code: code}
	}
}

func contentHostConfig() configs.ContentHostConfig {
	return configs.ContentHostConfig{
		Branch:        "gh-pages",
		Directory:     "public/lovable-uploads",
		MaxAttempts:   3,
		ConflictDelay: time.Millisecond,
	}
}

type recordingPublisher struct {
	mu     sync.Mutex
	topics []string
}

func (p *recordingPublisher) Publish(_ context.Context, topic string, _ ...*message.Message) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.topics = append(p.topics, topic)

	return nil
}

// ---------------------------------------------------------------- object store

// TestObjectStore_HappyPath 写入成功时地址等于存储桶的公开地址.
func TestObjectStore_HappyPath(t *testing.T) {
	b := newFakeBucket()
	s := upload.NewObjectStore(b, configs.ObjectStoreConfig{
		Prefix:        "projects",
		PublicBaseURL: "https://cdn.example.com/storage/v1/object/public/",
	}, fixedPolicy)

	d, err := s.Upload(context.Background(), adminPrincipal, pngRequest)
	require.NoError(t, err)

	assert.Equal(t, upload.BackendObjectStore, d.Backend)
	assert.Regexp(t, `^projects/1700000000000-[0-9a-z]{10}-MyPhoto\.png$`, d.Path)

	want, err := s.PublicURL(d.Path)
	require.NoError(t, err)
	assert.Equal(t, want, d.PublicURL)
	assert.Equal(t, "https://cdn.example.com/storage/v1/object/public/gallery/"+d.Path, d.PublicURL)

	assert.Equal(t, []byte("png-bytes"), b.objects[d.Path])
	assert.Equal(t, "3600", b.lastCC)
	assert.Equal(t, "image/png", b.lastCT)
}

// TestObjectStore_NoOverwrite 目标已存在时失败且不写入.
func TestObjectStore_NoOverwrite(t *testing.T) {
	b := newFakeBucket()
	s := upload.NewObjectStore(&existingBucket{b}, configs.ObjectStoreConfig{PublicBaseURL: "http://localhost:9000"}, fixedPolicy)

	_, err := s.Upload(context.Background(), adminPrincipal, pngRequest)
	require.ErrorIs(t, err, upload.ErrStorageWrite)
	assert.Contains(t, err.Error(), "already exists")
	assert.Equal(t, 0, b.puts)
}

type existingBucket struct{ *fakeBucket }

func (existingBucket) Exists(context.Context, string) (bool, error) { return true, nil }

// racingBucket 预检查之后另一个写入方抢先创建了同名对象.
type racingBucket struct{ *fakeBucket }

func (r racingBucket) Exists(_ context.Context, key string) (bool, error) {
	r.mu.Lock()
	r.existing[key] = true
	r.mu.Unlock()

	return false, nil
}

// TestObjectStore_LostRace 预检查通过但条件写入失败时不覆盖.
func TestObjectStore_LostRace(t *testing.T) {
	b := newFakeBucket()
	s := upload.NewObjectStore(racingBucket{b}, configs.ObjectStoreConfig{PublicBaseURL: "http://localhost:9000"}, fixedPolicy)

	_, err := s.Upload(context.Background(), adminPrincipal, pngRequest)
	require.ErrorIs(t, err, upload.ErrStorageWrite)
	assert.Contains(t, err.Error(), "already exists")
	assert.Equal(t, 1, b.puts)
	assert.Empty(t, b.objects)
}

// TestObjectStore_WriteRejected 后端拒绝写入时携带后端信息，不重试.
func TestObjectStore_WriteRejected(t *testing.T) {
	b := newFakeBucket()
	b.putErr = errors.New("quota exceeded")

	s := upload.NewObjectStore(b, configs.ObjectStoreConfig{PublicBaseURL: "http://localhost:9000"}, fixedPolicy)

	_, err := s.Upload(context.Background(), adminPrincipal, pngRequest)
	require.ErrorIs(t, err, upload.ErrStorageWrite)
	assert.Contains(t, err.Error(), "quota exceeded")
	assert.Equal(t, 1, b.puts)

	var ue *upload.Error
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, upload.BackendObjectStore, ue.Backend)
	assert.NotEmpty(t, ue.Path)
}

// TestObjectStore_URLResolution 写入后无法解析地址.
func TestObjectStore_URLResolution(t *testing.T) {
	b := newFakeBucket()
	s := upload.NewObjectStore(b, configs.ObjectStoreConfig{PublicBaseURL: "not a url"}, fixedPolicy)

	_, err := s.Upload(context.Background(), adminPrincipal, pngRequest)
	require.ErrorIs(t, err, upload.ErrURLResolution)
	assert.Equal(t, 1, b.puts)
}

// TestUpload_RequiresAdmin 非管理员不会触发任何远程调用.
func TestUpload_RequiresAdmin(t *testing.T) {
	b := newFakeBucket()
	files := &fakeFiles{responses: []func(string) (*contenthost.FileContent, error){ok}}

	uploaders := []upload.Uploader{
		upload.NewObjectStore(b, configs.ObjectStoreConfig{PublicBaseURL: "http://localhost:9000"}, fixedPolicy),
		upload.NewContentHost(files, contentHostConfig(), fixedPolicy),
	}

	for _, u := range uploaders {
		_, err := u.Upload(context.Background(), admin.Principal{UserID: "u2"}, pngRequest)
		require.ErrorIs(t, err, admin.ErrForbidden, u.Backend())
	}

	assert.Equal(t, 0, b.puts)
	assert.Empty(t, files.paths)
}

// TestUpload_EmptyFile 空文件直接拒绝.
func TestUpload_EmptyFile(t *testing.T) {
	b := newFakeBucket()
	s := upload.NewObjectStore(b, configs.ObjectStoreConfig{PublicBaseURL: "http://localhost:9000"}, fixedPolicy)

	_, err := s.Upload(context.Background(), adminPrincipal, upload.Request{FileName: "a.png"})
	require.ErrorIs(t, err, upload.ErrEmptyFile)
	assert.Equal(t, 0, b.puts)
}

// ---------------------------------------------------------------- content host

// TestContentHost_RetryThenSuccess 两次 409 后第三次成功.
func TestContentHost_RetryThenSuccess(t *testing.T) {
	files := &fakeFiles{responses: []func(string) (*contenthost.FileContent, error){conflict, conflict, ok}}
	h := upload.NewContentHost(files, contentHostConfig(), fixedPolicy)

	d, err := h.Upload(context.Background(), adminPrincipal, pngRequest)
	require.NoError(t, err)

	require.Len(t, files.paths, 3)
	assert.Equal(t, 3, d.Attempts)
	assert.Equal(t, files.paths[2], d.Path)
	assert.Equal(t, "https://acme.github.io/site/"+d.Path, d.PublicURL)
	assert.Regexp(t, `^public/lovable-uploads/1700000000000-[0-9a-z]{10}-MyPhoto\.png$`, d.Path)

	// 每次尝试都使用新名称
	assert.NotEqual(t, files.paths[0], files.paths[1])
	assert.NotEqual(t, files.paths[1], files.paths[2])
	assert.Equal(t, []string{"gh-pages", "gh-pages", "gh-pages"}, files.branches)
}

// TestContentHost_RetryExhausted 始终 409 时恰好尝试 3 次.
func TestContentHost_RetryExhausted(t *testing.T) {
	files := &fakeFiles{responses: []func(string) (*contenthost.FileContent, error){conflict}}
	h := upload.NewContentHost(files, contentHostConfig(), fixedPolicy)

	_, err := h.Upload(context.Background(), adminPrincipal, pngRequest)
	require.ErrorIs(t, err, upload.ErrUploadConflict)
	assert.True(t, contenthost.IsConflict(err))
	assert.Len(t, files.paths, 3)

	var ue *upload.Error
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, files.paths[2], ue.Path)
}

// TestContentHost_Budget 重试次数来自配置.
func TestContentHost_Budget(t *testing.T) {
	for _, attempts := range []int{1, 2, 5} {
		files := &fakeFiles{responses: []func(string) (*contenthost.FileContent, error){conflict}}
		cfg := contentHostConfig()
		cfg.MaxAttempts = attempts

		_, err := upload.NewContentHost(files, cfg, fixedPolicy).Upload(context.Background(), adminPrincipal, pngRequest)
		require.ErrorIs(t, err, upload.ErrUploadConflict)
		assert.Len(t, files.paths, attempts)
	}
}

// TestContentHost_TransportNotRetried 非冲突失败立即返回.
func TestContentHost_TransportNotRetried(t *testing.T) {
	cases := map[string]func(string) (*contenthost.FileContent, error){
		"401": status(http.StatusUnauthorized),
		"403": status(http.StatusForbidden),
		"429": status(http.StatusTooManyRequests),
		"500": status(http.StatusInternalServerError),
		"network": func(string) (*contenthost.FileContent, error) {
			return nil, fmt.Errorf("send request: %w", errors.New("connection reset"))
		},
	}

	for name, resp := range cases {
		t.Run(name, func(t *testing.T) {
			files := &fakeFiles{responses: []func(string) (*contenthost.FileContent, error){resp}}

			_, err := upload.NewContentHost(files, contentHostConfig(), fixedPolicy).
				Upload(context.Background(), adminPrincipal, pngRequest)
			require.ErrorIs(t, err, upload.ErrUploadTransport)
			assert.NotErrorIs(t, err, upload.ErrUploadConflict)
			assert.Len(t, files.paths, 1)
		})
	}
}

// TestContentHost_Integrity 缺少 sha 的成功响应.
func TestContentHost_Integrity(t *testing.T) {
	files := &fakeFiles{responses: []func(string) (*contenthost.FileContent, error){
		func(path string) (*contenthost.FileContent, error) { return &contenthost.FileContent{Path: path}, nil },
	}}

	_, err := upload.NewContentHost(files, contentHostConfig(), fixedPolicy).
		Upload(context.Background(), adminPrincipal, pngRequest)
	require.ErrorIs(t, err, upload.ErrIntegrity)
	assert.Len(t, files.paths, 1)
}

// TestContentHost_UnreadableConfirmation 2xx 但响应体为空或无法解析，按完整性错误处理且不重试.
func TestContentHost_UnreadableConfirmation(t *testing.T) {
	for name, body := range map[string]string{"empty": "", "not-json": "not json"} {
		t.Run(name, func(t *testing.T) {
			var calls atomic.Int32

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				calls.Add(1)
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(body))
			}))
			t.Cleanup(srv.Close)

			files := contenthost.New(&configs.ContentHostConfig{APIURL: srv.URL, Owner: "acme", Repo: "site"},
				contenthost.WithDoer(srv.Client()))

			_, err := upload.NewContentHost(files, contentHostConfig(), fixedPolicy).
				Upload(context.Background(), adminPrincipal, pngRequest)
			require.ErrorIs(t, err, upload.ErrIntegrity)
			require.ErrorIs(t, err, contenthost.ErrMalformedResponse)
			assert.NotErrorIs(t, err, upload.ErrUploadTransport)
			assert.Equal(t, "integrity", upload.KindOf(err))
			assert.Equal(t, int32(1), calls.Load())
		})
	}
}

// TestContentHost_AttemptTimeout 单次尝试超时按传输错误处理.
func TestContentHost_AttemptTimeout(t *testing.T) {
	files := &fakeFiles{responses: []func(string) (*contenthost.FileContent, error){ok}}
	cfg := contentHostConfig()
	cfg.AttemptTimeout = time.Nanosecond

	h := upload.NewContentHost(slowFiles{files}, cfg, fixedPolicy)

	_, err := h.Upload(context.Background(), adminPrincipal, pngRequest)
	require.ErrorIs(t, err, upload.ErrUploadTransport)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

type slowFiles struct{ *fakeFiles }

func (s slowFiles) CreateFile(ctx context.Context, path, message, content, branch string) (*contenthost.FileContent, error) {
	<-ctx.Done()
	return s.fakeFiles.CreateFile(ctx, path, message, content, branch)
}

// TestContentHost_PagesOverride 自定义发布地址.
func TestContentHost_PagesOverride(t *testing.T) {
	files := &fakeFiles{responses: []func(string) (*contenthost.FileContent, error){ok}}
	cfg := contentHostConfig()
	cfg.PagesBaseURL = "https://www.example.com/"

	d, err := upload.NewContentHost(files, cfg, fixedPolicy).Upload(context.Background(), adminPrincipal, pngRequest)
	require.NoError(t, err)
	assert.Equal(t, "https://www.example.com/"+d.Path, d.PublicURL)
}

// ---------------------------------------------------------------- factory + events

// TestNew_SelectsBackend 按配置选择后端.
func TestNew_SelectsBackend(t *testing.T) {
	deps := upload.Deps{
		Bucket: newFakeBucket(),
		Files:  &fakeFiles{responses: []func(string) (*contenthost.FileContent, error){ok}},
		Policy: fixedPolicy,
	}

	u, err := upload.New(configs.UploadConfig{Backend: configs.UploadBackendObjectStore}, deps)
	require.NoError(t, err)
	assert.Equal(t, upload.BackendObjectStore, u.Backend())

	u, err = upload.New(configs.UploadConfig{Backend: configs.UploadBackendContentHost, ContentHost: contentHostConfig()}, deps)
	require.NoError(t, err)
	assert.Equal(t, upload.BackendContentHost, u.Backend())

	_, err = upload.New(configs.UploadConfig{Backend: configs.UploadBackendContentHost}, upload.Deps{})
	require.ErrorIs(t, err, upload.ErrBackendUnavailable)

	_, err = upload.New(configs.UploadConfig{Backend: "ftp"}, deps)
	require.ErrorIs(t, err, upload.ErrBackendUnavailable)
}

// TestInstrumented_PublishesEvents 成功与失败分别发布事件.
func TestInstrumented_PublishesEvents(t *testing.T) {
	pub := &recordingPublisher{}
	events := queue.NewEvents(pub, configs.EventsConfig{
		Enabled: true,
		Upload:  configs.UploadEventsConfig{Stored: true, Failed: true},
	})

	b := newFakeBucket()
	u, err := upload.New(configs.UploadConfig{
		Backend:     configs.UploadBackendObjectStore,
		ObjectStore: configs.ObjectStoreConfig{PublicBaseURL: "http://localhost:9000"},
	}, upload.Deps{Bucket: b, Events: events, Policy: fixedPolicy})
	require.NoError(t, err)

	_, err = u.Upload(context.Background(), adminPrincipal, pngRequest)
	require.NoError(t, err)

	b.putErr = errors.New("denied")
	_, err = u.Upload(context.Background(), adminPrincipal, pngRequest)
	require.ErrorIs(t, err, upload.ErrStorageWrite)

	assert.Equal(t, []string{queue.TopicUploadStored, queue.TopicUploadFailed}, pub.topics)
}

// TestKindOf 错误类别标签.
func TestKindOf(t *testing.T) {
	assert.Equal(t, "ok", upload.KindOf(nil))
	assert.Equal(t, "forbidden", upload.KindOf(fmt.Errorf("x: %w", admin.ErrForbidden)))
	assert.Equal(t, "conflict", upload.KindOf(&upload.Error{Kind: upload.ErrUploadConflict}))
	assert.Equal(t, "integrity", upload.KindOf(&upload.Error{Kind: upload.ErrIntegrity}))
	assert.Equal(t, "error", upload.KindOf(errors.New("other")))
}
