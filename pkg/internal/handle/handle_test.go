package handle

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/admin"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/authn"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/model"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/repository"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/service"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/types"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/upload"
)

// TestStatusOf 错误到状态码的映射.
func TestStatusOf(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{admin.ErrUnauthenticated, http.StatusUnauthorized},
		{fmt.Errorf("%w: %w", admin.ErrUnauthenticated, errors.New("expired")), http.StatusUnauthorized},
		{authn.ErrInvalidCredentials, http.StatusUnauthorized},
		{admin.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("upload %q: %w", "a.png", admin.ErrForbidden), http.StatusForbidden},
		{fmt.Errorf("%w: %w", admin.ErrProfileLookup, repository.ErrNotFound), http.StatusBadGateway},
		{fmt.Errorf("login: %w", fmt.Errorf("%w: %w", admin.ErrProfileLookup, service.ErrNotFound)), http.StatusBadGateway},
		{fmt.Errorf("%w: %w", authn.ErrProvider, repository.ErrNotFound), http.StatusBadGateway},
		{upload.ErrStorageWrite, http.StatusBadGateway},
		{upload.ErrUploadTransport, http.StatusBadGateway},
		{fmt.Errorf("failed to upload image 2 of 3: %w", upload.ErrUploadConflict), http.StatusBadGateway},
		{upload.ErrIntegrity, http.StatusBadGateway},
		{upload.ErrURLResolution, http.StatusBadGateway},
		{upload.ErrEmptyFile, http.StatusBadRequest},
		{service.ErrValidation, http.StatusBadRequest},
		{service.ErrNotFound, http.StatusNotFound},
		{service.ErrJobClosed, http.StatusConflict},
		{errFileTooLarge, http.StatusRequestEntityTooLarge},
		{errServicesMissing, http.StatusServiceUnavailable},
		{authn.ErrNotConfigured, http.StatusServiceUnavailable},
		{fmt.Errorf("%w: %w", authn.ErrRateLimited, authn.ErrProvider), http.StatusTooManyRequests},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, statusOf(tc.err), tc.err.Error())
	}
}

// recordingUploader 记录上传请求.
type recordingUploader struct {
	reqs []upload.Request
}

func (u *recordingUploader) Backend() upload.Backend { return upload.BackendObjectStore }

func (u *recordingUploader) Upload(_ context.Context, p admin.Principal, req upload.Request) (upload.Descriptor, error) {
	if !p.IsAdmin {
		return upload.Descriptor{}, admin.ErrForbidden
	}

	u.reqs = append(u.reqs, req)

	return upload.Descriptor{Backend: upload.BackendObjectStore, Path: "x/" + req.FileName, PublicURL: "https://cdn/x/" + req.FileName}, nil
}

type memGallery struct {
	projects []model.ProjectGallery
}

func (m *memGallery) CreateProject(_ context.Context, p *model.ProjectGallery, images []model.GalleryImage) error {
	p.ID = "p1"
	p.Images = images
	m.projects = append(m.projects, *p)

	return nil
}

func (m *memGallery) List(context.Context) ([]model.ProjectGallery, error) { return m.projects, nil }

func (m *memGallery) Get(_ context.Context, id string) (*model.ProjectGallery, error) {
	for i := range m.projects {
		if m.projects[i].ID == id {
			return &m.projects[i], nil
		}
	}

	return nil, repository.ErrNotFound
}

func (m *memGallery) Delete(context.Context, string) error { return nil }

// newTestEngine 构造带服务的引擎，asAdmin 为 true 时模拟已通过管理员校验.
func newTestEngine(svc *service.Services, asAdmin bool) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		ctx := service.WithServices(c.Request.Context(), svc)
		if asAdmin {
			ctx = admin.WithPrincipal(ctx, admin.Principal{UserID: "u-admin", IsAdmin: true})
		}

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	r.GET("/gallery", ListProjects)
	r.GET("/gallery/:id", GetProject)
	r.POST("/admin/gallery", CreateProject)
	r.POST("/admin/uploads", AdminUpload)
	r.POST("/auth/password-reset", RequestPasswordReset)

	return r
}

func multipartBody(t *testing.T, fields map[string][]string, files map[string][]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	for k, vs := range fields {
		for _, v := range vs {
			require.NoError(t, w.WriteField(k, v))
		}
	}

	for field, names := range files {
		for _, name := range names {
			fw, err := w.CreateFormFile(field, name)
			require.NoError(t, err)
			_, err = fw.Write([]byte("content of " + name))
			require.NoError(t, err)
		}
	}

	require.NoError(t, w.Close())

	return body, w.FormDataContentType()
}

func TestCreateProject(t *testing.T) {
	store := &memGallery{}
	up := &recordingUploader{}
	svc := &service.Services{Gallery: service.NewGalleryService(store, up, nil, 0)}

	body, ct := multipartBody(t,
		map[string][]string{"title": {"Harbour"}, "date": {"2025-03-01"}, "captions": {"first", "second"}},
		map[string][]string{"images": {"a.png", "b.png"}},
	)

	req := httptest.NewRequest(http.MethodPost, "/admin/gallery", body)
	req.Header.Set("Content-Type", ct)

	w := httptest.NewRecorder()
	newTestEngine(svc, true).ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var got model.ProjectGallery
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Harbour", got.Title)
	require.Len(t, got.Images, 2)
	assert.Equal(t, "first", got.Images[0].Caption)
	assert.Equal(t, "https://cdn/x/b.png", got.Images[1].ImageURL)
	require.NotNil(t, got.Date)
	assert.Equal(t, 2025, got.Date.Year())
	assert.Len(t, up.reqs, 2)

	// 列表可见
	w = httptest.NewRecorder()
	newTestEngine(svc, false).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/gallery", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var list types.ProjectListResponse
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Total)
}

func TestCreateProject_Rejections(t *testing.T) {
	store := &memGallery{}
	svc := &service.Services{Gallery: service.NewGalleryService(store, &recordingUploader{}, nil, 0)}

	t.Run("no images", func(t *testing.T) {
		body, ct := multipartBody(t, map[string][]string{"title": {"x"}}, nil)
		req := httptest.NewRequest(http.MethodPost, "/admin/gallery", body)
		req.Header.Set("Content-Type", ct)

		w := httptest.NewRecorder()
		newTestEngine(svc, true).ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("bad date", func(t *testing.T) {
		body, ct := multipartBody(t, map[string][]string{"title": {"x"}, "date": {"01/02/2025"}},
			map[string][]string{"images": {"a.png"}})
		req := httptest.NewRequest(http.MethodPost, "/admin/gallery", body)
		req.Header.Set("Content-Type", ct)

		w := httptest.NewRecorder()
		newTestEngine(svc, true).ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not admin", func(t *testing.T) {
		body, ct := multipartBody(t, map[string][]string{"title": {"x"}}, map[string][]string{"images": {"a.png"}})
		req := httptest.NewRequest(http.MethodPost, "/admin/gallery", body)
		req.Header.Set("Content-Type", ct)

		w := httptest.NewRecorder()
		newTestEngine(svc, false).ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	assert.Empty(t, store.projects)
}

func TestAdminUpload(t *testing.T) {
	up := &recordingUploader{}
	svc := &service.Services{Uploader: up}

	body, ct := multipartBody(t, nil, map[string][]string{"file": {"deck.pdf"}})
	req := httptest.NewRequest(http.MethodPost, "/admin/uploads", body)
	req.Header.Set("Content-Type", ct)

	w := httptest.NewRecorder()
	newTestEngine(svc, true).ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var d upload.Descriptor
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &d))
	assert.Equal(t, "https://cdn/x/deck.pdf", d.PublicURL)
	require.Len(t, up.reqs, 1)
	assert.Equal(t, []byte("content of deck.pdf"), up.reqs[0].Data)
}

func TestGetProject_NotFound(t *testing.T) {
	svc := &service.Services{Gallery: service.NewGalleryService(&memGallery{}, &recordingUploader{}, nil, 0)}

	w := httptest.NewRecorder()
	newTestEngine(svc, false).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/gallery/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServicesMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/gallery", ListProjects)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/gallery", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

// resetIdentity 只实现重置密码所需的认证操作.
type resetIdentity struct {
	emails []string
	err    error
}

func (r *resetIdentity) Session(context.Context) (*authn.Session, error) { return nil, nil }
func (r *resetIdentity) SignOut(context.Context) error                   { return nil }

func (r *resetIdentity) SignIn(context.Context, string, string) (*authn.Session, error) {
	return nil, authn.ErrInvalidCredentials
}

func (r *resetIdentity) SignUp(context.Context, string, string, map[string]any) (string, error) {
	return "", authn.ErrNotConfigured
}

func (r *resetIdentity) Recover(_ context.Context, email string) error {
	r.emails = append(r.emails, email)
	return r.err
}

type noProfiles struct{}

func (noProfiles) IsAdmin(context.Context, string) (bool, error) { return false, nil }
func (noProfiles) Upsert(context.Context, string, bool) error    { return nil }

// TestRequestPasswordReset 受理返回 202，认证服务限流时返回 429.
func TestRequestPasswordReset(t *testing.T) {
	ident := &resetIdentity{}
	svc := &service.Services{Account: service.NewAccountService(ident, noProfiles{}, admin.NewGate(ident, noProfiles{}))}
	r := newTestEngine(svc, false)

	send := func(body string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/password-reset", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		return w.Code
	}

	assert.Equal(t, http.StatusAccepted, send(`{"email":"boss@example.com"}`))
	assert.Equal(t, []string{"boss@example.com"}, ident.emails)

	assert.Equal(t, http.StatusBadRequest, send(`{"email":"nope"}`))
	assert.Len(t, ident.emails, 1)

	ident.err = fmt.Errorf("%w: %w", authn.ErrRateLimited, authn.ErrProvider)
	assert.Equal(t, http.StatusTooManyRequests, send(`{"email":"boss@example.com"}`))
}
