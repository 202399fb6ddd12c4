package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/admin"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/naming"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/log"
)

var errObjectExists = errors.New("object already exists")

// Bucket 对象存储桶，*s3.Bucket 满足该接口.
type Bucket interface {
	Name() string
	Exists(ctx context.Context, key string) (bool, error)
	// Put 只在 key 不存在时写入，已存在时返回错误.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType, cacheControl string) error
}

// ObjectStore 存储桶上传器.
type ObjectStore struct {
	bucket       Bucket
	prefix       string
	cacheControl string
	baseURL      string
	policy       naming.Policy
}

// NewObjectStore 创建存储桶上传器.
func NewObjectStore(bucket Bucket, cfg configs.ObjectStoreConfig, policy naming.Policy) *ObjectStore {
	cc := cfg.CacheControl
	if cc == "" {
		cc = configs.DefaultUploadCacheControl
	}

	return &ObjectStore{
		bucket:       bucket,
		prefix:       cfg.Prefix,
		cacheControl: cc,
		baseURL:      strings.TrimRight(cfg.PublicBaseURL, "/"),
		policy:       policy,
	}
}

// Backend 实现 Uploader.
func (s *ObjectStore) Backend() Backend { return BackendObjectStore }

// Upload 写入一个新对象，目标路径已存在视为写入失败，不覆盖、不重试.
func (s *ObjectStore) Upload(ctx context.Context, p admin.Principal, req Request) (Descriptor, error) {
	if err := authorize(p, req); err != nil {
		return Descriptor{}, err
	}

	key := naming.Join(s.prefix, s.policy.Generate(req.FileName))

	// 预检查只让常见情况提前失败，Bucket.Put 本身是条件写入
	exists, err := s.bucket.Exists(ctx, key)
	if err != nil {
		return Descriptor{}, newError(BackendObjectStore, key, ErrStorageWrite, err)
	}

	if exists {
		return Descriptor{}, newError(BackendObjectStore, key, ErrStorageWrite, errObjectExists)
	}

	if err := s.bucket.Put(ctx, key, bytes.NewReader(req.Data), req.Size(), req.ContentType, s.cacheControl); err != nil {
		return Descriptor{}, newError(BackendObjectStore, key, ErrStorageWrite, err)
	}

	publicURL, err := s.PublicURL(key)
	if err != nil {
		l := log.Component("upload")
		l.Error().Err(err).Str("path", key).Msg("object stored but public url unresolved")
		return Descriptor{}, newError(BackendObjectStore, key, ErrURLResolution, err)
	}

	return Descriptor{Backend: BackendObjectStore, Path: key, PublicURL: publicURL, Attempts: 1}, nil
}

// PublicURL 返回 {public_base_url}/{bucket}/{path}.
func (s *ObjectStore) PublicURL(key string) (string, error) {
	if s.baseURL == "" {
		return "", errors.New("public base url not configured")
	}

	base, err := url.Parse(s.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse public base url: %w", err)
	}

	if base.Scheme == "" || base.Host == "" {
		return "", fmt.Errorf("public base url %q is not absolute", s.baseURL)
	}

	return base.JoinPath(append([]string{s.bucket.Name()}, strings.Split(key, "/")...)...).String(), nil
}
