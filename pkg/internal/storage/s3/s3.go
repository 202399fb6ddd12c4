// Package s3 封装 minio-go，为对象存储上传后端与孤儿对象审计提供按桶操作.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v5"
	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
	nlog "github.com/datalytikasales/smittan-vibrant-ventures/pkg/log"
)

// ensureAttempts 启动时确认存储桶的最大尝试次数，容器编排中 MinIO 可能晚于应用就绪.
const ensureAttempts = 5

var (
	// ErrListAborted 遍历被回调中止.
	ErrListAborted = errors.New("list aborted")
	// ErrObjectExists 条件写入时目标对象已存在.
	ErrObjectExists = errors.New("object already exists")
)

// Client 包装 minio.Client.
type Client struct {
	*minio.Client
}

// New 创建客户端并确认 EnsureBuckets 中的桶存在.
func New(ctx context.Context, cfg *configs.S3Config) (*Client, error) {
	endpoint, secure := cfg.Endpoint, cfg.UseSSL
	if u, err := url.Parse(cfg.Endpoint); err == nil && u.Host != "" {
		endpoint, secure = u.Host, u.Scheme == "https"
	}

	lookup := minio.BucketLookupAuto
	if cfg.PathStyle {
		lookup = minio.BucketLookupPath
	}

	cli, err := minio.New(endpoint, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken),
		Secure:       secure,
		Region:       cfg.Region,
		BucketLookup: lookup,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	cli.SetAppInfo("smittan", configs.AppVersion)

	c := &Client{Client: cli}
	for _, name := range cfg.EnsureBuckets {
		if name == "" {
			continue
		}

		if err := c.ensureBucket(ctx, name, cfg.Region); err != nil {
			return nil, err
		}
	}

	l := nlog.Component("s3")
	l.Info().Str("endpoint", endpoint).Bool("secure", secure).Msg("s3 connected")

	return c, nil
}

func (c *Client) ensureBucket(ctx context.Context, name, region string) error {
	l := nlog.Component("s3")

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		exists, err := c.BucketExists(ctx, name)
		if err != nil {
			return struct{}{}, err
		}

		if exists {
			return struct{}{}, nil
		}

		if err := c.MakeBucket(ctx, name, minio.MakeBucketOptions{Region: region}); err != nil {
			return struct{}{}, err
		}

		l.Info().Str("bucket", name).Msg("bucket created")

		return struct{}{}, nil
	},
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(ensureAttempts),
		backoff.WithNotify(func(err error, wait time.Duration) {
			l.Warn().Err(err).Str("bucket", name).Dur("retry_in", wait).Msg("bucket not ready")
		}),
	)
	if err != nil {
		return fmt.Errorf("ensure bucket %s: %w", name, err)
	}

	return nil
}

// HealthCheck 列出桶以确认凭据与网络可用.
func (c *Client) HealthCheck(ctx context.Context) error {
	_, err := c.ListBuckets(ctx)
	return err
}

// Close minio 客户端无需关闭.
func (c *Client) Close() error {
	return nil
}

// Bucket 返回绑定到指定存储桶的句柄.
func (c *Client) Bucket(name string) *Bucket {
	return &Bucket{cli: c.Client, name: name}
}

// Bucket 单个存储桶的对象操作.
type Bucket struct {
	cli  *minio.Client
	name string
}

// Name 返回存储桶名称.
func (b *Bucket) Name() string {
	return b.name
}

// Exists 判断对象是否已存在.
func (b *Bucket) Exists(ctx context.Context, key string) (bool, error) {
	_, err := b.cli.StatObject(ctx, b.name, key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}

	if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound {
		return false, nil
	}

	return false, fmt.Errorf("stat %s/%s: %w", b.name, key, err)
}

// Put 以 If-None-Match: * 条件写入对象，目标已存在时返回 ErrObjectExists，不覆盖.
func (b *Bucket) Put(ctx context.Context, key string, r io.Reader, size int64, contentType, cacheControl string) error {
	opts := minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: cacheControl,
	}
	opts.SetMatchETagExcept("*")

	_, err := b.cli.PutObject(ctx, b.name, key, r, size, opts)
	if err == nil {
		return nil
	}

	if resp := minio.ToErrorResponse(err); resp.Code == "PreconditionFailed" || resp.StatusCode == http.StatusPreconditionFailed {
		return fmt.Errorf("put %s/%s: %w", b.name, key, ErrObjectExists)
	}

	return fmt.Errorf("put %s/%s: %w", b.name, key, err)
}

// Walk 遍历前缀下的全部对象键，fn 返回错误时停止并返回包装了 ErrListAborted 的错误.
func (b *Bucket) Walk(ctx context.Context, prefix string, fn func(key string) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	for obj := range b.cli.ListObjects(ctx, b.name, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return fmt.Errorf("list %s/%s: %w", b.name, prefix, obj.Err)
		}

		if err := fn(obj.Key); err != nil {
			return errors.Join(ErrListAborted, err)
		}
	}

	return nil
}
