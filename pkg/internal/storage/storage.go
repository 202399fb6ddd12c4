// Package storage 聚合应用使用的全部外部资源：数据库、对象存储、键值存储、消息队列与内容托管.
//
// Example:
//
// 初始化
//
//	ctx := context.Background()
//	mgr, err := storage.Init(ctx)
//	if err != nil {
//		// 处理错误
//	}
//	defer mgr.Close()
//
// 获取客户端
//
//	db := mgr.DB.DB
//	bucket := mgr.UploadBucket()
package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/model"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/storage/contenthost"
	dbc "github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/storage/db"
	kvc "github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/storage/kv"
	mqc "github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/storage/mq"
	s3c "github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/storage/s3"
	nlog "github.com/datalytikasales/smittan-vibrant-ventures/pkg/log"
)

// Manager 聚合所有存储资源，未启用的资源为 nil.
type Manager struct {
	S3          *s3c.Client
	DB          *dbc.Client
	KV          *kvc.Client
	MQ          *mqc.Client
	ContentHost *contenthost.Client

	uploadBucket string
}

var (
	mgr     *Manager
	mgrErr  error
	mgrOnce sync.Once
)

// Init 使用全局配置初始化默认存储，重复调用只返回已初始化实例.
func Init(ctx context.Context) (*Manager, error) {
	mgrOnce.Do(func() {
		mgr, mgrErr = New(ctx, configs.GetConfig())
	})

	return mgr, mgrErr
}

// New 按配置创建资源.
// 对象存储只在上传后端为 object_store 时连接，内容托管只在后端为 content_host 时创建.
func New(ctx context.Context, cfg *configs.AppConfig) (*Manager, error) {
	m := &Manager{uploadBucket: cfg.Upload.ObjectStore.Bucket}

	dbi, err := dbc.New(ctx, &cfg.DB, model.All()...)
	if err != nil {
		return nil, fmt.Errorf("init db: %w", err)
	}

	m.DB = dbi

	switch cfg.Upload.Backend {
	case configs.UploadBackendContentHost:
		m.ContentHost = contenthost.New(&cfg.Upload.ContentHost, contenthost.WithBreaker(cfg.CircuitBreaker))
	default:
		s3i, err := s3c.New(ctx, &cfg.S3)
		if err != nil {
			_ = m.Close()
			return nil, fmt.Errorf("init s3: %w", err)
		}

		m.S3 = s3i
	}

	kvi, err := kvc.NewKVClient(ctx, &cfg.KV)
	if err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("init kv: %w", err)
	}

	m.KV = kvi

	mqi, err := mqc.New(ctx, &cfg.MQ)
	if err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("init mq: %w", err)
	}

	m.MQ = mqi

	nlog.Logger().Info().
		Str("upload_backend", string(cfg.Upload.Backend)).
		Str("kv", string(m.KV.Type)).
		Str("mq", string(m.MQ.Type)).
		Msg("storage manager initialized")

	return m, nil
}

// UploadBucket 返回上传使用的存储桶，未连接对象存储时为 nil.
func (m *Manager) UploadBucket() *s3c.Bucket {
	if m.S3 == nil {
		return nil
	}

	return m.S3.Bucket(m.uploadBucket)
}

// Close 依次关闭所有资源.
func (m *Manager) Close() error {
	var errs []error

	if m.MQ != nil {
		errs = append(errs, m.MQ.Close())
	}

	if m.KV != nil {
		errs = append(errs, m.KV.Close())
	}

	if m.S3 != nil {
		errs = append(errs, m.S3.Close())
	}

	if m.DB != nil {
		errs = append(errs, m.DB.Close())
	}

	return errors.Join(errs...)
}
