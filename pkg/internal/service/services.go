// Package service 实现业务逻辑（相册、公司介绍、招聘、线索、管理员账号），不处理 HTTP 细节.
package service

import (
	"context"
	"fmt"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/cache"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/admin"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/authn"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/repository"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/storage"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/internal/upload"
	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/queue"
)

// CacheNamespace 业务缓存键前缀.
const CacheNamespace = "smittan"

// Services 请求处理需要的全部服务.
type Services struct {
	Gate     *admin.Gate
	Uploader upload.Uploader
	Repos    *repository.Set
	Events   *queue.Events

	Gallery *GalleryService
	Company *CompanyProfileService
	Careers *CareersService
	Leads   *LeadsService
	Account *AccountService
}

// New 基于存储资源装配服务.
func New(cfg *configs.AppConfig, mgr *storage.Manager) (*Services, error) {
	if mgr == nil || mgr.DB == nil {
		return nil, fmt.Errorf("build services: database not initialized")
	}

	repos := repository.New(mgr.DB.DB)

	var events *queue.Events
	if mgr.MQ != nil {
		events = queue.NewEvents(mgr.MQ, cfg.Events)
	}

	deps := upload.Deps{Events: events}
	if b := mgr.UploadBucket(); b != nil {
		deps.Bucket = b
	}

	if mgr.ContentHost != nil {
		deps.Files = mgr.ContentHost
	}

	uploader, err := upload.New(cfg.Upload, deps)
	if err != nil {
		return nil, fmt.Errorf("build uploader: %w", err)
	}

	var c *cache.Cache
	if mgr.KV != nil {
		c = cache.NewCache(mgr.KV, cache.WithNamespace(CacheNamespace))
	}

	identity := authn.NewHosted(cfg.Auth)
	gate := admin.NewGate(identity, repos.Profiles)
	ttl := cfg.KV.CacheTTL

	return &Services{
		Gate:     gate,
		Uploader: uploader,
		Repos:    repos,
		Events:   events,
		Gallery:  NewGalleryService(repos.Gallery, uploader, c, ttl),
		Company:  NewCompanyProfileService(repos.Documents, uploader, c, ttl),
		Careers:  NewCareersService(repos.Jobs, uploader, events, cfg.Auth.ServiceUserID),
		Leads:    NewLeadsService(repos.Leads, events),
		Account:  NewAccountService(identity, repos.Profiles, gate),
	}, nil
}

type servicesKey struct{}

// WithServices 把服务放入 context.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// FromContext 从 context 中获取服务.
func FromContext(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}
