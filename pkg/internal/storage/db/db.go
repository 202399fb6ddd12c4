// Package db 打开 gorm 连接，各驱动在独立文件中按构建标签注册.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"maps"
	"slices"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	gormPrometheus "gorm.io/plugin/prometheus"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
	nlog "github.com/datalytikasales/smittan-vibrant-ventures/pkg/log"
)

// DialectorFactory 由配置构造 gorm 方言，DSN 的拼接由各驱动负责.
type DialectorFactory func(cfg *configs.DBConfig) gorm.Dialector

var dialectors = map[configs.DBType]DialectorFactory{}

// RegisterDialectorFactory 注册驱动，dbType 使用归一后的名称.
func RegisterDialectorFactory(dbType configs.DBType, factory DialectorFactory) {
	dialectors[dbType.Canonical()] = factory
}

// GetRegisteredDBTypes 返回当前构建包含的驱动.
func GetRegisteredDBTypes() []configs.DBType {
	return slices.Sorted(maps.Keys(dialectors))
}

// metricsRefreshSeconds gorm 连接池指标的刷新间隔.
const metricsRefreshSeconds = 15

// Client 包装 gorm.DB.
type Client struct {
	*gorm.DB
}

// New 打开连接、设置连接池并 ping 一次；models 非空且开启 AutoMigrate 时迁移表结构.
func New(ctx context.Context, cfg *configs.DBConfig, models ...any) (*Client, error) {
	kind := cfg.Type.Canonical()

	factory, ok := dialectors[kind]
	if !ok {
		return nil, fmt.Errorf("unsupported database type %q (built with %v)", cfg.Type, GetRegisteredDBTypes())
	}

	client, err := Open(factory(cfg), cfg.SlowThreshold)
	if err != nil {
		return nil, err
	}

	sqlDB, err := client.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping %s: %w", kind, err)
	}

	if cfg.AutoMigrate && len(models) > 0 {
		if err := client.Migrate(ctx, models...); err != nil {
			_ = sqlDB.Close()
			return nil, err
		}
	}

	if configs.GetConfig().Metrics.Enabled {
		err := client.Use(gormPrometheus.New(gormPrometheus.Config{
			DBName:          cfg.Database,
			RefreshInterval: metricsRefreshSeconds,
		}))
		if err != nil {
			return nil, fmt.Errorf("gorm prometheus plugin: %w", err)
		}
	}

	l := nlog.Component("db")
	l.Info().
		Str("type", string(kind)).
		Str("database", cfg.Database).
		Msg("database connected")

	return client, nil
}

// Open 使用给定方言打开连接，测试中直接传入内存 SQLite.
func Open(dialector gorm.Dialector, slow time.Duration) (*Client, error) {
	if slow <= 0 {
		slow = 200 * time.Millisecond
	}

	level := logger.Warn
	if configs.GetConfig().Server.Debug {
		level = logger.Info
	}

	l := nlog.Component("gorm")

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.New(&l, logger.Config{
			SlowThreshold:             slow,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
		PrepareStmt:    true,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return &Client{DB: db}, nil
}

// Migrate 自动迁移给定模型的表结构.
func (c *Client) Migrate(ctx context.Context, models ...any) error {
	if err := c.WithContext(ctx).AutoMigrate(models...); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}

	l := nlog.Component("db")
	l.Info().Int("models", len(models)).Msg("schema migrated")

	return nil
}

// HealthCheck ping 底层连接.
func (c *Client) HealthCheck(ctx context.Context) error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.PingContext(ctx)
}

// Stats 返回连接池统计.
func (c *Client) Stats() (sql.DBStats, error) {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return sql.DBStats{}, err
	}

	return sqlDB.Stats(), nil
}

// Close 关闭连接池.
func (c *Client) Close() error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}

	return sqlDB.Close()
}
