//go:build !no_postgres

package db

import (
	"net"
	"net/url"
	"strconv"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
)

// postgresDSN 生成 postgres:// URL.
func postgresDSN(cfg *configs.DBConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   "/" + cfg.Database,
	}

	q := url.Values{}
	if cfg.SSLMode != "" {
		q.Set("sslmode", cfg.SSLMode)
	}

	q.Set("application_name", "smittan")
	u.RawQuery = q.Encode()

	return u.String()
}

// postgresDialector 托管 Postgres 常经由 PgBouncer 事务池连接，关闭预编译语句缓存.
func postgresDialector(cfg *configs.DBConfig) gorm.Dialector {
	return postgres.New(postgres.Config{DSN: postgresDSN(cfg), PreferSimpleProtocol: true})
}

func init() {
	RegisterDialectorFactory(configs.PostgreSQL, postgresDialector)
}
