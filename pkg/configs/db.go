package configs

import (
	"time"

	"github.com/spf13/viper"
)

// DBType 数据库类型，接受若干别名.
type DBType string

const (
	PostgreSQL DBType = "postgresql"
	Postgres   DBType = "postgres"
	Pg         DBType = "pg"

	MySQL   DBType = "mysql"
	MariaDB DBType = "mariadb"

	SQLite DBType = "sqlite"
)

// Canonical 把别名归一为 postgresql、mysql 或 sqlite.
func (t DBType) Canonical() DBType {
	switch t {
	case PostgreSQL, Postgres, Pg:
		return PostgreSQL
	case MySQL, MariaDB:
		return MySQL
	default:
		return t
	}
}

// DBConfig 关系数据库配置. DSN 非空时直接使用，忽略 Host 等字段.
// SQLite 的 Database 为文件路径（不含 .db 后缀）或 ":memory:".
type DBConfig struct {
	Type            DBType        `mapstructure:"type"              rule:"oneof=postgresql postgres pg mysql mariadb sqlite"`
	DSN             string        `mapstructure:"dsn"`
	Host            string        `mapstructure:"host"              rule:"omitempty,hostname|ip"`
	Port            int           `mapstructure:"port"              rule:"min=0,max=65535"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"          rule:"required"`
	SSLMode         string        `mapstructure:"sslmode"           rule:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"    rule:"min=0"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"    rule:"min=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	// SlowThreshold 超过该耗时的 SQL 以 warn 级别记录.
	SlowThreshold time.Duration `mapstructure:"slow_threshold"`
}

func (c *DBConfig) setDefaults(v *viper.Viper) {
	v.SetDefault("db.type", SQLite)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.database", "smittan")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.auto_migrate", true)
	v.SetDefault("db.max_open_conns", 0)
	v.SetDefault("db.max_idle_conns", 5)
	v.SetDefault("db.conn_max_lifetime", "30m")
	v.SetDefault("db.slow_threshold", "200ms")
}
