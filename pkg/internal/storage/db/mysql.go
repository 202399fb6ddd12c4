//go:build !no_mysql

package db

import (
	"net"
	"strconv"
	"time"

	gomysql "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
)

// mysqlDSN 由驱动的 Config 生成，密码中的特殊字符无需手工转义.
func mysqlDSN(cfg *configs.DBConfig) string {
	if cfg.DSN != "" {
		return cfg.DSN
	}

	c := gomysql.NewConfig()
	c.User = cfg.User
	c.Passwd = cfg.Password
	c.Net = "tcp"
	c.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	c.DBName = cfg.Database
	c.ParseTime = true
	c.Loc = time.UTC
	c.Params = map[string]string{"charset": "utf8mb4"}

	return c.FormatDSN()
}

// mysqlDialector 职位描述等长文本使用 text 列，其余字符串默认 varchar(255).
func mysqlDialector(cfg *configs.DBConfig) gorm.Dialector {
	return mysql.New(mysql.Config{
		DSN:                    mysqlDSN(cfg),
		DefaultStringSize:      255,
		DontSupportRenameIndex: true,
	})
}

func init() {
	RegisterDialectorFactory(configs.MySQL, mysqlDialector)
}
