//go:build !no_sqlite && cgo

package db

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
)

// sqliteDialector 使用 mattn/go-sqlite3，开启外键以便删除项目时级联删除图片.
func sqliteDialector(cfg *configs.DBConfig) gorm.Dialector {
	return sqlite.Open(sqliteDSN(cfg, "_foreign_keys=on"))
}

func init() {
	RegisterDialectorFactory(configs.SQLite, sqliteDialector)
}
