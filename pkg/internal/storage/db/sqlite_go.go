//go:build !no_sqlite && !cgo

package db

import (
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
)

// sqliteDialector 纯 Go 实现，无需 CGO.
func sqliteDialector(cfg *configs.DBConfig) gorm.Dialector {
	return sqlite.Open(sqliteDSN(cfg, "_pragma=foreign_keys(1)"))
}

func init() {
	RegisterDialectorFactory(configs.SQLite, sqliteDialector)
}
