//go:build !no_sqlite

package db

import (
	"strings"

	"github.com/datalytikasales/smittan-vibrant-ventures/pkg/configs"
)

// sqliteDSN 生成 file: DSN，":memory:" 使用共享缓存的内存库.
func sqliteDSN(cfg *configs.DBConfig, pragma string) string {
	dsn := cfg.DSN

	switch {
	case dsn != "":
	case cfg.Database == ":memory:":
		dsn = "file::memory:?cache=shared"
	default:
		dsn = "file:" + strings.TrimSuffix(cfg.Database, ".db") + ".db"
	}

	if strings.Contains(dsn, pragma) {
		return dsn
	}

	if strings.Contains(dsn, "?") {
		return dsn + "&" + pragma
	}

	return dsn + "?" + pragma
}
