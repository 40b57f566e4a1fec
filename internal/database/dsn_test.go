package database

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildPostgresDSN(t *testing.T) {
	dsn, err := buildPostgresDSN(Config{
		User:     "erp",
		Password: "secret",
		Name:     "erp_db",
		Host:     "db.internal",
		Port:     5433,
	})
	require.NoError(t, err)
	require.Equal(t, "host=db.internal port=5433 user=erp dbname=erp_db password=secret sslmode=disable", dsn)

	_, err = buildPostgresDSN(Config{Host: "db.internal"})
	require.Error(t, err)

	dsn, err = buildPostgresDSN(Config{DSN: "postgres://u:p@h/db"})
	require.NoError(t, err)
	require.Equal(t, "postgres://u:p@h/db", dsn)
}

func TestSQLiteDSN(t *testing.T) {
	require.Equal(t, "file::memory:?cache=shared&_foreign_keys=1", sqliteDSN(""))
	require.Equal(t, "file::memory:?cache=shared&_foreign_keys=1", sqliteDSN(":MEMORY:"))
	require.Equal(t,
		"file:data/erp.sqlite?_foreign_keys=1&_journal_mode=WAL&_busy_timeout=5000",
		sqliteDSN("data/erp.sqlite"))
}

func TestBuildMySQLDSN(t *testing.T) {
	dsn, err := buildMySQLDSN(Config{
		User:     "erp",
		Password: "secret",
		Name:     "erp_db",
	})
	require.NoError(t, err)
	require.Equal(t, "erp:secret@tcp(127.0.0.1:3306)/erp_db?charset=utf8mb4&loc=Local&parseTime=True", dsn)

	_, err = buildMySQLDSN(Config{User: "erp"})
	require.Error(t, err)
}
