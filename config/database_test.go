package config

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectDatabase_Sqlite(t *testing.T) {
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_DSN", fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))

	ConnectDatabase()
	conn := GetDB()
	require.NotNil(t, conn)
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
		SetDB(nil)
	})
	assert.Equal(t, "sqlite", conn.Dialector.Name())

	var one int
	require.NoError(t, conn.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)
}
