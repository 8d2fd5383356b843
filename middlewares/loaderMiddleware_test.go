package middlewares

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/mmdatafocus/opsdesk_backend/config"
	"github.com/mmdatafocus/opsdesk_backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestLoaders_ResolveNamesWithDefaults(t *testing.T) {
	db, err := config.ConnectSqlite(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	require.NoError(t, db.Create(&models.Employee{ID: "E1", Name: "Alice", IsActive: true}).Error)
	require.NoError(t, db.Create(&models.Customer{ID: "C1", Name: "Acme BV"}).Error)

	ctx := context.WithValue(context.Background(), loadersKey, NewLoaders(db))

	e, err := GetEmployee(ctx, "E1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", e.Name)

	missing, err := GetEmployee(ctx, "E404")
	require.NoError(t, err)
	assert.Equal(t, "E404", missing.Name)

	customers, errs := GetCustomers(ctx, []string{"C1", "C2"})
	for _, err := range errs {
		require.NoError(t, err)
	}
	require.Len(t, customers, 2)
	assert.Equal(t, "Acme BV", customers[0].Name)
	assert.Equal(t, "C2", customers[1].Name)
}

func TestGetEmployees_OneQueryPerBatch(t *testing.T) {
	db, err := config.ConnectSqlite(fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()))
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	require.NoError(t, db.Create(&[]models.Employee{
		{ID: "E1", Name: "Alice", IsActive: true},
		{ID: "E2", Name: "Bob", IsActive: true},
		{ID: "E3", Name: "Carol", IsActive: true},
	}).Error)

	var queries int32
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("test:count_employees", func(tx *gorm.DB) {
		if tx.Statement.Table == "employees" {
			atomic.AddInt32(&queries, 1)
		}
	}))

	ctx := context.WithValue(context.Background(), loadersKey, NewLoaders(db))
	employees, errs := GetEmployees(ctx, []string{"E3", "E1", "E2"})
	for _, err := range errs {
		require.NoError(t, err)
	}
	require.Len(t, employees, 3)
	assert.Equal(t, "Carol", employees[0].Name)
	assert.Equal(t, "Alice", employees[1].Name)
	assert.Equal(t, "Bob", employees[2].Name)
	assert.EqualValues(t, 1, atomic.LoadInt32(&queries))
}
