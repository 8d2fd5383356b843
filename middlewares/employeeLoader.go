package middlewares

import (
	"context"

	"github.com/graph-gophers/dataloader/v7"
	"github.com/mmdatafocus/opsdesk_backend/models"
	"gorm.io/gorm"
)

type employeeReader struct {
	db *gorm.DB
}

func (r *employeeReader) getEmployees(ctx context.Context, ids []string) []*dataloader.Result[*models.Employee] {
	var results []models.Employee
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&results).Error
	if err != nil {
		return handleError[*models.Employee](len(ids), err)
	}
	return generateLoaderResults(results, ids)
}

func GetEmployee(ctx context.Context, id string) (*models.Employee, error) {
	loaders := For(ctx)
	return loaders.employeeLoader.Load(ctx, id)()
}

func GetEmployees(ctx context.Context, ids []string) ([]*models.Employee, []error) {
	loaders := For(ctx)
	return loaders.employeeLoader.LoadMany(ctx, ids)()
}
