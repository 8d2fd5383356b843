package workflow

import (
	"context"

	"github.com/mmdatafocus/opsdesk_backend/models"
	"github.com/mmdatafocus/opsdesk_backend/utils"
	"gorm.io/gorm"
)

const (
	employeesCacheKey = "directory:employees"
	customersCacheKey = "directory:customers"
)

// DirectoryLoader reads employees and customers for display names, through the redis cache.
type DirectoryLoader struct {
	db *gorm.DB
}

func NewDirectoryLoader(db *gorm.DB) *DirectoryLoader {
	return &DirectoryLoader{db: db}
}

func (l *DirectoryLoader) Load(ctx context.Context) (models.Directory, error) {
	employees, err := utils.GetOrLoadCache(employeesCacheKey, func() ([]models.Employee, error) {
		var out []models.Employee
		err := l.db.WithContext(ctx).Order("id").Find(&out).Error
		return out, err
	})
	if err != nil {
		return nil, err
	}
	customers, err := utils.GetOrLoadCache(customersCacheKey, func() ([]models.Customer, error) {
		var out []models.Customer
		err := l.db.WithContext(ctx).Order("id").Find(&out).Error
		return out, err
	})
	if err != nil {
		return nil, err
	}
	return models.NewStaticDirectory(employees, customers), nil
}

// Invalidate drops the cached lists after employees or customers change.
func (l *DirectoryLoader) Invalidate() error {
	return utils.ClearCache(employeesCacheKey, customersCacheKey)
}
