package models

import "time"

type Employee struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Role      string    `gorm:"size:50" json:"role"`
	Email     string    `gorm:"size:100" json:"email"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type Customer struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:100" json:"email"`
	Phone     string    `gorm:"size:20" json:"phone"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Directory resolves display names for history text and list views.
type Directory interface {
	EmployeeName(id string) (string, bool)
	CustomerName(id string) (string, bool)
}

type StaticDirectory struct {
	Employees map[string]Employee
	Customers map[string]Customer
}

func NewStaticDirectory(employees []Employee, customers []Customer) StaticDirectory {
	d := StaticDirectory{
		Employees: make(map[string]Employee, len(employees)),
		Customers: make(map[string]Customer, len(customers)),
	}
	for _, e := range employees {
		d.Employees[e.ID] = e
	}
	for _, c := range customers {
		d.Customers[c.ID] = c
	}
	return d
}

func (d StaticDirectory) EmployeeName(id string) (string, bool) {
	e, ok := d.Employees[id]
	if !ok {
		return "", false
	}
	return e.Name, true
}

func (d StaticDirectory) CustomerName(id string) (string, bool) {
	c, ok := d.Customers[id]
	if !ok {
		return "", false
	}
	return c.Name, true
}
