package models

type Identifier interface {
	GetId() string
}

// interface for dataloader result
type Data interface {
	Identifier
	GetDefault(string) Data
}

func (e Employee) GetId() string {
	return e.ID
}

// GetDefault stands in for an employee that no longer exists; the id doubles as the name.
func (e Employee) GetDefault(id string) Data {
	return Employee{ID: id, Name: id}
}

func (c Customer) GetId() string {
	return c.ID
}

func (c Customer) GetDefault(id string) Data {
	return Customer{ID: id, Name: id}
}
