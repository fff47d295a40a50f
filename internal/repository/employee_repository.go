package repository

import (
	"context"

	"github.com/campus-kit/helpdesk-service/internal/domain"
)

// EmployeeRepository reads the externally managed staff directory.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Employee, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.Employee, error)
}

type employeeRepository struct {
	db DBTX
}

// NewEmployeeRepository builds repository.
func NewEmployeeRepository(db DBTX) EmployeeRepository {
	return &employeeRepository{db: db}
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (*domain.Employee, error) {
	const query = `
        SELECT id, full_name, role, active, created_at
        FROM employees WHERE id=$1`
	var employee domain.Employee
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&employee.ID,
		&employee.FullName,
		&employee.Role,
		&employee.Active,
		&employee.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &employee, nil
}

func (r *employeeRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Employee, error) {
	const query = `
        SELECT id, full_name, role, active, created_at
        FROM employees WHERE id = ANY($1)`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Employee
	for rows.Next() {
		var employee domain.Employee
		if err := rows.Scan(
			&employee.ID,
			&employee.FullName,
			&employee.Role,
			&employee.Active,
			&employee.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, employee)
	}
	return result, rows.Err()
}
