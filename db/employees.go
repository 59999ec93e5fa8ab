// ABOUTME: Employee repository
// ABOUTME: CRUD and listing for the employee table
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/johanaerens/assetmanagement/models"
)

type employeeRow struct {
	id             sql.NullInt64
	firstName      sql.NullString
	lastName       sql.NullString
	email          sql.NullString
	employeeNumber sql.NullString
	phoneNumber    sql.NullString
	hireDate       sql.NullString
	language       sql.NullString
}

func employeeColumns(alias string) string {
	return fmt.Sprintf("%[1]s.id, %[1]s.first_name, %[1]s.last_name, %[1]s.email, "+
		"%[1]s.employee_number, %[1]s.phone_number, %[1]s.hire_date, %[1]s.language", alias)
}

func (r *employeeRow) dest() []any {
	return []any{&r.id, &r.firstName, &r.lastName, &r.email,
		&r.employeeNumber, &r.phoneNumber, &r.hireDate, &r.language}
}

// employee converts the row, returning nil when a LEFT JOIN matched nothing.
func (r *employeeRow) employee() (*models.Employee, error) {
	if !r.id.Valid {
		return nil, nil
	}
	hireDate, err := parseTime(r.hireDate)
	if err != nil {
		return nil, err
	}
	e := &models.Employee{
		ID:             nullInt(r.id),
		FirstName:      nullString(r.firstName),
		LastName:       nullString(r.lastName),
		Email:          nullString(r.email),
		EmployeeNumber: nullString(r.employeeNumber),
		PhoneNumber:    nullString(r.phoneNumber),
		HireDate:       hireDate,
	}
	if r.language.Valid {
		e.Language = models.Ptr(models.Language(r.language.String))
	}
	return e, nil
}

// EmployeeRepository provides CRUD operations for employees.
type EmployeeRepository struct {
	db *sql.DB
}

func NewEmployeeRepository(db *sql.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) List(ctx context.Context, opts ListOptions) ([]models.Employee, error) {
	order, err := orderBy(models.EmployeeDescriptor, "e", opts.Sort)
	if err != nil {
		return nil, err
	}

	query := "SELECT " + employeeColumns("e") + " FROM employee e"
	if opts.Filter == FilterAssetHistoryIsNull {
		query += " WHERE NOT EXISTS (SELECT 1 FROM asset_history h WHERE h.employee_id = e.id)"
	}
	query += order

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := []models.Employee{}
	for rows.Next() {
		var row employeeRow
		if err := rows.Scan(row.dest()...); err != nil {
			return nil, err
		}
		e, err := row.employee()
		if err != nil {
			return nil, err
		}
		employees = append(employees, *e)
	}
	return employees, rows.Err()
}

func (r *EmployeeRepository) Get(ctx context.Context, id int64) (*models.Employee, error) {
	query := "SELECT " + employeeColumns("e") + " FROM employee e WHERE e.id = ?"

	var row employeeRow
	err := r.db.QueryRowContext(ctx, query, id).Scan(row.dest()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.employee()
}

// Create inserts e and sets its id.
func (r *EmployeeRepository) Create(ctx context.Context, e *models.Employee) error {
	query := `
		INSERT INTO employee (first_name, last_name, email, employee_number, phone_number, hire_date, language)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	res, err := r.db.ExecContext(ctx, query,
		e.FirstName,
		e.LastName,
		e.Email,
		e.EmployeeNumber,
		e.PhoneNumber,
		formatTime(e.HireDate),
		enumText(e.Language),
	)
	if err != nil {
		return mapWriteError(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = &id
	return nil
}

// Update replaces every column of the row identified by e.ID.
func (r *EmployeeRepository) Update(ctx context.Context, e *models.Employee) error {
	if e.ID == nil {
		return ErrNotFound
	}

	query := `
		UPDATE employee
		SET first_name = ?, last_name = ?, email = ?, employee_number = ?, phone_number = ?, hire_date = ?, language = ?
		WHERE id = ?
	`

	res, err := r.db.ExecContext(ctx, query,
		e.FirstName,
		e.LastName,
		e.Email,
		e.EmployeeNumber,
		e.PhoneNumber,
		formatTime(e.HireDate),
		enumText(e.Language),
		*e.ID,
	)
	if err != nil {
		return mapWriteError(err)
	}
	return checkAffected(res)
}

func (r *EmployeeRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM employee WHERE id = ?", id)
	return err
}

func (r *EmployeeRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM employee WHERE id = ?", id).Scan(&n)
	return n > 0, err
}
