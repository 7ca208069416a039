package employee

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"hrms/internal/domain/auth"
	"hrms/internal/platform/querier"
)

type Store struct {
	DB querier.TxQuerier
}

func NewStore(db querier.TxQuerier) *Store {
	return &Store{DB: db}
}

const employeeColumns = `id::text, employee_code, COALESCE(legacy_id, ''), name, email, username, phone,
    department, position, salary, joining_date, created_at, updated_at`

func scanEmployee(row pgx.Row) (Employee, error) {
	var e Employee
	err := row.Scan(&e.ID, &e.EmployeeCode, &e.LegacyID, &e.Name, &e.Email, &e.Username, &e.Phone,
		&e.Department, &e.Position, &e.Salary, &e.JoiningDate, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	return e, err
}

func mapWriteError(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrConflict
	}
	if errors.Is(err, ErrNotFound) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}

func listWhere(filter ListFilter) (string, []any) {
	var clauses []string
	var args []any
	if filter.Department != "" {
		args = append(args, filter.Department)
		clauses = append(clauses, fmt.Sprintf("department = $%d", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		n := len(args)
		clauses = append(clauses, fmt.Sprintf("(lower(name) LIKE $%d OR lower(email) LIKE $%d OR lower(employee_code) LIKE $%d)", n, n, n))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (s *Store) List(ctx context.Context, filter ListFilter) ([]Employee, error) {
	where, args := listWhere(filter)
	query := `SELECT ` + employeeColumns + ` FROM employees` + where + ` ORDER BY name, employee_code`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := listWhere(filter)
	var total int
	if err := s.DB.QueryRow(ctx, `SELECT COUNT(1) FROM employees`+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count employees: %w", err)
	}
	return total, nil
}

// Get resolves an employee by primary id, employee code or legacy id, in
// that order of precedence.
func (s *Store) Get(ctx context.Context, ref string) (Employee, error) {
	e, err := scanEmployee(s.DB.QueryRow(ctx, `
    SELECT `+employeeColumns+`
    FROM employees
    WHERE id::text = $1 OR employee_code = $1 OR legacy_id = $1
    ORDER BY (id::text = $1) DESC, (employee_code = $1) DESC
    LIMIT 1
  `, strings.TrimSpace(ref)))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Employee{}, fmt.Errorf("get employee: %w", err)
	}
	return e, err
}

// CreateWithUser inserts the employee and its login in one transaction.
func (s *Store) CreateWithUser(ctx context.Context, emp Employee, user auth.User) (Employee, error) {
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Employee{}, fmt.Errorf("begin employee create: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	created, err := scanEmployee(tx.QueryRow(ctx, `
    INSERT INTO employees (employee_code, legacy_id, name, email, username, phone, department, position, salary, joining_date)
    VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9, $10)
    RETURNING `+employeeColumns,
		emp.EmployeeCode, emp.LegacyID, emp.Name, emp.Email, emp.Username, emp.Phone,
		emp.Department, emp.Position, emp.Salary, emp.JoiningDate))
	if err != nil {
		return Employee{}, mapWriteError("insert employee", err)
	}

	user.EmployeeID = created.ID
	if _, err := auth.CreateUser(ctx, tx, user); err != nil {
		return Employee{}, mapWriteError("insert employee user", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return Employee{}, fmt.Errorf("commit employee create: %w", err)
	}
	return created, nil
}

func (s *Store) Update(ctx context.Context, id string, emp Employee) (Employee, error) {
	updated, err := scanEmployee(s.DB.QueryRow(ctx, `
    UPDATE employees
    SET name = $2, email = $3, phone = $4, department = $5, position = $6,
        salary = $7, joining_date = $8, updated_at = now()
    WHERE id::text = $1
    RETURNING `+employeeColumns,
		id, emp.Name, emp.Email, emp.Phone, emp.Department, emp.Position, emp.Salary, emp.JoiningDate))
	if err != nil {
		return Employee{}, mapWriteError("update employee", err)
	}
	return updated, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM employees WHERE id::text = $1`, id)
	if err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
