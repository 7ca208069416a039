package leave

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"hrms/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const requestColumns = `id::text, employee_id, employee_name, leave_type, start_date, end_date, reason,
    status, is_paid, applied_date, COALESCE(decided_by::text, ''), decided_at, created_at`

func scanRequest(row pgx.Row) (Request, error) {
	var r Request
	err := row.Scan(&r.ID, &r.EmployeeID, &r.EmployeeName, &r.LeaveType, &r.StartDate, &r.EndDate, &r.Reason,
		&r.Status, &r.IsPaid, &r.AppliedDate, &r.DecidedBy, &r.DecidedAt, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Request{}, ErrNotFound
	}
	return r, err
}

func listWhere(filter ListFilter) (string, []any) {
	var clauses []string
	var args []any
	if len(filter.EmployeeIDs) > 0 {
		args = append(args, filter.EmployeeIDs)
		clauses = append(clauses, fmt.Sprintf("employee_id = ANY($%d)", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		clauses = append(clauses, fmt.Sprintf("end_date >= $%d", len(args)))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		clauses = append(clauses, fmt.Sprintf("start_date <= $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (s *Store) List(ctx context.Context, filter ListFilter) ([]Request, error) {
	where, args := listWhere(filter)
	query := `SELECT ` + requestColumns + ` FROM leave_requests` + where + ` ORDER BY applied_date DESC, created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	return s.query(ctx, "list leave requests", query, args...)
}

func (s *Store) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := listWhere(filter)
	var total int
	if err := s.DB.QueryRow(ctx, `SELECT COUNT(1) FROM leave_requests`+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count leave requests: %w", err)
	}
	return total, nil
}

func (s *Store) Get(ctx context.Context, id string) (Request, error) {
	r, err := scanRequest(s.DB.QueryRow(ctx, `SELECT `+requestColumns+` FROM leave_requests WHERE id::text = $1`, id))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Request{}, fmt.Errorf("get leave request: %w", err)
	}
	return r, err
}

func (s *Store) Create(ctx context.Context, req Request) (Request, error) {
	created, err := scanRequest(s.DB.QueryRow(ctx, `
    INSERT INTO leave_requests (employee_id, employee_name, leave_type, start_date, end_date, reason, status, is_paid, applied_date)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    RETURNING `+requestColumns,
		req.EmployeeID, req.EmployeeName, req.LeaveType, req.StartDate, req.EndDate, req.Reason,
		req.Status, req.IsPaid, req.AppliedDate))
	if err != nil {
		return Request{}, fmt.Errorf("create leave request: %w", err)
	}
	return created, nil
}

func (s *Store) UpdateDecision(ctx context.Context, id, status string, isPaid bool, decidedBy string) (Request, error) {
	updated, err := scanRequest(s.DB.QueryRow(ctx, `
    UPDATE leave_requests
    SET status = $2,
        is_paid = $3,
        decided_by = CASE WHEN $2 = 'pending' THEN NULL ELSE NULLIF($4, '')::uuid END,
        decided_at = CASE WHEN $2 = 'pending' THEN NULL ELSE now() END
    WHERE id::text = $1
    RETURNING `+requestColumns, id, status, isPaid, decidedBy))
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Request{}, fmt.Errorf("update leave decision: %w", err)
	}
	return updated, err
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM leave_requests WHERE id::text = $1`, id)
	if err != nil {
		return fmt.Errorf("delete leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListApprovedBetween returns approved requests overlapping [from, to].
func (s *Store) ListApprovedBetween(ctx context.Context, from, to time.Time) ([]Request, error) {
	return s.query(ctx, "list approved leave", `
    SELECT `+requestColumns+`
    FROM leave_requests
    WHERE status = 'approved' AND start_date <= $2 AND end_date >= $1
    ORDER BY start_date
  `, from, to)
}

func (s *Store) query(ctx context.Context, op, sql string, args ...any) ([]Request, error) {
	rows, err := s.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var out []Request
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
