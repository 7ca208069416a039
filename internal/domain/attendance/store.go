package attendance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"hrms/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const recordColumns = `id::text, employee_id, employee_name, date, login_time, logout_time, total_hours, is_late, location, created_at`

func scanRecord(row pgx.Row) (Record, error) {
	var r Record
	err := row.Scan(&r.ID, &r.EmployeeID, &r.EmployeeName, &r.Date, &r.LoginTime, &r.LogoutTime, &r.TotalHours, &r.IsLate, &r.Location, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
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
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		clauses = append(clauses, fmt.Sprintf("date >= $%d", len(args)))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		clauses = append(clauses, fmt.Sprintf("date <= $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (s *Store) List(ctx context.Context, filter ListFilter) ([]Record, error) {
	where, args := listWhere(filter)
	query := `SELECT ` + recordColumns + ` FROM attendance_records` + where + ` ORDER BY date DESC, login_time DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan attendance: %w", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.attachBreaks(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

func (s *Store) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := listWhere(filter)
	var total int
	if err := s.DB.QueryRow(ctx, `SELECT COUNT(1) FROM attendance_records`+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count attendance: %w", err)
	}
	return total, nil
}

func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	return s.one(ctx, `SELECT `+recordColumns+` FROM attendance_records WHERE id::text = $1`, id)
}

func (s *Store) FindByEmployeeDate(ctx context.Context, employeeIDs []string, date time.Time) (Record, error) {
	return s.one(ctx, `
    SELECT `+recordColumns+`
    FROM attendance_records
    WHERE employee_id = ANY($1) AND date = $2
    LIMIT 1
  `, employeeIDs, date)
}

func (s *Store) one(ctx context.Context, sql string, args ...any) (Record, error) {
	r, err := scanRecord(s.DB.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("get attendance: %w", err)
	}
	records := []Record{r}
	if err := s.attachBreaks(ctx, records); err != nil {
		return Record{}, err
	}
	return records[0], nil
}

func (s *Store) Create(ctx context.Context, rec Record) (Record, error) {
	created, err := scanRecord(s.DB.QueryRow(ctx, `
    INSERT INTO attendance_records (employee_id, employee_name, date, login_time, logout_time, total_hours, is_late, location)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING `+recordColumns,
		rec.EmployeeID, rec.EmployeeName, rec.Date, rec.LoginTime, rec.LogoutTime, rec.TotalHours, rec.IsLate, rec.Location))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Record{}, ErrAlreadyCheckedIn
		}
		return Record{}, fmt.Errorf("create attendance: %w", err)
	}
	return created, nil
}

func (s *Store) Update(ctx context.Context, rec Record) (Record, error) {
	updated, err := scanRecord(s.DB.QueryRow(ctx, `
    UPDATE attendance_records
    SET login_time = $2, logout_time = $3, total_hours = $4, is_late = $5, location = $6
    WHERE id::text = $1
    RETURNING `+recordColumns,
		rec.ID, rec.LoginTime, rec.LogoutTime, rec.TotalHours, rec.IsLate, rec.Location))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("update attendance: %w", err)
	}
	updated.Breaks = rec.Breaks
	return updated, nil
}

func (s *Store) AddBreak(ctx context.Context, recordID string, b Break) error {
	if _, err := s.DB.Exec(ctx, `
    INSERT INTO attendance_breaks (id, attendance_id, start_time)
    VALUES ($1, $2, $3)
  `, b.ID, recordID, b.StartTime); err != nil {
		return fmt.Errorf("add break: %w", err)
	}
	return nil
}

func (s *Store) EndBreak(ctx context.Context, breakID string, end time.Time, minutes int) error {
	tag, err := s.DB.Exec(ctx, `
    UPDATE attendance_breaks SET end_time = $2, duration_minutes = $3
    WHERE id::text = $1 AND end_time IS NULL
  `, breakID, end, minutes)
	if err != nil {
		return fmt.Errorf("end break: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNoActiveBreak
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, `DELETE FROM attendance_records WHERE id::text = $1`, id)
	if err != nil {
		return fmt.Errorf("delete attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) attachBreaks(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	ids := make([]string, len(records))
	index := make(map[string]int, len(records))
	for i, r := range records {
		ids[i] = r.ID
		index[r.ID] = i
	}
	rows, err := s.DB.Query(ctx, `
    SELECT id::text, attendance_id::text, start_time, end_time, duration_minutes
    FROM attendance_breaks
    WHERE attendance_id::text = ANY($1)
    ORDER BY start_time
  `, ids)
	if err != nil {
		return fmt.Errorf("list breaks: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var b Break
		var recordID string
		if err := rows.Scan(&b.ID, &recordID, &b.StartTime, &b.EndTime, &b.DurationMinutes); err != nil {
			return fmt.Errorf("scan break: %w", err)
		}
		if i, ok := index[recordID]; ok {
			records[i].Breaks = append(records[i].Breaks, b)
		}
	}
	return rows.Err()
}
