package payroll

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
)

const recordColumns = `id, employee_id, employee_name, year, month, policy, base_salary,
    days_in_month, rest_days, total_working_days, actual_working_days,
    paid_leave_days, unpaid_leave_days, per_day_salary, deductions, final_salary,
    COALESCE(generated_by, ''), created_at`

func (s *Store) UpsertRecord(ctx context.Context, res Result, generatedBy string) (Record, error) {
	row := s.DB.QueryRow(ctx, `
    INSERT INTO payroll_records (
      employee_id, employee_name, year, month, policy, base_salary,
      days_in_month, rest_days, total_working_days, actual_working_days,
      paid_leave_days, unpaid_leave_days, per_day_salary, deductions, final_salary, generated_by
    ) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,NULLIF($16,''))
    ON CONFLICT (employee_id, year, month) DO UPDATE SET
      employee_name = EXCLUDED.employee_name,
      policy = EXCLUDED.policy,
      base_salary = EXCLUDED.base_salary,
      days_in_month = EXCLUDED.days_in_month,
      rest_days = EXCLUDED.rest_days,
      total_working_days = EXCLUDED.total_working_days,
      actual_working_days = EXCLUDED.actual_working_days,
      paid_leave_days = EXCLUDED.paid_leave_days,
      unpaid_leave_days = EXCLUDED.unpaid_leave_days,
      per_day_salary = EXCLUDED.per_day_salary,
      deductions = EXCLUDED.deductions,
      final_salary = EXCLUDED.final_salary,
      generated_by = EXCLUDED.generated_by,
      created_at = now()
    RETURNING `+recordColumns,
		res.EmployeeID, res.EmployeeName, res.Year, res.Month, string(res.Policy), res.BaseSalary,
		res.DaysInMonth, res.RestDays, res.TotalWorkingDays, res.ActualWorkingDays,
		res.PaidLeaveDays, res.UnpaidLeaveDays, res.PerDaySalary.Round(2), res.Deductions, res.FinalSalary, generatedBy,
	)
	rec, err := scanRecord(row)
	if err != nil {
		return Record{}, fmt.Errorf("upsert payroll record: %w", err)
	}
	rec.Result.Department = res.Department
	rec.Result.Position = res.Position
	return rec, nil
}

func (s *Store) ListRecords(ctx context.Context, filter RecordFilter) ([]Record, error) {
	where, args := recordWhere(filter)
	query := `SELECT ` + recordColumns + ` FROM payroll_records` + where +
		` ORDER BY year DESC, month DESC, employee_name`
	if filter.Limit > 0 {
		args = append(args, filter.Limit, filter.Offset)
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payroll records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payroll record: %w", err)
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

func (s *Store) CountRecords(ctx context.Context, filter RecordFilter) (int, error) {
	where, args := recordWhere(filter)
	var total int
	if err := s.DB.QueryRow(ctx, `SELECT COUNT(1) FROM payroll_records`+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count payroll records: %w", err)
	}
	return total, nil
}

func recordWhere(filter RecordFilter) (string, []any) {
	var clauses []string
	var args []any
	if len(filter.EmployeeIDs) > 0 {
		args = append(args, filter.EmployeeIDs)
		clauses = append(clauses, fmt.Sprintf("employee_id = ANY($%d)", len(args)))
	}
	if filter.Year > 0 {
		args = append(args, filter.Year)
		clauses = append(clauses, fmt.Sprintf("year = $%d", len(args)))
	}
	if filter.Month > 0 {
		args = append(args, filter.Month)
		clauses = append(clauses, fmt.Sprintf("month = $%d", len(args)))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func scanRecord(row pgx.Row) (Record, error) {
	var rec Record
	var policy string
	res := &rec.Result
	err := row.Scan(&rec.ID, &res.EmployeeID, &res.EmployeeName, &res.Year, &res.Month, &policy, &res.BaseSalary,
		&res.DaysInMonth, &res.RestDays, &res.TotalWorkingDays, &res.ActualWorkingDays,
		&res.PaidLeaveDays, &res.UnpaidLeaveDays, &res.PerDaySalary, &res.Deductions, &res.FinalSalary,
		&rec.GeneratedBy, &rec.GeneratedAt)
	if err != nil {
		return Record{}, err
	}
	res.Policy = Policy(policy)
	return rec, nil
}
