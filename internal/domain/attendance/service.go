package attendance

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"hrms/internal/domain/auth"
	"hrms/internal/domain/payroll"
)

// Directory resolves employees by any of their identifiers.
type Directory interface {
	FindPayrollEmployee(ctx context.Context, ref string) (payroll.Employee, error)
}

type Service struct {
	store     StoreAPI
	directory Directory
	lateAfter ClockTime
	loc       *time.Location
	now       func() time.Time
}

func NewService(store StoreAPI, directory Directory, lateAfter ClockTime, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{store: store, directory: directory, lateAfter: lateAfter, loc: loc, now: time.Now}
}

func (s *Service) today() (time.Time, time.Time) {
	now := s.now().In(s.loc)
	return now, civilDate(now)
}

func (s *Service) employee(ctx context.Context, ref string) (payroll.Employee, error) {
	if strings.TrimSpace(ref) == "" {
		return payroll.Employee{}, ErrNoEmployee
	}
	emp, err := s.directory.FindPayrollEmployee(ctx, ref)
	if errors.Is(err, payroll.ErrEmployeeNotFound) {
		return payroll.Employee{}, ErrNoEmployee
	}
	return emp, err
}

// scope narrows a filter to what the caller may see. Admins may ask for one
// employee by any alias; employees only ever see their own records.
func (s *Service) scope(ctx context.Context, caller auth.UserContext, employeeRef string, filter ListFilter) (ListFilter, error) {
	ref := employeeRef
	if !caller.IsAdmin() {
		ref = caller.EmployeeID
		if ref == "" {
			return filter, ErrNoEmployee
		}
	}
	if ref == "" {
		return filter, nil
	}
	emp, err := s.employee(ctx, ref)
	if err != nil {
		return filter, err
	}
	filter.EmployeeIDs = emp.Identity.IDs()
	return filter, nil
}

func (s *Service) List(ctx context.Context, caller auth.UserContext, employeeRef string, filter ListFilter) ([]Record, int, error) {
	filter, err := s.scope(ctx, caller, employeeRef, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.store.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	items, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (s *Service) Stats(ctx context.Context, caller auth.UserContext, employeeRef string, filter ListFilter) (Stats, error) {
	filter, err := s.scope(ctx, caller, employeeRef, filter)
	if err != nil {
		return Stats{}, err
	}
	filter.Limit, filter.Offset = 0, 0
	items, err := s.store.List(ctx, filter)
	if err != nil {
		return Stats{}, err
	}
	return Summarize(items), nil
}

// CheckIn opens today's record for the caller. One record per day.
func (s *Service) CheckIn(ctx context.Context, caller auth.UserContext, in CheckInInput) (Record, error) {
	emp, err := s.employee(ctx, caller.EmployeeID)
	if err != nil {
		return Record{}, err
	}
	now, date := s.today()
	if _, err := s.store.FindByEmployeeDate(ctx, emp.Identity.IDs(), date); err == nil {
		return Record{}, ErrAlreadyCheckedIn
	} else if !errors.Is(err, ErrNotFound) {
		return Record{}, err
	}

	location := strings.TrimSpace(in.Location)
	if location == "" {
		location = DefaultLocation
	}
	rec, err := s.store.Create(ctx, Record{
		EmployeeID:   emp.Identity.PrimaryID,
		EmployeeName: emp.Name,
		Date:         date,
		LoginTime:    now,
		IsLate:       IsLate(now, s.lateAfter),
		Location:     location,
	})
	if err != nil {
		return Record{}, err
	}
	slog.Info("checked in", "employeeId", rec.EmployeeID, "late", rec.IsLate)
	return rec, nil
}

// CheckOut closes today's record, ending any open break first.
func (s *Service) CheckOut(ctx context.Context, caller auth.UserContext) (Record, error) {
	emp, err := s.employee(ctx, caller.EmployeeID)
	if err != nil {
		return Record{}, err
	}
	now, date := s.today()
	rec, err := s.store.FindByEmployeeDate(ctx, emp.Identity.IDs(), date)
	if errors.Is(err, ErrNotFound) {
		return Record{}, ErrNotCheckedIn
	}
	if err != nil {
		return Record{}, err
	}
	if rec.LogoutTime != nil {
		return Record{}, ErrCheckedOut
	}
	if active, ok := rec.ActiveBreak(); ok {
		if rec, err = s.closeBreak(ctx, rec, active, now); err != nil {
			return Record{}, err
		}
	}
	rec.LogoutTime = &now
	rec.TotalHours = WorkedHours(rec.LoginTime, now, rec.BreakMinutes())
	return s.store.Update(ctx, rec)
}

func (s *Service) owned(ctx context.Context, caller auth.UserContext, id string) (Record, error) {
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}
	if caller.IsAdmin() {
		return rec, nil
	}
	emp, err := s.employee(ctx, caller.EmployeeID)
	if err != nil {
		return Record{}, err
	}
	if !emp.Identity.Matches(rec.EmployeeID) {
		return Record{}, ErrForbidden
	}
	return rec, nil
}

func (s *Service) StartBreak(ctx context.Context, caller auth.UserContext, id string) (Record, error) {
	rec, err := s.owned(ctx, caller, id)
	if err != nil {
		return Record{}, err
	}
	if rec.LogoutTime != nil {
		return Record{}, ErrCheckedOut
	}
	if _, ok := rec.ActiveBreak(); ok {
		return Record{}, ErrActiveBreak
	}
	now, _ := s.today()
	b := Break{ID: uuid.NewString(), StartTime: now}
	if err := s.store.AddBreak(ctx, rec.ID, b); err != nil {
		return Record{}, err
	}
	rec.Breaks = append(rec.Breaks, b)
	return rec, nil
}

func (s *Service) EndBreak(ctx context.Context, caller auth.UserContext, id string) (Record, error) {
	rec, err := s.owned(ctx, caller, id)
	if err != nil {
		return Record{}, err
	}
	active, ok := rec.ActiveBreak()
	if !ok {
		return Record{}, ErrNoActiveBreak
	}
	now, _ := s.today()
	rec, err = s.closeBreak(ctx, rec, active, now)
	if err != nil {
		return Record{}, err
	}
	if rec.LogoutTime != nil {
		rec.TotalHours = WorkedHours(rec.LoginTime, *rec.LogoutTime, rec.BreakMinutes())
		return s.store.Update(ctx, rec)
	}
	return rec, nil
}

func (s *Service) closeBreak(ctx context.Context, rec Record, active Break, end time.Time) (Record, error) {
	minutes := BreakDuration(active.StartTime, end)
	if err := s.store.EndBreak(ctx, active.ID, end, minutes); err != nil {
		return Record{}, err
	}
	for i := range rec.Breaks {
		if rec.Breaks[i].ID == active.ID {
			rec.Breaks[i].EndTime = &end
			rec.Breaks[i].DurationMinutes = &minutes
		}
	}
	return rec, nil
}

// CreateManual records attendance entered by an admin.
func (s *Service) CreateManual(ctx context.Context, caller auth.UserContext, in ManualInput) (Record, error) {
	if !caller.IsAdmin() {
		return Record{}, ErrForbidden
	}
	emp, err := s.employee(ctx, in.EmployeeID)
	if err != nil {
		return Record{}, err
	}
	date, err := payroll.ParseDate(in.Date)
	if err != nil {
		return Record{}, err
	}
	rec := Record{
		EmployeeID:   emp.Identity.PrimaryID,
		EmployeeName: emp.Name,
		Date:         date,
		Location:     strings.TrimSpace(in.Location),
	}
	if err := s.applyTimes(&rec, in.LoginTime, in.LogoutTime, in.IsLate); err != nil {
		return Record{}, err
	}
	if rec.Location == "" {
		rec.Location = DefaultLocation
	}
	return s.store.Create(ctx, rec)
}

func (s *Service) Update(ctx context.Context, caller auth.UserContext, id string, in UpdateInput) (Record, error) {
	if !caller.IsAdmin() {
		return Record{}, ErrForbidden
	}
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return Record{}, err
	}
	login := in.LoginTime
	if login == "" {
		login = rec.LoginTime.In(s.loc).Format("15:04")
	}
	logout := in.LogoutTime
	if logout == "" && rec.LogoutTime != nil {
		logout = rec.LogoutTime.In(s.loc).Format("15:04")
	}
	if err := s.applyTimes(&rec, login, logout, in.IsLate); err != nil {
		return Record{}, err
	}
	if loc := strings.TrimSpace(in.Location); loc != "" {
		rec.Location = loc
	}
	return s.store.Update(ctx, rec)
}

func (s *Service) applyTimes(rec *Record, loginValue, logoutValue string, isLate *bool) error {
	loginClock, err := ParseClock(loginValue)
	if err != nil {
		return err
	}
	rec.LoginTime = loginClock.On(rec.Date, s.loc)
	rec.LogoutTime = nil
	rec.TotalHours = 0
	if logoutValue != "" {
		logoutClock, err := ParseClock(logoutValue)
		if err != nil {
			return err
		}
		logout := logoutClock.On(rec.Date, s.loc)
		if !logout.After(rec.LoginTime) {
			return ErrInvalidTime
		}
		rec.LogoutTime = &logout
		rec.TotalHours = WorkedHours(rec.LoginTime, logout, rec.BreakMinutes())
	}
	if isLate != nil {
		rec.IsLate = *isLate
	} else {
		rec.IsLate = IsLate(rec.LoginTime, s.lateAfter)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, caller auth.UserContext, id string) error {
	if !caller.IsAdmin() {
		return ErrForbidden
	}
	return s.store.Delete(ctx, id)
}
