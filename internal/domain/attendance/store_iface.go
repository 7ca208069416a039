package attendance

import (
	"context"
	"time"
)

type StoreAPI interface {
	List(ctx context.Context, filter ListFilter) ([]Record, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
	Get(ctx context.Context, id string) (Record, error)
	FindByEmployeeDate(ctx context.Context, employeeIDs []string, date time.Time) (Record, error)
	Create(ctx context.Context, rec Record) (Record, error)
	Update(ctx context.Context, rec Record) (Record, error)
	AddBreak(ctx context.Context, recordID string, b Break) error
	EndBreak(ctx context.Context, breakID string, end time.Time, minutes int) error
	Delete(ctx context.Context, id string) error
}
