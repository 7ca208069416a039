package payroll

import "context"

type StoreAPI interface {
	UpsertRecord(ctx context.Context, result Result, generatedBy string) (Record, error)
	ListRecords(ctx context.Context, filter RecordFilter) ([]Record, error)
	CountRecords(ctx context.Context, filter RecordFilter) (int, error)
}

// RecordFilter narrows record listings. Zero values match everything.
type RecordFilter struct {
	EmployeeIDs []string
	Year        int
	Month       int
	Limit       int
	Offset      int
}
