package audit

import (
	"context"
	"encoding/json"
	"fmt"
)

type Service struct {
	store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{store: store}
}

func (s *Service) Record(ctx context.Context, entry Entry) error {
	before, err := marshal(entry.Before)
	if err != nil {
		return fmt.Errorf("marshal audit before: %w", err)
	}
	after, err := marshal(entry.After)
	if err != nil {
		return fmt.Errorf("marshal audit after: %w", err)
	}
	return s.store.Insert(ctx, Event{
		ActorID:    entry.ActorID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		RequestID:  entry.RequestID,
		IP:         entry.IP,
		Before:     before,
		After:      after,
	})
}

func (s *Service) List(ctx context.Context, filter Filter, includeDetails bool) ([]Event, int, error) {
	total, err := s.store.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	events, err := s.store.List(ctx, filter, includeDetails)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func marshal(v any) (json.RawMessage, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
