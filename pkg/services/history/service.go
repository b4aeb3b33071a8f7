// Package history exposes the snapshot store to the rest of the system in
// domain terms: persisting new snapshots and serving owner-ordered history.
package history

import (
	"context"
	"fmt"

	"github.com/de-tools/churn-scope/pkg/adapters"
	"github.com/de-tools/churn-scope/pkg/models/domain"
	"github.com/de-tools/churn-scope/pkg/models/store"
	snapshotstore "github.com/de-tools/churn-scope/pkg/store/duckdb/snapshot"
)

// CustomerFilter mirrors the store filter at the domain boundary.
type CustomerFilter struct {
	Tier       domain.RiskTier
	Contract   domain.Contract
	IDContains string
}

type Service interface {
	// Save persists the snapshot with its customer rows and returns the
	// snapshot with its assigned id.
	Save(ctx context.Context, snap domain.Snapshot, customers []domain.ScoredCustomer) (domain.Snapshot, error)
	Get(ctx context.Context, id string) (domain.Snapshot, error)
	GetCustomers(ctx context.Context, id string, filter CustomerFilter) ([]domain.ScoredCustomer, error)
	ListByOwner(ctx context.Context, owner string) ([]domain.Snapshot, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	store snapshotstore.Store
}

func NewService(store snapshotstore.Store) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("snapshot store is nil")
	}
	return &service{store: store}, nil
}

func (s *service) Save(
	ctx context.Context,
	snap domain.Snapshot,
	customers []domain.ScoredCustomer,
) (domain.Snapshot, error) {
	rows := make([]store.Customer, 0, len(customers))
	for _, c := range customers {
		rows = append(rows, adapters.MapCustomerDomainToStore(snap.ID, c))
	}

	id, err := s.store.Save(ctx, adapters.MapSnapshotDomainToStore(snap), rows)
	if err != nil {
		return domain.Snapshot{}, err
	}
	snap.ID = id
	return snap, nil
}

func (s *service) Get(ctx context.Context, id string) (domain.Snapshot, error) {
	record, err := s.store.Get(ctx, id)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return adapters.MapSnapshotStoreToDomain(record), nil
}

func (s *service) GetCustomers(
	ctx context.Context,
	id string,
	filter CustomerFilter,
) ([]domain.ScoredCustomer, error) {
	records, err := s.store.GetCustomers(ctx, id, snapshotstore.CustomerFilter{
		Tier:       string(filter.Tier),
		Contract:   string(filter.Contract),
		IDContains: filter.IDContains,
	})
	if err != nil {
		return nil, err
	}

	customers := make([]domain.ScoredCustomer, 0, len(records))
	for _, r := range records {
		customers = append(customers, adapters.MapCustomerStoreToDomain(r))
	}
	return customers, nil
}

func (s *service) ListByOwner(ctx context.Context, owner string) ([]domain.Snapshot, error) {
	records, err := s.store.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	snapshots := make([]domain.Snapshot, 0, len(records))
	for _, r := range records {
		snapshots = append(snapshots, adapters.MapSnapshotStoreToDomain(r))
	}
	return snapshots, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.store.Delete(ctx, id)
}
