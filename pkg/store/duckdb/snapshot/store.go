package snapshot

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/churn-scope/pkg/models/domain"
	"github.com/de-tools/churn-scope/pkg/models/store"
	"github.com/de-tools/churn-scope/pkg/store/duckdb"
	"github.com/google/uuid"
)

// CustomerFilter narrows GetCustomers results. Zero values mean no filter;
// IDContains matches case-sensitively on a substring of the customer id.
type CustomerFilter struct {
	Tier       string
	Contract   string
	IDContains string
}

// Store persists snapshot aggregates together with their per-customer rows.
// Save is all-or-nothing: both tables are written inside one transaction so
// readers never observe a half-written snapshot.
type Store interface {
	Save(ctx context.Context, snap store.Snapshot, customers []store.Customer) (string, error)
	Get(ctx context.Context, id string) (store.Snapshot, error)
	GetCustomers(ctx context.Context, id string, filter CustomerFilter) ([]store.Customer, error)
	ListByOwner(ctx context.Context, owner string) ([]store.Snapshot, error)
	Delete(ctx context.Context, id string) error
}

type snapshotStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &snapshotStore{db: db}, nil
}

const insertSnapshotQuery = `
	INSERT INTO snapshots (
		id, owner, created_at, total_customers, churn_rate,
		total_monthly_revenue, revenue_at_risk,
		tier_low, tier_medium, tier_high, tier_critical
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

const insertCustomerQuery = `
	INSERT INTO snapshot_customers (
		snapshot_id, customer_id, gender, senior_citizen, partner, dependents,
		tenure_months, phone_service, internet_service, tech_support,
		paperless_billing, contract, payment_method, monthly_charges,
		total_charges, churn_probability, risk_tier, segment
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (s *snapshotStore) Save(ctx context.Context, snap store.Snapshot, customers []store.Customer) (string, error) {
	id := snap.ID
	if id == "" {
		id = uuid.NewString()
	}

	tx := duckdb.GetTransaction(ctx)
	ownTx := tx == nil
	if ownTx {
		var err error
		tx, err = s.db.BeginTx(ctx, nil)
		if err != nil {
			return "", &domain.StorageError{Op: "begin save", Err: err}
		}
		defer func() {
			_ = tx.Rollback()
		}()
	}

	_, err := tx.ExecContext(ctx, insertSnapshotQuery,
		id, snap.Owner, snap.CreatedAt, snap.TotalCustomers, snap.ChurnRate,
		snap.TotalMonthlyRevenue, snap.RevenueAtRisk,
		snap.TierLow, snap.TierMedium, snap.TierHigh, snap.TierCritical,
	)
	if err != nil {
		return "", &domain.StorageError{Op: "insert snapshot", Err: err}
	}

	stmt, err := tx.PrepareContext(ctx, insertCustomerQuery)
	if err != nil {
		return "", &domain.StorageError{Op: "prepare customer insert", Err: err}
	}
	defer stmt.Close()

	for _, c := range customers {
		_, err = stmt.ExecContext(ctx,
			id, c.CustomerID, c.Gender, c.SeniorCitizen, c.Partner, c.Dependents,
			c.TenureMonths, c.PhoneService, c.InternetService, c.TechSupport,
			c.PaperlessBilling, c.Contract, c.PaymentMethod, c.MonthlyCharges,
			c.TotalCharges, c.ChurnProbability, c.RiskTier, c.Segment,
		)
		if err != nil {
			return "", &domain.StorageError{
				Op:  fmt.Sprintf("insert customer %s", c.CustomerID),
				Err: err,
			}
		}
	}

	if ownTx {
		if err := tx.Commit(); err != nil {
			return "", &domain.StorageError{Op: "commit save", Err: err}
		}
	}
	return id, nil
}

const selectSnapshotColumns = `
	id, owner, created_at, total_customers, churn_rate,
	total_monthly_revenue, revenue_at_risk,
	tier_low, tier_medium, tier_high, tier_critical`

func (s *snapshotStore) Get(ctx context.Context, id string) (store.Snapshot, error) {
	query := fmt.Sprintf(`SELECT %s FROM snapshots WHERE id = ?`, selectSnapshotColumns)
	row := s.db.QueryRowContext(ctx, query, id)

	snap, err := scanSnapshot(row)
	if err == sql.ErrNoRows {
		return store.Snapshot{}, domain.ErrSnapshotNotFound
	}
	if err != nil {
		return store.Snapshot{}, &domain.StorageError{Op: "get snapshot", Err: err}
	}
	return snap, nil
}

func (s *snapshotStore) ListByOwner(ctx context.Context, owner string) ([]store.Snapshot, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM snapshots WHERE owner = ? ORDER BY created_at DESC, id`,
		selectSnapshotColumns,
	)
	rows, err := s.db.QueryContext(ctx, query, owner)
	if err != nil {
		return nil, &domain.StorageError{Op: "list snapshots", Err: err}
	}
	defer rows.Close()

	snapshots := make([]store.Snapshot, 0)
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, &domain.StorageError{Op: "scan snapshot", Err: err}
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "list snapshots", Err: err}
	}
	return snapshots, nil
}

func (s *snapshotStore) GetCustomers(ctx context.Context, id string, filter CustomerFilter) ([]store.Customer, error) {
	tx := duckdb.GetTransaction(ctx)
	ownTx := tx == nil
	if ownTx {
		var err error
		tx, err = s.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, &domain.StorageError{Op: "begin customer query", Err: err}
		}
		defer func() {
			_ = tx.Rollback()
		}()
	}

	// Existence check and row query share the transaction, so a concurrent
	// delete cannot turn an unknown id into an empty result.
	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots WHERE id = ?`, id).Scan(&exists); err != nil {
		return nil, &domain.StorageError{Op: "check snapshot", Err: err}
	}
	if exists == 0 {
		return nil, domain.ErrSnapshotNotFound
	}

	query := `
		SELECT snapshot_id, customer_id, gender, senior_citizen, partner, dependents,
			tenure_months, phone_service, internet_service, tech_support,
			paperless_billing, contract, payment_method, monthly_charges,
			total_charges, churn_probability, risk_tier, segment
		FROM snapshot_customers
		WHERE snapshot_id = ?`
	args := []interface{}{id}

	if filter.Tier != "" {
		query += " AND risk_tier = ?"
		args = append(args, filter.Tier)
	}
	if filter.Contract != "" {
		query += " AND contract = ?"
		args = append(args, filter.Contract)
	}
	if filter.IDContains != "" {
		query += " AND customer_id LIKE ?"
		args = append(args, "%"+filter.IDContains+"%")
	}
	query += " ORDER BY churn_probability DESC, customer_id"

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &domain.StorageError{Op: "query customers", Err: err}
	}

	customers, err := scanCustomers(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	if ownTx {
		if err := tx.Commit(); err != nil {
			return nil, &domain.StorageError{Op: "commit customer query", Err: err}
		}
	}
	return customers, nil
}

func scanCustomers(rows *sql.Rows) ([]store.Customer, error) {
	customers := make([]store.Customer, 0)
	for rows.Next() {
		var c store.Customer
		err := rows.Scan(
			&c.SnapshotID, &c.CustomerID, &c.Gender, &c.SeniorCitizen, &c.Partner,
			&c.Dependents, &c.TenureMonths, &c.PhoneService, &c.InternetService,
			&c.TechSupport, &c.PaperlessBilling, &c.Contract, &c.PaymentMethod,
			&c.MonthlyCharges, &c.TotalCharges, &c.ChurnProbability, &c.RiskTier,
			&c.Segment,
		)
		if err != nil {
			return nil, &domain.StorageError{Op: "scan customer", Err: err}
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StorageError{Op: "query customers", Err: err}
	}
	return customers, nil
}

func (s *snapshotStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &domain.StorageError{Op: "begin delete", Err: err}
	}
	defer func() {
		_ = tx.Rollback()
	}()

	res, err := tx.ExecContext(ctx, `DELETE FROM snapshots WHERE id = ?`, id)
	if err != nil {
		return &domain.StorageError{Op: "delete snapshot", Err: err}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return &domain.StorageError{Op: "delete snapshot", Err: err}
	}
	if affected == 0 {
		return domain.ErrSnapshotNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_customers WHERE snapshot_id = ?`, id); err != nil {
		return &domain.StorageError{Op: "delete snapshot customers", Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &domain.StorageError{Op: "commit delete", Err: err}
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSnapshot(row scanner) (store.Snapshot, error) {
	var snap store.Snapshot
	err := row.Scan(
		&snap.ID, &snap.Owner, &snap.CreatedAt, &snap.TotalCustomers,
		&snap.ChurnRate, &snap.TotalMonthlyRevenue, &snap.RevenueAtRisk,
		&snap.TierLow, &snap.TierMedium, &snap.TierHigh, &snap.TierCritical,
	)
	return snap, err
}
