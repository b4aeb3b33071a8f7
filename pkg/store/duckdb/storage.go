package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const SnapshotTableSchema = `
	CREATE TABLE IF NOT EXISTS snapshots (
		id VARCHAR PRIMARY KEY,
		owner VARCHAR NOT NULL,
		created_at TIMESTAMP NOT NULL,
		total_customers INTEGER NOT NULL,
		churn_rate DOUBLE NOT NULL,
		total_monthly_revenue DOUBLE NOT NULL,
		revenue_at_risk DOUBLE NOT NULL,
		tier_low INTEGER NOT NULL,
		tier_medium INTEGER NOT NULL,
		tier_high INTEGER NOT NULL,
		tier_critical INTEGER NOT NULL
	);
`

const SnapshotCustomerTableSchema = `
	CREATE TABLE IF NOT EXISTS snapshot_customers (
		snapshot_id VARCHAR NOT NULL,
		customer_id VARCHAR NOT NULL,
		gender VARCHAR,
		senior_citizen BOOLEAN,
		partner BOOLEAN,
		dependents BOOLEAN,
		tenure_months INTEGER,
		phone_service BOOLEAN,
		internet_service VARCHAR,
		tech_support BOOLEAN,
		paperless_billing BOOLEAN,
		contract VARCHAR,
		payment_method VARCHAR,
		monthly_charges DOUBLE,
		total_charges DOUBLE,
		churn_probability DOUBLE,
		risk_tier VARCHAR,
		segment VARCHAR,
		PRIMARY KEY (snapshot_id, customer_id)
	);
`

var bootQueries = []string{
	SnapshotTableSchema,
	SnapshotCustomerTableSchema,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
