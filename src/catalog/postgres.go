package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const productColumns = "product_id, brand, product_name, product_type, specs, rtings_scores, price_usd, summary"

// PostgresStore keeps the catalog in a Postgres (or AlloyDB) table.
type PostgresStore struct {
	pool  *pgxpool.Pool
	table string
}

// NewPostgresStore connects a pgx pool and ensures the catalog table exists.
func NewPostgresStore(ctx context.Context, dsn, table string) (*PostgresStore, error) {
	if dsn == "" {
		return nil, errors.New("postgres backend requires DATABASE_URL")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	s := &PostgresStore{pool: pool, table: table}
	if err := s.ensureTable(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) ensureTable(ctx context.Context) error {
	ddl := `CREATE TABLE IF NOT EXISTS ` + s.table + ` (
		product_id TEXT PRIMARY KEY,
		brand TEXT,
		product_name TEXT,
		product_type TEXT,
		specs TEXT,
		rtings_scores TEXT,
		price_usd TEXT,
		summary TEXT
	)`
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("create table %s: %w", s.table, err)
	}
	return nil
}

// Insert writes one row per product.
func (s *PostgresStore) Insert(ctx context.Context, products []Product) error {
	for _, p := range products {
		_, err := s.pool.Exec(ctx,
			"INSERT INTO "+s.table+" ("+productColumns+") VALUES ($1,$2,$3,$4,$5,$6,$7,$8)",
			p.ProductID, p.Brand, p.ProductName, p.ProductType, p.Specs, p.RtingsScores, p.PriceUSD, p.Summary)
		if err != nil {
			return fmt.Errorf("insert product %s: %w", p.ProductID, err)
		}
	}
	log.Infof("catalog: %d rows added to %s", len(products), s.table)
	return nil
}

// List returns every catalog row.
func (s *PostgresStore) List(ctx context.Context) ([]Product, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+productColumns+" FROM "+s.table)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.table, err)
	}
	defer rows.Close()
	return scanProducts(rows)
}

// Get looks a product up by id.
func (s *PostgresStore) Get(ctx context.Context, productID string) (Product, error) {
	row := s.pool.QueryRow(ctx, "SELECT "+productColumns+" FROM "+s.table+" WHERE product_id = $1", productID)
	var p Product
	err := row.Scan(&p.ProductID, &p.Brand, &p.ProductName, &p.ProductType, &p.Specs, &p.RtingsScores, &p.PriceUSD, &p.Summary)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, ErrProductNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("scan product %s: %w", productID, err)
	}
	return p, nil
}

// Match narrows candidates in SQL and finishes with the shared predicate.
func (s *PostgresStore) Match(ctx context.Context, f Filter) ([]Product, error) {
	sql := "SELECT " + productColumns + " FROM " + s.table + " WHERE 1=1"
	var args []any
	if f.ProductType != "" {
		args = append(args, "%"+f.ProductType+"%")
		sql += fmt.Sprintf(" AND product_type ILIKE $%d", len(args))
	}
	if f.Brand != "" {
		args = append(args, f.Brand)
		sql += fmt.Sprintf(" AND LOWER(brand) = LOWER($%d)", len(args))
	}
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", s.table, err)
	}
	defer rows.Close()
	candidates, err := scanProducts(rows)
	if err != nil {
		return nil, err
	}
	return filterMatches(candidates, f), nil
}

func scanProducts(rows pgx.Rows) ([]Product, error) {
	products := make([]Product, 0)
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ProductID, &p.Brand, &p.ProductName, &p.ProductType, &p.Specs, &p.RtingsScores, &p.PriceUSD, &p.Summary); err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog rows: %w", err)
	}
	return products, nil
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
