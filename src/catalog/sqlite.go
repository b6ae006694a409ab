package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/glebarez/go-sqlite"
)

// SQLiteStore keeps the catalog in a local SQLite file. It backs local
// development and tests when no cloud project is configured.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the catalog database file.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create catalog dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite catalog: %w", err)
	}
	ddl := `CREATE TABLE IF NOT EXISTS products (
		product_id TEXT PRIMARY KEY,
		brand TEXT,
		product_name TEXT,
		product_type TEXT,
		specs TEXT,
		rtings_scores TEXT,
		price_usd TEXT,
		summary TEXT
	);`
	if _, err := db.Exec(ddl); err != nil {
		db.Close()
		return nil, fmt.Errorf("create products table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Insert writes one row per product.
func (s *SQLiteStore) Insert(ctx context.Context, products []Product) error {
	for _, p := range products {
		_, err := s.db.ExecContext(ctx,
			"INSERT INTO products ("+productColumns+") VALUES (?,?,?,?,?,?,?,?)",
			p.ProductID, p.Brand, p.ProductName, p.ProductType, p.Specs, p.RtingsScores, p.PriceUSD, p.Summary)
		if err != nil {
			return fmt.Errorf("insert product %s: %w", p.ProductID, err)
		}
	}
	log.Infof("catalog: %d rows added to local catalog", len(products))
	return nil
}

// List returns every catalog row.
func (s *SQLiteStore) List(ctx context.Context) ([]Product, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+productColumns+" FROM products")
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()
	return scanSQLProducts(rows)
}

// Get looks a product up by id.
func (s *SQLiteStore) Get(ctx context.Context, productID string) (Product, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+productColumns+" FROM products WHERE product_id = ?", productID)
	var p Product
	err := row.Scan(&p.ProductID, &p.Brand, &p.ProductName, &p.ProductType, &p.Specs, &p.RtingsScores, &p.PriceUSD, &p.Summary)
	if errors.Is(err, sql.ErrNoRows) {
		return Product{}, ErrProductNotFound
	}
	if err != nil {
		return Product{}, fmt.Errorf("scan product %s: %w", productID, err)
	}
	return p, nil
}

// Match narrows candidates in SQL and finishes with the shared predicate.
func (s *SQLiteStore) Match(ctx context.Context, f Filter) ([]Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE 1=1"
	var args []any
	if f.ProductType != "" {
		query += " AND LOWER(product_type) LIKE '%' || LOWER(?) || '%'"
		args = append(args, f.ProductType)
	}
	if f.Brand != "" {
		query += " AND LOWER(brand) = LOWER(?)"
		args = append(args, f.Brand)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()
	candidates, err := scanSQLProducts(rows)
	if err != nil {
		return nil, err
	}
	return filterMatches(candidates, f), nil
}

func scanSQLProducts(rows *sql.Rows) ([]Product, error) {
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

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
