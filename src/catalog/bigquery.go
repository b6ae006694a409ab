package catalog

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
)

// BigQueryStore keeps the catalog in a BigQuery table
// (<project>.product_recommendations.products by default).
type BigQueryStore struct {
	client  *bigquery.Client
	dataset string
	table   string
}

// NewBigQueryStore connects a BigQuery-backed catalog store.
func NewBigQueryStore(ctx context.Context, project, dataset, table string) (*BigQueryStore, error) {
	client, err := bigquery.NewClient(ctx, project)
	if err != nil {
		return nil, fmt.Errorf("create bigquery client: %w", err)
	}
	return &BigQueryStore{client: client, dataset: dataset, table: table}, nil
}

func (s *BigQueryStore) tableRef() string {
	return fmt.Sprintf("`%s.%s`", s.dataset, s.table)
}

// Insert streams one row per product into the table.
func (s *BigQueryStore) Insert(ctx context.Context, products []Product) error {
	if len(products) == 0 {
		return nil
	}
	inserter := s.client.Dataset(s.dataset).Table(s.table).Inserter()
	if err := inserter.Put(ctx, products); err != nil {
		return fmt.Errorf("insert %d rows into %s.%s: %w", len(products), s.dataset, s.table, err)
	}
	log.Infof("catalog: %d rows added to %s.%s", len(products), s.dataset, s.table)
	return nil
}

// List returns every catalog row.
func (s *BigQueryStore) List(ctx context.Context) ([]Product, error) {
	q := s.client.Query("SELECT product_id, brand, product_name, product_type, specs, rtings_scores, price_usd, summary FROM " + s.tableRef())
	return s.collect(ctx, q)
}

// Get looks a product up by id.
func (s *BigQueryStore) Get(ctx context.Context, productID string) (Product, error) {
	q := s.client.Query("SELECT product_id, brand, product_name, product_type, specs, rtings_scores, price_usd, summary FROM " + s.tableRef() + " WHERE product_id = @product_id LIMIT 1")
	q.Parameters = []bigquery.QueryParameter{{Name: "product_id", Value: productID}}
	products, err := s.collect(ctx, q)
	if err != nil {
		return Product{}, err
	}
	if len(products) == 0 {
		return Product{}, ErrProductNotFound
	}
	return products[0], nil
}

// Match narrows candidates by product type and brand in SQL, then applies
// the full filter predicate in Go so price semantics match the other backends.
func (s *BigQueryStore) Match(ctx context.Context, f Filter) ([]Product, error) {
	sql := "SELECT product_id, brand, product_name, product_type, specs, rtings_scores, price_usd, summary FROM " + s.tableRef() + " WHERE 1=1"
	var params []bigquery.QueryParameter
	if f.ProductType != "" {
		sql += " AND LOWER(product_type) LIKE CONCAT('%', LOWER(@product_type), '%')"
		params = append(params, bigquery.QueryParameter{Name: "product_type", Value: f.ProductType})
	}
	if f.Brand != "" {
		sql += " AND LOWER(brand) = LOWER(@brand)"
		params = append(params, bigquery.QueryParameter{Name: "brand", Value: f.Brand})
	}
	q := s.client.Query(sql)
	q.Parameters = params

	candidates, err := s.collect(ctx, q)
	if err != nil {
		return nil, err
	}
	return filterMatches(candidates, f), nil
}

func (s *BigQueryStore) collect(ctx context.Context, q *bigquery.Query) ([]Product, error) {
	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("query %s.%s: %w", s.dataset, s.table, err)
	}
	products := make([]Product, 0)
	for {
		var p Product
		err := it.Next(&p)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("scan catalog row: %w", err)
		}
		products = append(products, p)
	}
	return products, nil
}

// Close releases the BigQuery client.
func (s *BigQueryStore) Close() error {
	return s.client.Close()
}
