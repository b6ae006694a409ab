package catalog

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
)

const (
	// DefaultDataset and DefaultTable name the managed table holding the catalog.
	DefaultDataset = "product_recommendations"
	DefaultTable   = "products"

	defaultSQLitePath = "data/catalog.db"
)

// Open picks a store backend from the environment.
//
// CATALOG_BACKEND forces one of "bigquery", "postgres" or "sqlite". Without
// it the selection mirrors the catalog-service routing flags: Postgres when
// DATABASE_URL is set, BigQuery when a Google Cloud project can be resolved,
// the local SQLite file otherwise.
func Open(ctx context.Context) (Store, error) {
	backend := strings.ToLower(strings.TrimSpace(os.Getenv("CATALOG_BACKEND")))

	switch backend {
	case "bigquery":
		project, err := ResolveProject(ctx)
		if err != nil {
			return nil, err
		}
		return NewBigQueryStore(ctx, project, datasetFromEnv(), tableFromEnv())
	case "postgres":
		return NewPostgresStore(ctx, os.Getenv("DATABASE_URL"), tableFromEnv())
	case "sqlite":
		return NewSQLiteStore(sqlitePathFromEnv())
	case "":
		// fall through to inference
	default:
		return nil, fmt.Errorf("unknown CATALOG_BACKEND %q", backend)
	}

	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		log.Info("catalog: DATABASE_URL set, using postgres backend")
		return NewPostgresStore(ctx, dsn, tableFromEnv())
	}
	if project, err := ResolveProject(ctx); err == nil {
		log.Infof("catalog: using bigquery backend (project=%s)", project)
		return NewBigQueryStore(ctx, project, datasetFromEnv(), tableFromEnv())
	}
	log.Infof("catalog: no cloud project resolved, using sqlite backend (%s)", sqlitePathFromEnv())
	return NewSQLiteStore(sqlitePathFromEnv())
}

// ResolveProject returns the Google Cloud project id from GOOGLE_CLOUD_PROJECT,
// falling back to the project carried by Application Default Credentials.
func ResolveProject(ctx context.Context) (string, error) {
	if project := strings.TrimSpace(os.Getenv("GOOGLE_CLOUD_PROJECT")); project != "" {
		return project, nil
	}
	creds, err := google.FindDefaultCredentials(ctx, "https://www.googleapis.com/auth/cloud-platform")
	if err != nil {
		return "", fmt.Errorf("resolve project: %w", err)
	}
	if creds.ProjectID == "" {
		return "", fmt.Errorf("resolve project: GOOGLE_CLOUD_PROJECT not set and credentials carry no project")
	}
	return creds.ProjectID, nil
}

func datasetFromEnv() string {
	if ds := os.Getenv("CATALOG_DATASET"); ds != "" {
		return ds
	}
	return DefaultDataset
}

func tableFromEnv() string {
	if t := os.Getenv("CATALOG_TABLE"); t != "" {
		return t
	}
	return DefaultTable
}

func sqlitePathFromEnv() string {
	if p := os.Getenv("CATALOG_DB"); p != "" {
		return p
	}
	return defaultSQLitePath
}
