// Package testdb starts a disposable Postgres with the schema applied.
package testdb

import (
	"context"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const image = "postgres:17.6-alpine3.22"

func StartPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	postgresContainer, err := postgres.Run(ctx, image,
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(initScripts()...),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("pc.ConnectionString: %w", err)
	}

	return postgresContainer, connStr, nil
}

// initScripts resolves the migrations relative to this file so callers in
// any package get the same schema.
func initScripts() []string {
	_, file, _, _ := runtime.Caller(0)
	dir := filepath.Join(filepath.Dir(file), "..", "migrations")

	return []string{
		filepath.Join(dir, "01_cart_items.up.sql"),
		filepath.Join(dir, "02_promo_codes.up.sql"),
		filepath.Join(dir, "03_products.up.sql"),
	}
}
