package postgres

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestDSN(t *testing.T) {
	cfg := Config{Host: "db", Port: 5432, User: "shop", Pass: "p@ss word", DB: "shopping_db"}
	require.Equal(t, "postgres://shop:p%40ss%20word@db:5432/shopping_db?sslmode=disable", cfg.DSN())

	cfg.SSLMode = "require"
	require.Contains(t, cfg.DSN(), "sslmode=require")
}

func TestIsUniqueViolation(t *testing.T) {
	require.False(t, IsUniqueViolation(nil))
	require.False(t, IsUniqueViolation(errors.New("connection refused")))

	require.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	require.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	require.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
	require.True(t, IsUniqueViolation(errors.New("UNIQUE constraint failed: cart_items.cart_id")))
}

func TestOpenPoolAgainstLiveDatabase(t *testing.T) {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("set TEST_POSTGRES_DSN to run postgres integration tests")
	}

	poolCfg, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)

	cfg := Config{
		Host: poolCfg.ConnConfig.Host,
		Port: int(poolCfg.ConnConfig.Port),
		User: poolCfg.ConnConfig.User,
		Pass: poolCfg.ConnConfig.Password,
		DB:   poolCfg.ConnConfig.Database,
	}
	pool, err := OpenPool(context.Background(), cfg)
	require.NoError(t, err)
	defer pool.Close()

	db, err := Gorm(pool, gormlogger.Silent)
	require.NoError(t, err)

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	require.Equal(t, 1, one)
}
