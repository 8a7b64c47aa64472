package pgtools

import (
	"context"
	"embed"
	"fmt"

	"github.com/Leopold1975/churnguard/internal/pkg/config"
	"github.com/Leopold1975/churnguard/internal/pkg/waitfor"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // driver for migrations
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

const migrationsDir = "migrations"

func ConnString(cfg config.PostgresDB) string {
	return "postgres://" + cfg.Username + ":" + cfg.Password + "@" +
		cfg.Addr + "/" + cfg.DB + "?" + "sslmode=" + cfg.SSLmode
}

func Connect(ctx context.Context, cfg config.PostgresDB) (*pgxpool.Pool, error) {
	db, err := pgxpool.New(ctx, ConnString(cfg)+"&pool_max_conns="+cfg.MaxConns)
	if err != nil {
		return nil, fmt.Errorf("cannot create db pool error: %w", err)
	}

	if err := waitfor.Ping(ctx, db.Ping); err != nil {
		db.Close()

		return nil, fmt.Errorf("cannot ping db error: %w", err)
	}

	return db, nil
}

// ApplyMigration migrates the user store schema to cfg.Version, or to the
// latest version when it is zero. Reload rolls everything back first.
func ApplyMigration(cfg config.PostgresDB) error {
	goose.SetBaseFS(migrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose set dialect error: %w", err)
	}

	dbM, err := goose.OpenDBWithDriver("pgx", ConnString(cfg))
	if err != nil {
		return fmt.Errorf("goose open pgx db error: %w", err)
	}
	defer dbM.Close()

	if cfg.Reload {
		if err := goose.DownTo(dbM, migrationsDir, 0); err != nil {
			return fmt.Errorf("goose down error: %w", err)
		}
	}

	if cfg.Version == 0 {
		if err := goose.Up(dbM, migrationsDir); err != nil {
			return fmt.Errorf("goose up error: %w", err)
		}

		return nil
	}

	if err := goose.UpTo(dbM, migrationsDir, int64(cfg.Version)); err != nil {
		return fmt.Errorf("goose up error: %w", err)
	}

	return nil
}

func CommitOrRollback(ctx context.Context, tx pgx.Tx, err error, where string) error {
	if err == nil {
		if errT := tx.Commit(ctx); errT != nil {
			err = fmt.Errorf("commit error: %w", errT)
		}
	} else {
		if errT := tx.Rollback(ctx); errT != nil {
			err = fmt.Errorf("%s error: %w rollback error: %w", where, err, errT)
		} else {
			err = fmt.Errorf("%s error: %w", where, err)
		}
	}

	return err
}
