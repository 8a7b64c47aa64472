package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Leopold1975/churnguard/internal/churnguard/domain/models"
	"github.com/Leopold1975/churnguard/internal/churnguard/repository/userrepo"
	"github.com/Leopold1975/churnguard/internal/pkg/config"
	"github.com/Leopold1975/churnguard/internal/pkg/pgtools"
	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

type UsersPostgresRepo struct {
	db *pgxpool.Pool
}

func New(ctx context.Context, cfg config.PostgresDB) (UsersPostgresRepo, error) {
	db, err := pgtools.Connect(ctx, cfg)
	if err != nil {
		return UsersPostgresRepo{}, fmt.Errorf("connect to db error: %w", err)
	}

	if err := pgtools.ApplyMigration(cfg); err != nil {
		db.Close()

		return UsersPostgresRepo{}, fmt.Errorf("apply migration error: %w", err)
	}

	return UsersPostgresRepo{
		db: db,
	}, nil
}

func (ur UsersPostgresRepo) CreateUser(ctx context.Context, u models.User) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Insert("users").
		Columns("username", "password_hash").
		Values(u.Username, u.PasswordHash).ToSql()
	if err != nil {
		return fmt.Errorf("to sql error: %w", err)
	}

	_, err = ur.db.Exec(ctx, query, args...)
	if err != nil {
		target := new(pgconn.PgError)
		if errors.As(err, &target) && target.Code == uniqueViolation {
			return userrepo.ErrAlreadyExists
		}

		return fmt.Errorf("exec error: %w", err)
	}

	return nil
}

func (ur UsersPostgresRepo) GetUser(ctx context.Context, username string) (models.User, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

	query, args, err := psql.Select("id", "username", "password_hash").
		From("users").
		Where(squirrel.Eq{"username": username}).ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("to sql error: %w", err)
	}

	var u models.User

	if err := ur.db.QueryRow(ctx, query, args...).Scan(&u.ID, &u.Username, &u.PasswordHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, userrepo.ErrNotFound
		}

		return models.User{}, fmt.Errorf("scan error: %w", err)
	}

	return u, nil
}

// Wipe removes every user.
func (ur UsersPostgresRepo) Wipe(ctx context.Context) (err error) { //nolint:nonamedreturns
	tx, err := ur.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cannot begin transaction error: %w", err)
	}

	defer func() {
		err = pgtools.CommitOrRollback(ctx, tx, err, "wipe")
	}()

	if _, err = tx.Exec(ctx, "TRUNCATE TABLE users RESTART IDENTITY"); err != nil {
		return fmt.Errorf("truncate error: %w", err)
	}

	return nil
}

func (ur UsersPostgresRepo) Close(_ context.Context) error {
	ur.db.Close()

	return nil
}
