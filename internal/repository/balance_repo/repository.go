package balance_repo

import (
	"context"
	"errors"

	"midnight_slots/internal/repository"

	sq "github.com/Masterminds/squirrel"
	trmpgx "github.com/avito-tech/go-transaction-manager/drivers/pgxv5/v2"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	table    = "kv_store"
	colKey   = "key"
	colValue = "value"
)

const createTable = `CREATE TABLE IF NOT EXISTS ` + table + ` (
	` + colKey + ` TEXT PRIMARY KEY,
	` + colValue + ` TEXT NOT NULL
)`

type repo struct {
	dbc    *pgxpool.Pool
	getter *trmpgx.CtxGetter
}

func NewBalanceRepository(dbc *pgxpool.Pool) repository.BalanceRepository {
	return &repo{
		dbc:    dbc,
		getter: trmpgx.DefaultCtxGetter,
	}
}

// Migrate - создаёт таблицу kv_store, если её нет
func Migrate(ctx context.Context, dbc *pgxpool.Pool) error {
	_, err := dbc.Exec(ctx, createTable)
	return err
}

// GetBalance - получение строки баланса по ключу.
// Если записи нет, возвращает found=false
func (r *repo) GetBalance(ctx context.Context, key string) (string, bool, error) {
	sqlStr, args, err := selectQuery(key).ToSql()
	if err != nil {
		return "", false, err
	}

	var value string
	err = r.getter.DefaultTrOrDB(ctx, r.dbc).QueryRow(ctx, sqlStr, args...).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, err
	}

	return value, true, nil
}

// SaveBalance - upsert значения по ключу.
// Внутри trm транзакции пишет в неё же
func (r *repo) SaveBalance(ctx context.Context, key string, value string) error {
	sqlStr, args, err := upsertQuery(key, value).ToSql()
	if err != nil {
		return err
	}

	_, err = r.getter.DefaultTrOrDB(ctx, r.dbc).Exec(ctx, sqlStr, args...)
	return err
}

func selectQuery(key string) sq.SelectBuilder {
	return sq.Select(colValue).
		From(table).
		Where(sq.Eq{colKey: key}).
		PlaceholderFormat(sq.Dollar)
}

func upsertQuery(key, value string) sq.InsertBuilder {
	return sq.Insert(table).
		Columns(colKey, colValue).
		Values(key, value).
		Suffix("ON CONFLICT (" + colKey + ") DO UPDATE SET " + colValue + " = EXCLUDED." + colValue).
		PlaceholderFormat(sq.Dollar)
}
