// internal/adapters/out/db/common/sqlutil.go
package common

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// RowScanner は *sql.Row, *sql.Rows の両方に共通の Scan() メソッドを持つ抽象型です。
type RowScanner interface {
	Scan(dest ...any) error
}

// IsUniqueViolation は PostgreSQL 一意制約違反（duplicate key）を検知します。
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// Runner は *sql.DB と *sql.Tx の共通インターフェースです。
type Runner interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// TxKey は context に *sql.Tx を格納するためのキーです。
type TxKey struct{}

// CtxWithTx は ctx に tx を格納して返します。
func CtxWithTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, TxKey{}, tx)
}

// TxFromCtx は ctx から *sql.Tx を取り出します（無ければ nil）。
func TxFromCtx(ctx context.Context) *sql.Tx {
	if tx, ok := ctx.Value(TxKey{}).(*sql.Tx); ok {
		return tx
	}
	return nil
}

// GetRunner は ctx に Tx があればそれを、無ければ *sql.DB を返します。
func GetRunner(ctx context.Context, db *sql.DB) Runner {
	if tx := TxFromCtx(ctx); tx != nil {
		return tx
	}
	return db
}

// WithTx は fn を 1 トランザクション内で実行します。
// fn には tx を格納した ctx が渡るので、GetRunner 経由のクエリは tx を使います。
// fn がエラーを返したら rollback します。
func WithTx(ctx context.Context, db *sql.DB, fn func(ctx context.Context) error) error {
	if db == nil {
		return errors.New("sqlutil: db is nil")
	}
	if TxFromCtx(ctx) != nil {
		return fn(ctx)
	}
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlutil: begin tx: %w", err)
	}
	if err := fn(CtxWithTx(ctx, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlutil: commit: %w", err)
	}
	return nil
}

// FromNullString は sql.NullString を string に変換します（無効なら空文字）。
func FromNullString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

// ToNullString は空白のみの文字列を NULL として扱います。
func ToNullString(s string) sql.NullString {
	t := strings.TrimSpace(s)
	if t == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: t, Valid: true}
}
