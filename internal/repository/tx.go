package repository

import "database/sql"

// Queryer is satisfied by both *sql.DB and *sql.Tx, so every repository can
// be constructed against either a plain connection pool or an open
// transaction — the scanner wraps a source_path commit (or the reap phase)
// in one transaction and hands it to the same repository types it uses
// outside a transaction.
type Queryer interface {
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
	Exec(query string, args ...interface{}) (sql.Result, error)
}

// WithTx runs fn inside a transaction, committing on success and rolling
// back on any error (including a panic, which it re-raises after rollback).
func WithTx(db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return rbErr
		}
		return err
	}
	return tx.Commit()
}
