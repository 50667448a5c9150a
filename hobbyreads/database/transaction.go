package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hobbyreads/hobbyreads/hobbyreads/config"
	"github.com/uptrace/bun"
)

// TxOptions configures a managed transaction.
type TxOptions struct {
	IsolationLevel sql.IsolationLevel
	Timeout        time.Duration
}

func ReadCommitted() *TxOptions {
	return &TxOptions{IsolationLevel: sql.LevelReadCommitted, Timeout: config.DefaultTxTimeout}
}

// Serializable is used for state transitions that touch more than one row.
func Serializable() *TxOptions {
	return &TxOptions{IsolationLevel: sql.LevelSerializable, Timeout: config.DefaultTxTimeout}
}

// TxManager runs callbacks inside a bun transaction with a bounded lifetime.
type TxManager struct {
	db *bun.DB
}

func NewTxManager(db *bun.DB) *TxManager {
	return &TxManager{db: db}
}

// WithTransaction commits when fn returns nil and rolls back otherwise.
func (m *TxManager) WithTransaction(ctx context.Context, opts *TxOptions, fn func(context.Context, bun.Tx) error) error {
	if opts == nil {
		opts = ReadCommitted()
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	tx, err := m.db.BeginTx(timeoutCtx, &sql.TxOptions{Isolation: opts.IsolationLevel})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(timeoutCtx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
