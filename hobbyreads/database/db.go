package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/hobbyreads/hobbyreads/hobbyreads/config"
	"github.com/hobbyreads/hobbyreads/hobbyreads/database/models"
	"github.com/hobbyreads/hobbyreads/hobbyreads/logger"
	querylog "github.com/hobbyreads/hobbyreads/internal/domain/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

const (
	defaultMaxRetries    = 3
	defaultRetryInterval = time.Second
)

type DBConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	Database     string `toml:"database"`
	SSLMode      string `toml:"ssl_mode"`
	PoolSize     int    `toml:"pool_size"`
	MaxIdleConns int    `toml:"max_idle_conns"`
	MaxLifetime  int    `toml:"max_lifetime"`
}

// DSN renders the config as a postgres URL.
func (c DBConfig) DSN() string {
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s/%s?sslmode=%s&connect_timeout=5",
		c.User, c.Password, net.JoinHostPort(c.Host, strconv.Itoa(c.Port)), c.Database, sslMode)
}

// DB pairs a pgx pool, used for schema management and raw statements, with a bun
// handle used by the repositories.
type DB struct {
	pool  *pgxpool.Pool
	bunDB *bun.DB
}

func New(ctx context.Context, cfg DBConfig) (*DB, error) {
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))

	var err error
	for i := 0; i < defaultMaxRetries; i++ {
		var conn net.Conn
		conn, err = net.DialTimeout("tcp", addr, config.NetworkDialTimeout)
		if err == nil {
			conn.Close()
			break
		}
		time.Sleep(defaultRetryInterval)
	}
	if err != nil {
		return nil, fmt.Errorf("database server unreachable after %d attempts: %w", defaultMaxRetries, err)
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	if cfg.PoolSize > 0 {
		poolConfig.MaxConns = int32(cfg.PoolSize)
	}
	if cfg.MaxIdleConns > 0 {
		poolConfig.MinConns = int32(cfg.MaxIdleConns)
	}
	if cfg.MaxLifetime > 0 {
		poolConfig.MaxConnLifetime = time.Duration(cfg.MaxLifetime) * time.Second
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN())))
	if cfg.PoolSize > 0 {
		sqldb.SetMaxOpenConns(cfg.PoolSize)
	}
	bunDB := bun.NewDB(sqldb, pgdialect.New())
	bunDB.AddQueryHook(querylog.NewQueryHook(config.SlowQueryThreshold))
	return &DB{pool: pool, bunDB: bunDB}, nil
}

func (db *DB) GetPool() *pgxpool.Pool {
	return db.pool
}

func (db *DB) BunDB() *bun.DB {
	return db.bunDB
}

func (db *DB) ExecWithLog(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error) {
	start := time.Now()
	result, err := db.pool.Exec(ctx, sql, args...)
	duration := time.Since(start)

	if err != nil {
		slog.Error("Query failed",
			slog.String("type", "db"),
			slog.String("operation", "exec"),
			slog.String("query", sql),
			slog.Duration("took", duration),
			slog.Any("error", err),
		)
		return result, err
	}

	slog.Debug("Query executed",
		slog.String("type", "db"),
		slog.String("operation", "exec"),
		slog.String("query", sql),
		slog.Duration("took", duration),
		slog.Int64("affected_rows", result.RowsAffected()),
	)
	return result, nil
}

func (db *DB) QueryWithLog(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error) {
	start := time.Now()
	rows, err := db.pool.Query(ctx, sql, args...)
	logger.LogQuery(sql, time.Since(start), err)
	return rows, err
}

// Ping verifies both database connections are working
func (db *DB) Ping(ctx context.Context) error {
	if err := db.pool.Ping(ctx); err != nil {
		return fmt.Errorf("pgxpool ping failed: %w", err)
	}
	if err := db.bunDB.PingContext(ctx); err != nil {
		return fmt.Errorf("bun ping failed: %w", err)
	}
	return nil
}

func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
	if db.bunDB != nil {
		db.bunDB.Close()
	}
}

// appTables lists tables in dependency order.
var appTables = []interface{}{
	(*models.User)(nil),
	(*models.Hobby)(nil),
	(*models.UserHobby)(nil),
	(*models.Book)(nil),
	(*models.Connection)(nil),
	(*models.TradeRequest)(nil),
}

var schemaStatements = []string{
	// foreign keys
	`DO $$ BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'user_hobbies_user_fk') THEN
			ALTER TABLE user_hobbies ADD CONSTRAINT user_hobbies_user_fk FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE;
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'user_hobbies_hobby_fk') THEN
			ALTER TABLE user_hobbies ADD CONSTRAINT user_hobbies_hobby_fk FOREIGN KEY (hobby_id) REFERENCES hobbies(id) ON DELETE CASCADE;
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'books_owner_fk') THEN
			ALTER TABLE books ADD CONSTRAINT books_owner_fk FOREIGN KEY (owner_id) REFERENCES users(id) ON DELETE CASCADE;
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'connections_user_fk') THEN
			ALTER TABLE connections ADD CONSTRAINT connections_user_fk FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE;
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'connections_connected_user_fk') THEN
			ALTER TABLE connections ADD CONSTRAINT connections_connected_user_fk FOREIGN KEY (connected_user_id) REFERENCES users(id) ON DELETE CASCADE;
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'trade_requests_requester_fk') THEN
			ALTER TABLE trade_requests ADD CONSTRAINT trade_requests_requester_fk FOREIGN KEY (requester_id) REFERENCES users(id) ON DELETE CASCADE;
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'trade_requests_owner_fk') THEN
			ALTER TABLE trade_requests ADD CONSTRAINT trade_requests_owner_fk FOREIGN KEY (owner_id) REFERENCES users(id) ON DELETE CASCADE;
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'trade_requests_book_fk') THEN
			ALTER TABLE trade_requests ADD CONSTRAINT trade_requests_book_fk FOREIGN KEY (book_id) REFERENCES books(id) ON DELETE CASCADE;
		END IF;
	END $$;`,
	// check constraints
	`DO $$ BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'books_status_check') THEN
			ALTER TABLE books ADD CONSTRAINT books_status_check CHECK (status IN ('Available for Trade', 'Not for Trade', 'Traded'));
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'connections_status_check') THEN
			ALTER TABLE connections ADD CONSTRAINT connections_status_check CHECK (status IN ('pending', 'accepted', 'rejected'));
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'connections_distinct_users') THEN
			ALTER TABLE connections ADD CONSTRAINT connections_distinct_users CHECK (user_id <> connected_user_id);
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'trade_requests_status_check') THEN
			ALTER TABLE trade_requests ADD CONSTRAINT trade_requests_status_check CHECK (status IN ('pending', 'accepted', 'rejected', 'cancelled'));
		END IF;
		IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'trade_requests_distinct_users') THEN
			ALTER TABLE trade_requests ADD CONSTRAINT trade_requests_distinct_users CHECK (requester_id <> owner_id);
		END IF;
	END $$;`,
	// one row per unordered pair
	"CREATE UNIQUE INDEX IF NOT EXISTS idx_connections_pair ON connections (LEAST(user_id, connected_user_id), GREATEST(user_id, connected_user_id));",
	// one pending request per (requester, book)
	"CREATE UNIQUE INDEX IF NOT EXISTS idx_trade_requests_pending_unique ON trade_requests(requester_id, book_id) WHERE status = 'pending';",
	"CREATE INDEX IF NOT EXISTS idx_connections_user_status ON connections(user_id, status);",
	"CREATE INDEX IF NOT EXISTS idx_connections_connected_status ON connections(connected_user_id, status);",
	"CREATE INDEX IF NOT EXISTS idx_trade_requests_owner_status ON trade_requests(owner_id, status);",
	"CREATE INDEX IF NOT EXISTS idx_trade_requests_requester_status ON trade_requests(requester_id, status);",
	"CREATE INDEX IF NOT EXISTS idx_trade_requests_book_pending ON trade_requests(book_id) WHERE status = 'pending';",
	"CREATE INDEX IF NOT EXISTS idx_books_owner ON books(owner_id);",
	"CREATE INDEX IF NOT EXISTS idx_user_hobbies_hobby ON user_hobbies(hobby_id);",
}

// InitializeSchema creates all required database tables, constraints and indexes.
// Every statement is idempotent.
func (db *DB) InitializeSchema(ctx context.Context) error {
	if err := db.ensureUTF8Encoding(ctx); err != nil {
		return fmt.Errorf("failed to ensure UTF-8 encoding: %w", err)
	}

	for _, model := range appTables {
		if _, err := db.bunDB.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	for _, stmt := range schemaStatements {
		if _, err := db.ExecWithLog(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}

	slog.Info("Database schema initialized",
		slog.String("type", "db"),
		slog.Int("tables", len(appTables)))
	return nil
}

// ResetAppTables truncates application tables for a fresh start.
func (db *DB) ResetAppTables(ctx context.Context) error {
	candidates := []string{"trade_requests", "connections", "books", "user_hobbies", "hobbies", "users"}

	rows, err := db.QueryWithLog(ctx, `SELECT table_name FROM information_schema.tables WHERE table_schema = 'public'`)
	if err != nil {
		return fmt.Errorf("failed to list tables: %w", err)
	}
	present := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err == nil {
			present[name] = true
		}
	}
	rows.Close()

	var toTruncate []string
	for _, t := range candidates {
		if present[t] {
			toTruncate = append(toTruncate, pgx.Identifier{t}.Sanitize())
		}
	}
	if len(toTruncate) == 0 {
		slog.Warn("No app tables found to reset", slog.String("type", "db"))
		return nil
	}

	stmt := "TRUNCATE TABLE " + strings.Join(toTruncate, ", ") + " RESTART IDENTITY CASCADE;"
	if _, err := db.ExecWithLog(ctx, stmt); err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}

	slog.Info("App tables truncated successfully", slog.String("type", "db"), slog.Any("tables", toTruncate))
	return nil
}

func (db *DB) ensureUTF8Encoding(ctx context.Context) error {
	var encoding string
	if err := db.pool.QueryRow(ctx, "SHOW server_encoding;").Scan(&encoding); err != nil {
		return fmt.Errorf("failed to check database encoding: %w", err)
	}
	if encoding != "UTF8" {
		slog.Warn("Database is not using UTF-8 encoding",
			slog.String("type", "db"),
			slog.String("current_encoding", encoding))
	}
	return nil
}
