package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migrate creates the minimal tables needed by this app.
// This keeps setup simple (no external migration tool), but still gives persistence.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	stmts := []string{
		`create table if not exists trade_intents (
			id text primary key,
			symbol text not null,
			direction text not null,
			entry_price double precision not null,
			stop_loss double precision not null,
			take_profit double precision not null,
			risk_percent double precision not null default 1,
			source text not null,
			pattern text not null default '',
			created_at timestamptz not null,
			status text not null,
			exit_price double precision null,
			exit_time timestamptz null,
			exit_reason text not null default ''
		);`,
		`create index if not exists trade_intents_status_idx on trade_intents(status);`,
		`create index if not exists trade_intents_symbol_created_idx on trade_intents(symbol, created_at desc);`,
		`create table if not exists execution_credentials (
			user_id text primary key,
			api_key text not null,
			secret_key_enc text not null,
			is_testnet boolean not null default false,
			created_at timestamptz not null default now(),
			updated_at timestamptz not null default now()
		);`,
		`create table if not exists execution_settings (
			user_id text primary key,
			enable_real_trading boolean not null default false,
			leverage int not null default 1,
			risk_percent double precision not null default 1,
			max_open_intents int not null default 5,
			max_daily_trades int not null default 10,
			updated_at timestamptz not null default now()
		);`,
	}

	for _, stmt := range stmts {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
