package repository

import (
	"context"
	"errors"
	"time"

	"signals-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresExecutionRepository stores exchange credentials and execution
// settings in Postgres. SecretKey is encrypted at rest using AES-GCM with a
// 32-byte key.
type PostgresExecutionRepository struct {
	pool       *pgxpool.Pool
	encryptKey []byte
}

func NewPostgresExecutionRepository(pool *pgxpool.Pool, encryptionKey string) *PostgresExecutionRepository {
	return &PostgresExecutionRepository{pool: pool, encryptKey: normalizeKey(encryptionKey)}
}

func (r *PostgresExecutionRepository) SaveCredentials(cred *domain.ExecutionCredentials) error {
	if cred == nil {
		return errors.New("nil credentials")
	}

	encryptedSecret, err := encryptSecret(r.encryptKey, cred.SecretKey)
	if err != nil {
		return err
	}

	now := time.Now()
	createdAt := cred.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	_, err = r.pool.Exec(context.Background(), `
		insert into execution_credentials(
			user_id, api_key, secret_key_enc, is_testnet, created_at, updated_at
		) values ($1,$2,$3,$4,$5,$6)
		on conflict (user_id) do update set
			api_key = excluded.api_key,
			secret_key_enc = excluded.secret_key_enc,
			is_testnet = excluded.is_testnet,
			updated_at = excluded.updated_at
	`,
		cred.UserID,
		cred.APIKey,
		encryptedSecret,
		cred.IsTestnet,
		createdAt,
		now,
	)
	return err
}

func (r *PostgresExecutionRepository) GetCredentials(userID string) (*domain.ExecutionCredentials, error) {
	row := r.pool.QueryRow(context.Background(), `
		select user_id, api_key, secret_key_enc, is_testnet, created_at, updated_at
		from execution_credentials
		where user_id = $1
	`, userID)

	var cred domain.ExecutionCredentials
	var secretEnc string

	if err := row.Scan(
		&cred.UserID,
		&cred.APIKey,
		&secretEnc,
		&cred.IsTestnet,
		&cred.CreatedAt,
		&cred.UpdatedAt,
	); err != nil {
		return nil, errors.New("credentials not found")
	}

	secret, err := decryptSecret(r.encryptKey, secretEnc)
	if err != nil {
		return nil, err
	}
	cred.SecretKey = secret
	return &cred, nil
}

func (r *PostgresExecutionRepository) DeleteCredentials(userID string) error {
	_, err := r.pool.Exec(context.Background(), `delete from execution_credentials where user_id = $1`, userID)
	return err
}

func (r *PostgresExecutionRepository) SaveSettings(settings *domain.ExecutionSettings) error {
	if settings == nil {
		return errors.New("nil settings")
	}

	_, err := r.pool.Exec(context.Background(), `
		insert into execution_settings(
			user_id, enable_real_trading, leverage, risk_percent,
			max_open_intents, max_daily_trades, updated_at
		) values ($1,$2,$3,$4,$5,$6, now())
		on conflict (user_id) do update set
			enable_real_trading = excluded.enable_real_trading,
			leverage = excluded.leverage,
			risk_percent = excluded.risk_percent,
			max_open_intents = excluded.max_open_intents,
			max_daily_trades = excluded.max_daily_trades,
			updated_at = now()
	`,
		settings.UserID,
		settings.EnableRealTrading,
		settings.Leverage,
		settings.RiskPercent,
		settings.MaxOpenIntents,
		settings.MaxDailyTrades,
	)
	return err
}

func (r *PostgresExecutionRepository) GetSettings(userID string) (*domain.ExecutionSettings, error) {
	row := r.pool.QueryRow(context.Background(), `
		select user_id, enable_real_trading, leverage, risk_percent,
			max_open_intents, max_daily_trades
		from execution_settings
		where user_id = $1
	`, userID)

	settings := &domain.ExecutionSettings{}
	if err := row.Scan(
		&settings.UserID,
		&settings.EnableRealTrading,
		&settings.Leverage,
		&settings.RiskPercent,
		&settings.MaxOpenIntents,
		&settings.MaxDailyTrades,
	); err != nil {
		// fall back to the same defaults as the in-memory repo
		return defaultExecutionSettings(userID), nil
	}

	return settings, nil
}

var _ domain.ExecutionStore = (*PostgresExecutionRepository)(nil)
