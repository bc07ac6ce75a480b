package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"signals-backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresIntentRepository stores trade intents in Postgres.
type PostgresIntentRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresIntentRepository(pool *pgxpool.Pool) *PostgresIntentRepository {
	return &PostgresIntentRepository{pool: pool}
}

func (r *PostgresIntentRepository) Create(intent *domain.TradeIntent) error {
	if intent == nil {
		return errors.New("nil intent")
	}

	_, err := r.pool.Exec(context.Background(), `
		insert into trade_intents(
			id, symbol, direction, entry_price, stop_loss, take_profit,
			risk_percent, source, pattern, created_at, status,
			exit_price, exit_time, exit_reason
		) values ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`,
		intent.ID,
		intent.Symbol,
		string(intent.Direction),
		intent.EntryPrice,
		intent.StopLoss,
		intent.TakeProfit,
		intent.RiskPercent,
		intent.Source,
		intent.Pattern,
		intent.CreatedAt,
		intent.Status,
		intent.ExitPrice,
		intent.ExitTime,
		intent.ExitReason,
	)
	return err
}

func (r *PostgresIntentRepository) GetActive() []*domain.TradeIntent {
	rows, err := r.pool.Query(context.Background(), selectIntents+`
		where status = 'ACTIVE'
		order by created_at desc
	`)
	if err != nil {
		log.Printf("Error querying active intents: %v", err)
		return nil
	}
	defer rows.Close()

	return scanIntents(rows)
}

func (r *PostgresIntentRepository) GetByID(id string) (*domain.TradeIntent, error) {
	rows, err := r.pool.Query(context.Background(), selectIntents+`
		where id = $1
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	intents := scanIntents(rows)
	if len(intents) == 0 {
		return nil, errors.New("intent not found")
	}
	return intents[0], nil
}

func (r *PostgresIntentRepository) Update(intent *domain.TradeIntent) error {
	if intent == nil {
		return errors.New("nil intent")
	}

	tag, err := r.pool.Exec(context.Background(), `
		update trade_intents set
			status = $2,
			exit_price = $3,
			exit_time = $4,
			exit_reason = $5
		where id = $1
	`,
		intent.ID,
		intent.Status,
		intent.ExitPrice,
		intent.ExitTime,
		intent.ExitReason,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errors.New("intent not found")
	}
	return nil
}

func (r *PostgresIntentRepository) GetHistory(fromTime time.Time) []*domain.TradeIntent {
	rows, err := r.pool.Query(context.Background(), selectIntents+`
		where created_at >= $1
		order by created_at desc
	`, fromTime)
	if err != nil {
		log.Printf("Error querying intent history: %v", err)
		return nil
	}
	defer rows.Close()

	return scanIntents(rows)
}

func (r *PostgresIntentRepository) Delete(id string) error {
	_, err := r.pool.Exec(context.Background(), `delete from trade_intents where id = $1`, id)
	return err
}

const selectIntents = `
	select id, symbol, direction, entry_price, stop_loss, take_profit,
		risk_percent, source, pattern, created_at, status,
		exit_price, exit_time, exit_reason
	from trade_intents
`

type intentRows interface {
	Next() bool
	Scan(dest ...any) error
}

func scanIntents(rows intentRows) []*domain.TradeIntent {
	var out []*domain.TradeIntent
	for rows.Next() {
		var intent domain.TradeIntent
		var direction string
		var exitReason *string

		if err := rows.Scan(
			&intent.ID,
			&intent.Symbol,
			&direction,
			&intent.EntryPrice,
			&intent.StopLoss,
			&intent.TakeProfit,
			&intent.RiskPercent,
			&intent.Source,
			&intent.Pattern,
			&intent.CreatedAt,
			&intent.Status,
			&intent.ExitPrice,
			&intent.ExitTime,
			&exitReason,
		); err != nil {
			log.Printf("Error scanning intent row: %v", err)
			continue
		}

		intent.Direction = domain.Direction(direction)
		if exitReason != nil {
			intent.ExitReason = *exitReason
		}
		out = append(out, &intent)
	}
	return out
}

var _ domain.TradeIntentRepository = (*PostgresIntentRepository)(nil)
