package shortener

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sundayezeilo/toolbench/internal/errx"
)

// DBTX is the subset of *pgxpool.Pool the repository needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS links (
		id           UUID PRIMARY KEY,
		original_url TEXT NOT NULL,
		short_code   TEXT NOT NULL,
		short_url    TEXT NOT NULL,
		qr_code      TEXT NOT NULL DEFAULT '',
		clicks       BIGINT NOT NULL DEFAULT 0 CHECK (clicks >= 0),
		created_at   TIMESTAMPTZ NOT NULL,
		CONSTRAINT ` + shortCodeConstraint + ` UNIQUE (short_code)
	)`,
	`CREATE TABLE IF NOT EXISTS link_clicks (
		id         BIGSERIAL PRIMARY KEY,
		link_id    UUID NOT NULL REFERENCES links (id) ON DELETE CASCADE,
		clicked_at TIMESTAMPTZ NOT NULL,
		referrer   TEXT NOT NULL DEFAULT '',
		user_agent TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS link_clicks_link_id_idx ON link_clicks (link_id, clicked_at)`,
	`CREATE INDEX IF NOT EXISTS links_created_at_idx ON links (created_at DESC)`,
}

const linkColumns = `id, original_url, short_code, short_url, qr_code, clicks, created_at`

// PostgresRepository stores links in PostgreSQL with one row per click.
type PostgresRepository struct {
	db DBTX
}

// NewPostgresRepository creates a repository over db.
func NewPostgresRepository(db DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Migrate creates the tables when missing.
func (r *PostgresRepository) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := r.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate links schema: %w", err)
		}
	}
	return nil
}

func scanLink(row pgx.Row) (Link, error) {
	var l Link
	err := row.Scan(&l.ID, &l.OriginalURL, &l.ShortCode, &l.ShortURL, &l.QRCode, &l.Clicks, &l.CreatedAt)
	return l, err
}

func (r *PostgresRepository) Insert(ctx context.Context, link Link) (Link, error) {
	const op = "shortener.PostgresRepository.Insert"

	row := r.db.QueryRow(ctx,
		`INSERT INTO links (id, original_url, short_code, short_url, qr_code, clicks, created_at)
		 VALUES ($1, $2, $3, $4, $5, 0, $6)
		 RETURNING `+linkColumns,
		link.ID, link.OriginalURL, link.ShortCode, link.ShortURL, link.QRCode, link.CreatedAt,
	)
	created, err := scanLink(row)
	if err != nil {
		return Link{}, mapRepoError(op, err)
	}
	created.ClickHistory = []Click{}
	return created, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]Link, error) {
	const op = "shortener.PostgresRepository.List"

	rows, err := r.db.Query(ctx, `SELECT `+linkColumns+` FROM links ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, mapRepoError(op, err)
	}
	links, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Link, error) {
		return scanLink(row)
	})
	if err != nil {
		return nil, mapRepoError(op, err)
	}

	if len(links) == 0 {
		return []Link{}, nil
	}

	ids := make([]uuid.UUID, len(links))
	index := make(map[uuid.UUID]int, len(links))
	for i, l := range links {
		ids[i] = l.ID
		index[l.ID] = i
		links[i].ClickHistory = []Click{}
	}

	clickRows, err := r.db.Query(ctx,
		`SELECT link_id, clicked_at, referrer, user_agent FROM link_clicks
		 WHERE link_id = ANY($1) ORDER BY clicked_at, id`, ids)
	if err != nil {
		return nil, mapRepoError(op, err)
	}
	defer clickRows.Close()

	for clickRows.Next() {
		var (
			linkID uuid.UUID
			c      Click
		)
		if err := clickRows.Scan(&linkID, &c.Timestamp, &c.Referrer, &c.UserAgent); err != nil {
			return nil, mapRepoError(op, err)
		}
		i := index[linkID]
		links[i].ClickHistory = append(links[i].ClickHistory, c)
	}
	if err := clickRows.Err(); err != nil {
		return nil, mapRepoError(op, err)
	}

	return links, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (Link, error) {
	return r.getWhere(ctx, "shortener.PostgresRepository.Get", "id = $1", id)
}

func (r *PostgresRepository) GetByCode(ctx context.Context, code string) (Link, error) {
	return r.getWhere(ctx, "shortener.PostgresRepository.GetByCode", "short_code = $1", code)
}

func (r *PostgresRepository) getWhere(ctx context.Context, op, where string, arg any) (Link, error) {
	link, err := scanLink(r.db.QueryRow(ctx, `SELECT `+linkColumns+` FROM links WHERE `+where, arg))
	if err != nil {
		return Link{}, mapRepoError(op, err)
	}

	history, err := r.history(ctx, link.ID)
	if err != nil {
		return Link{}, mapRepoError(op, err)
	}
	link.ClickHistory = history
	return link, nil
}

func (r *PostgresRepository) history(ctx context.Context, id uuid.UUID) ([]Click, error) {
	rows, err := r.db.Query(ctx,
		`SELECT clicked_at, referrer, user_agent FROM link_clicks WHERE link_id = $1 ORDER BY clicked_at, id`, id)
	if err != nil {
		return nil, err
	}
	clicks, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Click, error) {
		var c Click
		err := row.Scan(&c.Timestamp, &c.Referrer, &c.UserAgent)
		return c, err
	})
	if err != nil {
		return nil, err
	}
	if clicks == nil {
		clicks = []Click{}
	}
	return clicks, nil
}

// RecordClick bumps the counter and stores the click in one transaction.
func (r *PostgresRepository) RecordClick(ctx context.Context, id uuid.UUID, click Click) (Link, error) {
	const op = "shortener.PostgresRepository.RecordClick"

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return Link{}, mapRepoError(op, err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	tag, err := tx.Exec(ctx, `UPDATE links SET clicks = clicks + 1 WHERE id = $1`, id)
	if err != nil {
		return Link{}, mapRepoError(op, err)
	}
	if tag.RowsAffected() == 0 {
		return Link{}, mapRepoError(op, pgx.ErrNoRows)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO link_clicks (link_id, clicked_at, referrer, user_agent) VALUES ($1, $2, $3, $4)`,
		id, click.Timestamp, click.Referrer, click.UserAgent,
	); err != nil {
		return Link{}, mapRepoError(op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return Link{}, mapRepoError(op, err)
	}

	return r.Get(ctx, id)
}

func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "shortener.PostgresRepository.Delete"

	tag, err := r.db.Exec(ctx, `DELETE FROM links WHERE id = $1`, id)
	if err != nil {
		return mapRepoError(op, err)
	}
	if tag.RowsAffected() == 0 {
		return errx.E(op, errx.NotFound, errors.New("link not found"))
	}
	return nil
}
