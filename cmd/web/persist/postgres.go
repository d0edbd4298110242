package persist

import (
	"context"
	"database/sql"
	"io"
	"time"

	"github.com/Dynom/mxprobe/validator"
	"github.com/sirupsen/logrus"
)

const schema = `
	CREATE TABLE IF NOT EXISTS probe_results (
		domain      TEXT        NOT NULL,
		recipient   BYTEA       NOT NULL,
		valid       BOOLEAN     NOT NULL,
		kind        TEXT        NOT NULL,
		code        INTEGER     NOT NULL DEFAULT 0,
		mx_host     TEXT        NOT NULL DEFAULT '',
		checked_at  TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (domain, recipient)
	)`

// NewPostgres creates a Persister on db, the driver is expected to be github.com/lib/pq
func NewPostgres(db *sql.DB, logger logrus.FieldLogger) *Postgres {
	return &Postgres{
		db:     db,
		logger: logger,
	}
}

type Postgres struct {
	db     *sql.DB
	logger logrus.FieldLogger
}

// EnsureSchema creates the table, when it doesn't exist yet
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if err := p.db.PingContext(ctx); err != nil {
		return err
	}

	_, err := p.db.ExecContext(ctx, schema)
	return err
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

func (p *Postgres) Store(ctx context.Context, r Record) error {
	_, err := p.db.ExecContext(ctx, `
		INSERT INTO
			probe_results (domain, recipient, valid, kind, code, mx_host, checked_at)
		VALUES
			($1, $2::bytea, $3, $4, $5, $6, $7)
		ON CONFLICT (domain, recipient) DO UPDATE
		SET
			valid = EXCLUDED.valid,
			kind = EXCLUDED.kind,
			code = EXCLUDED.code,
			mx_host = EXCLUDED.mx_host,
			checked_at = EXCLUDED.checked_at`,
		r.Domain, r.Recipient, r.Valid, r.Kind.String(), r.Code, r.MXHost, r.CheckedAt.UTC(),
	)

	return err
}

func (p *Postgres) Range(ctx context.Context, cb RangeCallbackFn) error {
	rows, err := p.db.QueryContext(ctx, `
		SELECT
			domain,
			recipient::bytea,
			valid,
			kind,
			code,
			mx_host,
			checked_at
		FROM
			probe_results
	`)

	if err != nil {
		return err
	}

	defer deferClose(rows, p.logger)

	for rows.Next() {
		var row resultRow

		if err := rows.Scan(&row.Domain, &row.Recipient, &row.Valid, &row.Kind, &row.Code, &row.MXHost, &row.CheckedAt); err != nil {
			p.logger.WithError(err).Warn("Error scanning field")
			continue
		}

		if err := cb(rowToRecord(row)); err != nil {
			return err
		}
	}

	return rows.Err()
}

type resultRow struct {
	Domain    string    `sql:"domain"`
	Recipient []byte    `sql:"recipient"`
	Valid     bool      `sql:"valid"`
	Kind      string    `sql:"kind"`
	Code      int       `sql:"code"`
	MXHost    string    `sql:"mx_host"`
	CheckedAt time.Time `sql:"checked_at"`
}

func rowToRecord(row resultRow) Record {
	return Record{
		Domain:    row.Domain,
		Recipient: row.Recipient,
		Valid:     row.Valid,
		Kind:      validator.ParseErrorKind(row.Kind),
		Code:      row.Code,
		MXHost:    row.MXHost,
		CheckedAt: row.CheckedAt,
	}
}

func deferClose(toClose io.Closer, log logrus.FieldLogger) {
	if toClose == nil {
		return
	}

	if err := toClose.Close(); err != nil {
		log.WithError(err).Error("Failed to close handle")
	}
}
