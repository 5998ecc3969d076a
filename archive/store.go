package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/szqjl/guandan-score/archive/migrations"
	"github.com/szqjl/guandan-score/game"
	"github.com/szqjl/guandan-score/meta"
	"github.com/szqjl/guandan-score/snapshot"
	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("archived game not found")

// Record is one finished game as stored in the archive.
type Record struct {
	ID         string
	FinishedAt time.Time
	RuleMode   string
	MaxRounds  int
	Rounds     int
	Winner     game.Winner
	Reason     game.EndReason
	Level      [2]string
	Snapshot   []byte
}

// Session decodes the stored snapshot.
func (r Record) Session() (*game.Session, error) {
	return snapshot.Unmarshal(r.Snapshot)
}

// Store keeps the most recent finished games in SQLite. Older games are
// dropped once the limit is exceeded.
type Store struct {
	sqlDB *sql.DB
	limit int
	now   func() time.Time
}

// Open opens the archive at path, creating and migrating it if needed. A limit
// below one uses the default.
func Open(path string, limit int) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("archive path is required")
	}
	if limit < 1 {
		limit = meta.ARCHIVE_LIMIT
	}
	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := applyMigrations(context.Background(), sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB, limit: limit, now: time.Now}, nil
}

func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// Save stores an ended session and trims the archive to its limit.
func (s *Store) Save(ctx context.Context, session *game.Session) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}
	if session == nil || !session.Ended {
		return Record{}, fmt.Errorf("only ended sessions can be archived")
	}
	data, err := snapshot.Marshal(session)
	if err != nil {
		return Record{}, err
	}
	rec := Record{
		ID:         uuid.NewString(),
		FinishedAt: s.now().UTC().Truncate(time.Millisecond),
		RuleMode:   session.Rules.Mode.String(),
		MaxRounds:  session.Rules.MaxRounds,
		Rounds:     session.Rounds(),
		Winner:     session.Winner,
		Reason:     session.Reason,
		Level:      [2]string{session.Text(game.TeamA), session.Text(game.TeamB)},
		Snapshot:   data,
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return Record{}, fmt.Errorf("begin save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO games (id, finished_at, rule_mode, max_rounds, rounds, winner, end_reason, level_a, level_b, snapshot)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.FinishedAt.UnixMilli(), rec.RuleMode, rec.MaxRounds, rec.Rounds,
		string(rec.Winner), string(rec.Reason), rec.Level[game.TeamA], rec.Level[game.TeamB], string(rec.Snapshot),
	); err != nil {
		return Record{}, fmt.Errorf("insert game: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
DELETE FROM games WHERE seq NOT IN (SELECT seq FROM games ORDER BY seq DESC LIMIT ?)`, s.limit); err != nil {
		return Record{}, fmt.Errorf("trim archive: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return Record{}, fmt.Errorf("commit save: %w", err)
	}
	return rec, nil
}

// Archive saves a finished session; it lets the store serve as an engine archiver.
func (s *Store) Archive(session *game.Session) error {
	_, err := s.Save(context.Background(), session)
	return err
}

const selectColumns = `SELECT id, finished_at, rule_mode, max_rounds, rounds, winner, end_reason, level_a, level_b, snapshot FROM games`

// List returns archived games, newest first.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.sqlDB.QueryContext(ctx, selectColumns+` ORDER BY seq DESC`)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	rec, err := scanRecord(s.sqlDB.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, err
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.sqlDB.ExecContext(ctx, `DELETE FROM games WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete game: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Clear removes every archived game.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.sqlDB.ExecContext(ctx, `DELETE FROM games`); err != nil {
		return fmt.Errorf("clear archive: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (Record, error) {
	var (
		rec            Record
		finishedAt     int64
		winner, reason string
		data           string
	)
	if err := row.Scan(&rec.ID, &finishedAt, &rec.RuleMode, &rec.MaxRounds, &rec.Rounds,
		&winner, &reason, &rec.Level[game.TeamA], &rec.Level[game.TeamB], &data); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Record{}, err
		}
		return Record{}, fmt.Errorf("scan game: %w", err)
	}
	rec.FinishedAt = time.UnixMilli(finishedAt).UTC()
	rec.Winner = game.Winner(winner)
	rec.Reason = game.EndReason(reason)
	rec.Snapshot = []byte(data)
	return rec, nil
}
