// internal/store/sqlite.go
//
// SQLite repository for durable records kept by the server.
// Responsibilities:
//   - Opening SQLite with safe defaults (WAL, busy timeout, foreign keys).
//   - Applying embedded migrations (idempotent, recorded in _migrations).
//   - Users, per-game rows with running stats, and daily challenge results.
//
// The game core never touches this; only the HTTP layer records outcomes here.

package store

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"
	"github.com/samber/oops"

	"github.com/robalobadob/wordle/apps/wordle-core/internal/game"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// ErrUsernameTaken is returned by CreateUser when the name exists (case-insensitive).
var ErrUsernameTaken = errors.New("username taken")

// Repo wraps the SQLite handle.
type Repo struct {
	db *sql.DB
}

/**
 * OpenSQLite opens (and creates if missing) a SQLite database file.
 *
 * - Ensures parent directory exists for relative DSNs (e.g. ./data/app.db).
 * - Configures busy timeout and WAL journaling mode.
 * - Enforces foreign keys on every pooled connection.
 */
func OpenSQLite(dsn string) (*Repo, error) {
	if dir := filepath.Dir(dsn); dir != "." && dir != "" && !strings.HasPrefix(dsn, "file:") {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, oops.With("dir", dir).Wrap(err)
		}
	}

	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	db, err := sql.Open("sqlite3", dsn+sep+"_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, oops.With("dsn", dsn).Wrap(err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, oops.With("dsn", dsn).Wrap(err)
	}
	return &Repo{db: db}, nil
}

func (r *Repo) Close() error { return r.db.Close() }

// DB exposes the handle for diagnostics and tests.
func (r *Repo) DB() *sql.DB { return r.db }

/**
 * Migrate applies the embedded migrations/*.sql files.
 *
 * - Uses a _migrations table to track applied files.
 * - Executes each file in lexical order inside its own transaction.
 * - Skips files already applied.
 */
func (r *Repo) Migrate(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return oops.With("step", "create _migrations").Wrap(err)
	}

	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return oops.Wrap(err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := r.db.QueryRowContext(ctx, `SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return oops.With("migration", f).Wrap(err)
		}

		body, err := migrationsFS.ReadFile(f)
		if err != nil {
			return oops.With("migration", f).Wrap(err)
		}

		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return oops.Wrap(err)
		}
		if _, err := tx.ExecContext(ctx, string(body)); err != nil {
			_ = tx.Rollback()
			return oops.With("migration", f).Wrapf(err, "apply")
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return oops.With("migration", f).Wrapf(err, "record")
		}
		if err := tx.Commit(); err != nil {
			return oops.With("migration", f).Wrapf(err, "commit")
		}
		log.Info().Str("migration", f).Msg("applied")
	}
	return nil
}

/* ------------------------------- Users ---------------------------------- */

// User matches the users table shape.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	GamesPlayed  int       `json:"gamesPlayed"`
	Wins         int       `json:"wins"`
	Streak       int       `json:"streak"`
}

// CreateUser inserts a new user. The hash must already be computed.
func (r *Repo) CreateUser(ctx context.Context, username, passwordHash string) (*User, error) {
	u := &User{
		ID:           RandomID(),
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		u.ID, u.Username, u.PasswordHash, u.CreatedAt.Format(time.RFC3339))
	if err != nil {
		var se sqlite3.Error
		if errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintUnique {
			return nil, oops.With("username", username).Wrap(ErrUsernameTaken)
		}
		return nil, oops.With("username", username).Wrap(err)
	}
	return u, nil
}

const userCols = `id, username, password_hash, created_at, games_played, wins, streak`

// UserByName looks a user up case-insensitively.
func (r *Repo) UserByName(ctx context.Context, username string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE username=?`, username)
	return scanUser(row, "username", username)
}

func (r *Repo) UserByID(ctx context.Context, id string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userCols+` FROM users WHERE id=?`, id)
	return scanUser(row, "user_id", id)
}

func scanUser(row *sql.Row, key, val string) (*User, error) {
	var u User
	var created string
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created, &u.GamesPlayed, &u.Wins, &u.Streak)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, oops.With(key, val).Wrap(ErrNotFound)
	}
	if err != nil {
		return nil, oops.With(key, val).Wrap(err)
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return &u, nil
}

/* ------------------------------- Games ---------------------------------- */

// GameRecord is one row of the games table. The secret is never stored.
type GameRecord struct {
	ID         string     `json:"id"`
	UserID     string     `json:"-"`
	AnonID     string     `json:"-"`
	Mode       Mode       `json:"mode"`
	Status     game.State `json:"status"`
	Guesses    int        `json:"guesses"`
	StartedAt  time.Time  `json:"startedAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

// RecordSession inserts the owner row for a freshly started session.
func (r *Repo) RecordSession(ctx context.Context, s *Session) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO games (id, user_id, anonymous_id, mode, started_at, status, guesses)
		 VALUES (?,?,?,?,?,?,0)`,
		s.ID, nullable(s.UserID), nullable(s.AnonID), string(s.Mode),
		s.StartedAt.UTC().Format(time.RFC3339), string(game.StatePlaying))
	if err != nil {
		return oops.With("game_id", s.ID).Wrap(err)
	}
	return nil
}

/**
 * RecordGuess bumps the guess counter of a game and, once the game is over,
 * stamps its final status and updates the owner's stats, all in one transaction.
 *
 * - Wins increment wins and streak; losses reset the streak.
 * - Stats are only kept for signed-in users (userID != "").
 */
func (r *Repo) RecordGuess(ctx context.Context, gameID string, state game.State, userID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return oops.Wrap(err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `UPDATE games SET guesses = guesses + 1 WHERE id=?`, gameID)
	if err != nil {
		return oops.With("game_id", gameID).Wrap(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return oops.With("game_id", gameID).Wrap(ErrNotFound)
	}

	if state != game.StatePlaying {
		if _, err := tx.ExecContext(ctx, `UPDATE games SET status=?, finished_at=? WHERE id=?`,
			string(state), time.Now().UTC().Format(time.RFC3339), gameID); err != nil {
			return oops.With("game_id", gameID).Wrap(err)
		}
		if userID != "" {
			if err := bumpStats(ctx, tx, userID, state == game.StateWon); err != nil {
				return err
			}
		}
	}
	return oops.Wrap(tx.Commit())
}

func bumpStats(ctx context.Context, tx *sql.Tx, userID string, won bool) error {
	q := `UPDATE users SET games_played = games_played + 1, streak = 0 WHERE id=?`
	if won {
		q = `UPDATE users SET games_played = games_played + 1, wins = wins + 1, streak = streak + 1 WHERE id=?`
	}
	if _, err := tx.ExecContext(ctx, q, userID); err != nil {
		return oops.With("user_id", userID).Wrap(err)
	}
	return nil
}

// ClaimAnonGames transfers guest games to a user account after sign-in.
func (r *Repo) ClaimAnonGames(ctx context.Context, anonID, userID string) (int64, error) {
	if anonID == "" || userID == "" {
		return 0, nil
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE games SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID)
	if err != nil {
		return 0, oops.With("anon_id", anonID, "user_id", userID).Wrap(err)
	}
	return res.RowsAffected()
}

// RecentGames lists a user's games, newest first. Default limit is 50.
func (r *Repo) RecentGames(ctx context.Context, userID string, limit int) ([]GameRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, mode, status, guesses, started_at, COALESCE(finished_at, '')
		 FROM games WHERE user_id=? ORDER BY started_at DESC, rowid DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, oops.With("user_id", userID).Wrap(err)
	}
	defer rows.Close()

	out := []GameRecord{}
	for rows.Next() {
		var (
			g                 GameRecord
			mode, status      string
			started, finished string
		)
		if err := rows.Scan(&g.ID, &mode, &status, &g.Guesses, &started, &finished); err != nil {
			return nil, oops.Wrap(err)
		}
		g.UserID = userID
		g.Mode, g.Status = Mode(mode), game.State(status)
		g.StartedAt, _ = time.Parse(time.RFC3339, started)
		if finished != "" {
			if t, err := time.Parse(time.RFC3339, finished); err == nil {
				g.FinishedAt = &t
			}
		}
		out = append(out, g)
	}
	return out, oops.Wrap(rows.Err())
}

/* ----------------------- Daily Challenge helpers ------------------------ */

// DailyResult represents a single player's win of the daily challenge.
type DailyResult struct {
	UserID    string `json:"userId"`
	Date      string `json:"date"`
	WordIndex int    `json:"wordIndex"`
	Guesses   int    `json:"guesses"`
	ElapsedMs int    `json:"elapsedMs"`
}

// LeaderboardRow is returned for leaderboard queries.
type LeaderboardRow struct {
	UserID    string `json:"userId"`
	Guesses   int    `json:"guesses"`
	ElapsedMs int    `json:"elapsedMs"`
}

// DailyPlayed reports whether owner already has a result for date.
func (r *Repo) DailyPlayed(ctx context.Context, owner, date string) (bool, error) {
	var cnt int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM daily_results WHERE user_id=? AND date=?`, owner, date,
	).Scan(&cnt); err != nil {
		return false, oops.With("owner", owner, "date", date).Wrap(err)
	}
	return cnt > 0, nil
}

// InsertDaily stores a result; a second result for the same owner and date is ignored.
func (r *Repo) InsertDaily(ctx context.Context, d DailyResult) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results (user_id, date, word_index, guesses, elapsed_ms)
		 VALUES (?, ?, ?, ?, ?)`,
		d.UserID, d.Date, d.WordIndex, d.Guesses, d.ElapsedMs)
	if err != nil {
		return oops.With("owner", d.UserID, "date", d.Date).Wrap(err)
	}
	return nil
}

/**
 * Leaderboard fetches the top players for a given date.
 *
 * - Ordered by elapsed time ASC, then guesses ASC, then created_at ASC.
 * - Default limit is 20 if not specified.
 */
func (r *Repo) Leaderboard(ctx context.Context, date string, limit int) ([]LeaderboardRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, guesses, elapsed_ms
		 FROM daily_results
		 WHERE date=?
		 ORDER BY elapsed_ms ASC, guesses ASC, created_at ASC
		 LIMIT ?`, date, limit)
	if err != nil {
		return nil, oops.With("date", date).Wrap(err)
	}
	defer rows.Close()

	out := make([]LeaderboardRow, 0, limit)
	for rows.Next() {
		var lb LeaderboardRow
		if err := rows.Scan(&lb.UserID, &lb.Guesses, &lb.ElapsedMs); err != nil {
			return nil, oops.Wrap(err)
		}
		out = append(out, lb)
	}
	return out, oops.Wrap(rows.Err())
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
