package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"m3u-parser/internal/logging"
	"m3u-parser/internal/metrics"
	"m3u-parser/internal/playlist"
)

// SavePlaylist stores a parsed playlist with its entries and parse errors
// and returns the new summary row.
func (d *Database) SavePlaylist(ctx context.Context, name, source string, entries []*playlist.Entry, parseErrs []playlist.ParseError) (*Playlist, error) {
	p := &Playlist{
		ID:         uuid.NewString(),
		Name:       name,
		Source:     source,
		CreatedAt:  time.Now().UTC().Truncate(time.Second),
		EntryCount: len(entries),
		ErrorCount: len(parseErrs),
	}

	if err := d.insertPlaylist(ctx, p, entries, parseErrs); err != nil {
		return nil, err
	}

	if err := d.setLastImport(ctx, p.CreatedAt); err != nil {
		logging.Warn("Failed to record last import time: %v", err)
	}

	logging.Debug("Stored playlist %s (%q): %d entries, %d parse errors", p.ID, p.Name, p.EntryCount, p.ErrorCount)
	return p, nil
}

func (d *Database) insertPlaylist(ctx context.Context, p *Playlist, entries []*playlist.Entry, parseErrs []playlist.ParseError) (err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	start := time.Now()
	tx, err := d.db.BeginTx(ctx, nil)
	recordQuery("begin_transaction", start, err)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { err = endTx(tx, err) }()

	start = time.Now()
	_, err = tx.ExecContext(ctx, `
		INSERT INTO playlists (id, name, source, created_at, entry_count, error_count)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Source, p.CreatedAt.Unix(), p.EntryCount, p.ErrorCount)
	recordQuery("insert_playlist", start, err)
	if err != nil {
		return fmt.Errorf("insert playlist: %w", err)
	}

	if err = insertEntries(ctx, tx, p.ID, entries); err != nil {
		return err
	}
	return insertParseErrors(ctx, tx, p.ID, parseErrs)
}

func insertEntries(ctx context.Context, tx *sql.Tx, id string, entries []*playlist.Entry) (err error) {
	start := time.Now()
	defer func() { recordQuery("insert_entries", start, err) }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries (playlist_id, position, line, media, title, duration, grp, directives)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare entry insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		var duration sql.NullFloat64
		if inf, ok := e.ExtInf(); ok {
			duration = sql.NullFloat64{Float64: inf.Duration, Valid: true}
		}
		if _, err = stmt.ExecContext(ctx, id, i, e.Line, e.Path, e.Title(), duration, e.Group(), encodeDirectives(e)); err != nil {
			return fmt.Errorf("insert entry %d: %w", i, err)
		}
	}
	return nil
}

func insertParseErrors(ctx context.Context, tx *sql.Tx, id string, parseErrs []playlist.ParseError) (err error) {
	if len(parseErrs) == 0 {
		return nil
	}

	start := time.Now()
	defer func() { recordQuery("insert_parse_errors", start, err) }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO parse_errors (playlist_id, line, tag, message) VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare parse error insert: %w", err)
	}
	defer stmt.Close()

	for _, pe := range parseErrs {
		if _, err = stmt.ExecContext(ctx, id, pe.Line, pe.Tag, pe.Message); err != nil {
			return fmt.Errorf("insert parse error for line %d: %w", pe.Line, err)
		}
	}
	return nil
}

// ListPlaylists returns all playlists, newest first.
func (d *Database) ListPlaylists(ctx context.Context) ([]Playlist, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("list_playlists", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := d.db.QueryContext(ctx, `
		SELECT id, name, source, created_at, entry_count, error_count
		FROM playlists
		ORDER BY created_at DESC, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	playlists := []Playlist{}
	for rows.Next() {
		var p Playlist
		var created int64
		if err = rows.Scan(&p.ID, &p.Name, &p.Source, &created, &p.EntryCount, &p.ErrorCount); err != nil {
			return nil, err
		}
		p.CreatedAt = time.Unix(created, 0).UTC()
		playlists = append(playlists, p)
	}
	err = rows.Err()
	return playlists, err
}

// GetPlaylist returns the summary row for id, or ErrNotFound.
func (d *Database) GetPlaylist(ctx context.Context, id string) (*Playlist, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("get_playlist", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var p Playlist
	var created int64
	err = d.db.QueryRowContext(ctx, `
		SELECT id, name, source, created_at, entry_count, error_count
		FROM playlists WHERE id = ?
	`, id).Scan(&p.ID, &p.Name, &p.Source, &created, &p.EntryCount, &p.ErrorCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	p.CreatedAt = time.Unix(created, 0).UTC()
	return &p, nil
}

// GetEntries returns a page of the entries of playlist id. A zero Limit
// returns every matching entry.
func (d *Database) GetEntries(ctx context.Context, id string, q EntryQuery) (*EntryPage, error) {
	if _, err := d.GetPlaylist(ctx, id); err != nil {
		return nil, err
	}

	start := time.Now()
	var err error
	defer func() { recordQuery("get_entries", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	where := "playlist_id = ?"
	args := []interface{}{id}
	if q.Search != "" {
		pattern := "%" + escapeLike(q.Search) + "%"
		where += ` AND (title LIKE ? ESCAPE '\' OR media LIKE ? ESCAPE '\')`
		args = append(args, pattern, pattern)
	}

	page := &EntryPage{Limit: q.Limit, Offset: q.Offset, Entries: []*playlist.Entry{}}
	if err = d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries WHERE "+where, args...).Scan(&page.Total); err != nil {
		return nil, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = -1
	}
	offset := q.Offset
	if offset < 0 {
		offset = 0
	}

	rows, err := d.db.QueryContext(ctx,
		"SELECT line, media, directives FROM entries WHERE "+where+" ORDER BY position LIMIT ? OFFSET ?",
		append(args, limit, offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line int
		var media, directives string
		if err = rows.Scan(&line, &media, &directives); err != nil {
			return nil, err
		}
		page.Entries = append(page.Entries, d.decodeEntry(directives, media, line))
	}
	err = rows.Err()
	return page, err
}

// GetParseErrors returns the parse errors recorded for playlist id, in line
// order.
func (d *Database) GetParseErrors(ctx context.Context, id string) ([]playlist.ParseError, error) {
	if _, err := d.GetPlaylist(ctx, id); err != nil {
		return nil, err
	}

	start := time.Now()
	var err error
	defer func() { recordQuery("get_parse_errors", start, err) }()

	d.mu.RLock()
	defer d.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := d.db.QueryContext(ctx, `
		SELECT line, tag, message FROM parse_errors
		WHERE playlist_id = ?
		ORDER BY line
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	parseErrs := []playlist.ParseError{}
	for rows.Next() {
		var pe playlist.ParseError
		if err = rows.Scan(&pe.Line, &pe.Tag, &pe.Message); err != nil {
			return nil, err
		}
		parseErrs = append(parseErrs, pe)
	}
	err = rows.Err()
	return parseErrs, err
}

// DeletePlaylist removes playlist id with its entries and parse errors.
func (d *Database) DeletePlaylist(ctx context.Context, id string) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("delete_playlist", start, err) }()

	d.mu.Lock()
	defer d.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	result, err := d.db.ExecContext(ctx, "DELETE FROM playlists WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CatalogStats counts catalog contents.
func (d *Database) CatalogStats(ctx context.Context) (*CatalogStats, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("stats", start, err) }()

	d.mu.RLock()
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var stats CatalogStats
	err = d.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM playlists),
			(SELECT COUNT(*) FROM entries),
			(SELECT COUNT(*) FROM parse_errors)
	`).Scan(&stats.Playlists, &stats.Entries, &stats.ParseErrors)
	d.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	last, lastErr := d.GetLastImport(ctx)
	if lastErr != nil {
		logging.Warn("Failed to read last import time: %v", lastErr)
	}
	stats.LastImport = last
	return &stats, nil
}

// GetStats implements metrics.StatsProvider.
func (d *Database) GetStats() metrics.Stats {
	stats, err := d.CatalogStats(context.Background())
	if err != nil {
		logging.Warn("Failed to collect catalog stats: %v", err)
		return metrics.Stats{}
	}
	return metrics.Stats{
		TotalPlaylists:   stats.Playlists,
		TotalEntries:     stats.Entries,
		TotalParseErrors: stats.ParseErrors,
	}
}

// encodeDirectives joins the canonical lines of the entry's directives.
func encodeDirectives(e *playlist.Entry) string {
	lines := make([]string, len(e.Tags))
	for i, tag := range e.Tags {
		lines[i] = tag.String()
	}
	return strings.Join(lines, "\n")
}

// decodeEntry rebuilds an entry by parsing its stored directives followed by
// the media reference.
func (d *Database) decodeEntry(directives, media string, line int) *playlist.Entry {
	var b strings.Builder
	if directives != "" {
		b.WriteString(directives)
		b.WriteByte('\n')
	}
	b.WriteString(media)
	b.WriteByte('\n')

	stream := d.parser.ParseString(b.String())
	if !stream.Next() {
		return &playlist.Entry{Path: media, Line: line}
	}
	e := stream.Entry()
	if errs := stream.Errors(); len(errs) > 0 {
		logging.Warn("Stored directive no longer parses for %s: %s", media, errs[0].Message)
	}
	e.Line = line
	return e
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
