package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"m3u-parser/internal/playlist"
)

const samplePlaylist = `#EXTM3U
#EXTINF:-1 tvg-id="one.uk" group-title="News",News One
#EXTVLCOPT:http-user-agent=Mozilla
http://example.test/one.ts
#EXTINF:120,Song Two
#EXTGRP:Music
http://example.test/two.mp3
#EXTINF:oops
#KODIPROP:inputstream.adaptive.license_type=com.widevine.alpha
http://example.test/three.mpd
`

// setupTestDB creates a new database in a temp dir.
// The database is closed when the test completes.
func setupTestDB(t *testing.T) *Database {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "playlists.db")
	db, err := New(context.Background(), dbPath, nil)
	require.NoError(t, err, "Failed to create test database")
	t.Cleanup(func() { db.Close() })
	return db
}

func parseSample(t *testing.T) ([]*playlist.Entry, []playlist.ParseError) {
	t.Helper()
	reg := playlist.NewRegistry()
	playlist.RegisterDefaults(reg)
	stream := playlist.NewParser(reg).ParseString(samplePlaylist)
	entries, err := stream.Collect()
	require.NoError(t, err)
	return entries, stream.Errors()
}

func savedSample(t *testing.T, db *Database) *Playlist {
	t.Helper()
	entries, parseErrs := parseSample(t)
	p, err := db.SavePlaylist(context.Background(), "Sample", "http://example.test/list.m3u", entries, parseErrs)
	require.NoError(t, err)
	return p
}

func TestSavePlaylist(t *testing.T) {
	db := setupTestDB(t)
	p := savedSample(t, db)

	require.NotEmpty(t, p.ID)
	require.Equal(t, "Sample", p.Name)
	require.Equal(t, 3, p.EntryCount)
	require.Equal(t, 1, p.ErrorCount)
	require.WithinDuration(t, time.Now(), p.CreatedAt, 5*time.Second)

	found, err := db.GetPlaylist(context.Background(), p.ID)
	require.NoError(t, err)
	require.Equal(t, p.ID, found.ID)
	require.Equal(t, p.Source, found.Source)
	require.Equal(t, p.CreatedAt.Unix(), found.CreatedAt.Unix())
}

func TestSavePlaylistAssignsDistinctIDs(t *testing.T) {
	db := setupTestDB(t)
	a := savedSample(t, db)
	b := savedSample(t, db)
	require.NotEqual(t, a.ID, b.ID)

	list, err := db.ListPlaylists(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestGetEntriesRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	p := savedSample(t, db)
	want, _ := parseSample(t)

	page, err := db.GetEntries(context.Background(), p.ID, EntryQuery{})
	require.NoError(t, err)
	require.Equal(t, 3, page.Total)
	require.Len(t, page.Entries, 3)

	for i, got := range page.Entries {
		require.Equal(t, want[i].Path, got.Path)
		require.Equal(t, want[i].Line, got.Line)
		require.Equal(t, want[i].Lines(), got.Lines(), "entry %d directives", i)
	}

	inf, ok := page.Entries[0].ExtInf()
	require.True(t, ok)
	require.Equal(t, -1.0, inf.Duration)
	require.Equal(t, "one.uk", inf.Attr("tvg-id"))
	require.Equal(t, "Music", page.Entries[1].Group())
}

func TestGetEntriesPagingAndSearch(t *testing.T) {
	db := setupTestDB(t)
	p := savedSample(t, db)
	ctx := context.Background()

	page, err := db.GetEntries(ctx, p.ID, EntryQuery{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Equal(t, 3, page.Total)
	require.Len(t, page.Entries, 1)
	require.Equal(t, "http://example.test/two.mp3", page.Entries[0].Path)

	page, err = db.GetEntries(ctx, p.ID, EntryQuery{Search: "news"})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	require.Equal(t, "http://example.test/one.ts", page.Entries[0].Path)

	page, err = db.GetEntries(ctx, p.ID, EntryQuery{Search: ".mpd"})
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)

	page, err = db.GetEntries(ctx, p.ID, EntryQuery{Search: "100%"})
	require.NoError(t, err)
	require.Equal(t, 0, page.Total)
	require.Empty(t, page.Entries)
}

func TestGetParseErrors(t *testing.T) {
	db := setupTestDB(t)
	p := savedSample(t, db)

	parseErrs, err := db.GetParseErrors(context.Background(), p.ID)
	require.NoError(t, err)
	require.Len(t, parseErrs, 1)
	require.Equal(t, 8, parseErrs[0].Line)
	require.Equal(t, "EXTINF", parseErrs[0].Tag)
	require.Contains(t, parseErrs[0].Message, "#EXTINF:oops")
}

func TestDeletePlaylistCascades(t *testing.T) {
	db := setupTestDB(t)
	p := savedSample(t, db)
	ctx := context.Background()

	require.NoError(t, db.DeletePlaylist(ctx, p.ID))

	_, err := db.GetPlaylist(ctx, p.ID)
	require.ErrorIs(t, err, ErrNotFound)

	stats, err := db.CatalogStats(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, stats.Playlists)
	require.Equal(t, 0, stats.Entries)
	require.Equal(t, 0, stats.ParseErrors)

	require.ErrorIs(t, db.DeletePlaylist(ctx, p.ID), ErrNotFound)
}

func TestUnknownPlaylist(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	_, err := db.GetPlaylist(ctx, "missing")
	require.True(t, errors.Is(err, ErrNotFound))
	_, err = db.GetEntries(ctx, "missing", EntryQuery{})
	require.ErrorIs(t, err, ErrNotFound)
	_, err = db.GetParseErrors(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCatalogStats(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	stats, err := db.CatalogStats(ctx)
	require.NoError(t, err)
	require.True(t, stats.LastImport.IsZero())

	savedSample(t, db)
	savedSample(t, db)

	stats, err = db.CatalogStats(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, stats.Playlists)
	require.Equal(t, 6, stats.Entries)
	require.Equal(t, 2, stats.ParseErrors)
	require.False(t, stats.LastImport.IsZero())

	got := db.GetStats()
	require.Equal(t, 2, got.TotalPlaylists)
	require.Equal(t, 6, got.TotalEntries)
}

func TestSaveEmptyPlaylist(t *testing.T) {
	db := setupTestDB(t)
	p, err := db.SavePlaylist(context.Background(), "Empty", "", nil, nil)
	require.NoError(t, err)
	require.Equal(t, 0, p.EntryCount)

	page, err := db.GetEntries(context.Background(), p.ID, EntryQuery{})
	require.NoError(t, err)
	require.NotNil(t, page.Entries)
	require.Empty(t, page.Entries)
}

func TestMetadata(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SetMetadata(ctx, "k", "v1"))
	require.NoError(t, db.SetMetadata(ctx, "k", "v2"))
	value, err := db.GetMetadata(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "v2", value)
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "plain"},
		{"100%", `100\%`},
		{"a_b", `a\_b`},
		{`c:\x`, `c:\\x`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, escapeLike(tt.in))
		})
	}
}

func TestUpdateDBMetrics(t *testing.T) {
	db := setupTestDB(t)
	// Should not panic, and the main file must exist
	db.UpdateDBMetrics()
	_, err := os.Stat(db.dbPath)
	require.NoError(t, err)
}

func TestEncodeDirectives(t *testing.T) {
	entries, _ := parseSample(t)
	got := encodeDirectives(entries[0])
	require.Equal(t, 2, strings.Count(got, "\n")+1)
	require.True(t, strings.HasPrefix(got, "#EXTINF:-1 "))
}

func TestRecordQuery(t *testing.T) {
	// Should not panic for either outcome
	recordQuery("test_operation", time.Now(), nil)
	recordQuery("test_operation", time.Now(), errors.New("test error"))
}

func schemaVersion(t *testing.T, db *Database) int {
	t.Helper()
	var version int
	require.NoError(t, db.db.QueryRow("PRAGMA user_version").Scan(&version))
	return version
}

func TestMigrationsReopen(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "playlists.db")

	db, err := New(ctx, dbPath, nil)
	require.NoError(t, err)
	require.Equal(t, len(migrations), schemaVersion(t, db))
	p := savedSample(t, db)
	require.NoError(t, db.Close())

	db, err = New(ctx, dbPath, nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.Equal(t, len(migrations), schemaVersion(t, db))

	got, err := db.GetPlaylist(ctx, p.ID)
	require.NoError(t, err)
	require.Equal(t, p.EntryCount, got.EntryCount)
}

func TestMigrationsRejectNewerSchema(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "playlists.db")

	db, err := New(ctx, dbPath, nil)
	require.NoError(t, err)
	_, err = db.db.Exec("PRAGMA user_version = 99")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = New(ctx, dbPath, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "newer than this build")
}

func TestDiagnoseDatabaseFilesFixesSidecars(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "playlists.db")
	wal := dbPath + "-wal"
	require.NoError(t, os.WriteFile(dbPath, nil, 0o600))
	require.NoError(t, os.WriteFile(wal, nil, 0o400))

	diagnoseDatabaseFiles(dbPath)

	info, err := os.Stat(wal)
	require.NoError(t, err)
	require.NotZero(t, info.Mode().Perm()&0o200, "expected WAL file to be writable")
}
