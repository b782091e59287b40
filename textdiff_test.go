package textdiff_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/helixml/textdiff"
	"github.com/helixml/textdiff/application/service"
	"github.com/helixml/textdiff/domain/compare"
	"github.com/helixml/textdiff/infrastructure/persistence"
	"github.com/helixml/textdiff/infrastructure/tabular"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *textdiff.Client {
	t.Helper()

	dir := t.TempDir()
	client, err := textdiff.New(
		textdiff.WithSQLite(filepath.Join(dir, "test.db")),
		textdiff.WithDataDir(dir),
		textdiff.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		textdiff.WithReportingInterval(time.Millisecond),
	)
	require.NoError(t, err, "create client")
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func readTestTable(t *testing.T, csv string) tabular.Table {
	t.Helper()

	table, err := tabular.ReadCSV(strings.NewReader(csv))
	require.NoError(t, err, "read csv")
	return table
}

const editsCSV = `id,text_a,text_b
r1,kitten,sitting
r2,same text,same text
r3,abc,xyz
`

func TestNew_RequiresDatabase(t *testing.T) {
	_, err := textdiff.New()
	require.ErrorIs(t, err, textdiff.ErrNoDatabase)
}

func TestClient_CompareAndReport(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	table := readTestTable(t, editsCSV)

	comparer, err := client.NewComparer(table, textdiff.WithSource("edits.csv"))
	require.NoError(t, err)
	require.NoError(t, comparer.Run(ctx))

	result, err := comparer.Result()
	require.NoError(t, err)
	require.Equal(t, 3, result.Len())

	rec, ok := result.Record("0")
	require.True(t, ok, "record for first row")
	assert.InDelta(t, 0.6154, rec.Ratio(), 0.0001)
	assert.Equal(t, 0.62, rec.RoundedRatio())
	assert.Contains(t, rec.TextA(), "<span class=", "above threshold gets markup")

	rec, ok = result.Record("1")
	require.True(t, ok)
	assert.Equal(t, 1.0, rec.Ratio())
	assert.Equal(t, "same text", rec.TextA(), "identical texts stay unmarked")

	rec, ok = result.Record("2")
	require.True(t, ok)
	assert.NotContains(t, rec.TextA(), "<span", "below threshold passes through")

	run, err := comparer.SavedRun()
	require.NoError(t, err)
	assert.Positive(t, run.ID())
	assert.Equal(t, "edits.csv", run.Source())
	assert.Equal(t, 3, run.RowCount())

	html, err := comparer.HTML(compare.NewPresentation().WithSort(compare.SortAsc))
	require.NoError(t, err)
	assert.Contains(t, html, "<table")
	assert.Contains(t, html, "<span class='chg'>")
	assert.Contains(t, html, "id", "projection keeps the extra column")

	// The persisted run regenerates the same rows without the projection.
	saved, err := client.Report(ctx, run.ID(), compare.NewPresentation())
	require.NoError(t, err)
	assert.Contains(t, saved, "<span class='chg'>")
}

func TestClient_RunsLifecycle(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	table := readTestTable(t, editsCSV)

	comparer, err := client.NewComparer(table)
	require.NoError(t, err)
	require.NoError(t, comparer.Run(ctx))

	run, err := comparer.SavedRun()
	require.NoError(t, err)

	runs, err := client.Runs.List(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID(), runs[0].ID())

	require.NoError(t, client.Runs.Delete(ctx, run.ID()))

	_, err = client.Report(ctx, run.ID(), compare.NewPresentation())
	require.ErrorIs(t, err, persistence.ErrRunNotFound)
}

func TestComparer_OneShot(t *testing.T) {
	ctx := context.Background()
	client := newTestClient(t)
	table := readTestTable(t, editsCSV)

	comparer, err := client.NewComparer(table)
	require.NoError(t, err)

	_, err = comparer.Result()
	require.ErrorIs(t, err, service.ErrNotRun)
	_, err = comparer.HTML(compare.NewPresentation())
	require.ErrorIs(t, err, service.ErrNotRun)

	require.NoError(t, comparer.Run(ctx))
	require.ErrorIs(t, comparer.Run(ctx), service.ErrAlreadyRun)
}

func TestNewComparer_UnknownColumn(t *testing.T) {
	client := newTestClient(t)
	table := readTestTable(t, editsCSV)

	_, err := client.NewComparer(table, textdiff.WithComparerColumns("text_a", "missing"))
	var unknown tabular.UnknownColumnError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "missing", unknown.Column())
}

func TestClient_Close(t *testing.T) {
	dir := t.TempDir()
	client, err := textdiff.New(
		textdiff.WithSQLite(filepath.Join(dir, "test.db")),
		textdiff.WithDataDir(dir),
	)
	require.NoError(t, err)

	require.NoError(t, client.Close())
	require.ErrorIs(t, client.Close(), textdiff.ErrClientClosed)

	_, err = client.NewComparer(tabular.Table{})
	require.ErrorIs(t, err, textdiff.ErrClientClosed)
}
