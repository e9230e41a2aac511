package survey

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surveyforge/surveyd/internal/schema"
	"github.com/surveyforge/surveyd/internal/sheet"
	"github.com/surveyforge/surveyd/internal/testutil"
)

func newTestService(t *testing.T) (*Service, *sheet.MemStore) {
	t.Helper()

	def, err := schema.Load()
	require.NoError(t, err)

	store := sheet.NewMemStore()
	clock := testutil.NewFrozenClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	return NewService(store, def, clock), store
}

func TestIngest_AppendsRow(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	out, err := svc.Ingest(ctx, []byte(`{
		"headers": ["Role", "Score"],
		"values": ["Engineer", 42],
		"hash": "h1"
	}`))
	require.NoError(t, err)
	assert.Equal(t, OutcomeOK, out)

	headers, rows, err := store.ReadAll(ctx, "Submissions")
	require.NoError(t, err)
	assert.Equal(t, []string{"Role", "Score", "Hash"}, headers)
	require.Len(t, rows, 1)
	assert.Equal(t, sheet.Row{"Engineer", "42", "h1"}, rows[0])
}

func TestIngest_DuplicateHashIsIdempotent(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	out, err := svc.Ingest(ctx, []byte(`{"headers":["Role"],"values":["Engineer"],"hash":"h1"}`))
	require.NoError(t, err)
	assert.Equal(t, OutcomeOK, out)

	// Same hash, different values: nothing appended.
	out, err = svc.Ingest(ctx, []byte(`{"values":["Designer"],"hash":"h1"}`))
	require.NoError(t, err)
	assert.Equal(t, OutcomeDuplicate, out)

	_, rows, err := store.ReadAll(ctx, "Submissions")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestIngest_DistinctHashesBothStored(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	for _, body := range []string{
		`{"headers":["Role"],"values":["Engineer"],"hash":"h1"}`,
		`{"values":["Designer"],"hash":"h2"}`,
	} {
		out, err := svc.Ingest(ctx, []byte(body))
		require.NoError(t, err)
		assert.Equal(t, OutcomeOK, out)
	}

	_, rows, err := store.ReadAll(ctx, "Submissions")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestIngest_NoHashSkipsDedup(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		out, err := svc.Ingest(ctx, []byte(`{"headers":["Role"],"values":["Engineer"]}`))
		require.NoError(t, err)
		assert.Equal(t, OutcomeOK, out)
	}

	_, rows, err := store.ReadAll(ctx, "Submissions")
	require.NoError(t, err)
	// Two identical rows: without a hash there is nothing to dedup on.
	require.Len(t, rows, 2)
	assert.Equal(t, sheet.Row{"Engineer", ""}, rows[0])
}

func TestIngest_SchemaStability(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, []byte(`{"headers":["Role","Score"],"values":["Engineer",1],"hash":"h1"}`))
	require.NoError(t, err)

	// A later payload with different headers never alters the header row.
	_, err = svc.Ingest(ctx, []byte(`{"headers":["Completely","Different","Columns"],"values":["a","b",3],"hash":"h2"}`))
	require.NoError(t, err)

	headers, rows, err := store.ReadAll(ctx, "Submissions")
	require.NoError(t, err)
	assert.Equal(t, []string{"Role", "Score", "Hash"}, headers)
	require.Len(t, rows, 2)
	assert.Equal(t, sheet.Row{"a", "b", "3"}, rows[1])
}

func TestIngest_RowMatchingHeaderWidthTrustedAsIs(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	// Three values for a three-column table: the last cell is taken as
	// the hash, the payload hash field is not appended on top.
	out, err := svc.Ingest(ctx, []byte(`{
		"headers": ["Role", "Score"],
		"values": ["Engineer", 42, "inline-hash"],
		"hash": "ignored"
	}`))
	require.NoError(t, err)
	assert.Equal(t, OutcomeOK, out)

	_, rows, err := store.ReadAll(ctx, "Submissions")
	require.NoError(t, err)
	assert.Equal(t, sheet.Row{"Engineer", "42", "inline-hash"}, rows[0])
}

func TestIngest_ShortRowPaddedBeforeHash(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, []byte(`{"headers":["Role","Score","Notes"],"values":["Engineer",1,"x","h0"]}`))
	require.NoError(t, err)

	// Two values for a four-column table: padding goes between the
	// values and the hash so the hash stays in the Hash column.
	out, err := svc.Ingest(ctx, []byte(`{"values":["Designer"],"hash":"h1"}`))
	require.NoError(t, err)
	assert.Equal(t, OutcomeOK, out)

	_, rows, err := store.ReadAll(ctx, "Submissions")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, sheet.Row{"Designer", "", "", "h1"}, rows[1])

	// And dedup fires on the relocated hash.
	out, err = svc.Ingest(ctx, []byte(`{"values":["Designer"],"hash":"h1"}`))
	require.NoError(t, err)
	assert.Equal(t, OutcomeDuplicate, out)
}

func TestIngest_WideRowRejected(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, []byte(`{"headers":["Role"],"values":["Engineer"],"hash":"h1"}`))
	require.NoError(t, err)

	_, err = svc.Ingest(ctx, []byte(`{"values":["a","b","c","d","e"],"hash":"h2"}`))
	require.Error(t, err)
	var oe *OpError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, ErrCodeRowMismatch, oe.Code)

	_, rows, err := store.ReadAll(ctx, "Submissions")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestIngest_MalformedBody(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Ingest(context.Background(), []byte(`{"values": [`))
	require.Error(t, err)
	assert.True(t, IsPayloadParse(err))
}

func TestIngest_NonScalarValueRejected(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Ingest(context.Background(), []byte(`{"values":[{"nested":"object"}],"hash":"h1"}`))
	require.Error(t, err)
	assert.True(t, IsPayloadParse(err))
}

func TestBuildLegacyRow_FixedFieldOrder(t *testing.T) {
	svc, _ := newTestService(t)

	payload, err := ParsePayload([]byte(`{"role":"X","func":"Y","hash":"h1"}`))
	require.NoError(t, err)

	row := svc.buildLegacyRow(payload)
	assert.Equal(t, sheet.Row{
		"2025-06-01T12:00:00Z", "X", "Y", "", "", "", "", "", "h1",
	}, row)
}

func TestBuildLegacyRow_PayloadTimestampWins(t *testing.T) {
	svc, _ := newTestService(t)

	payload, err := ParsePayload([]byte(`{"timestamp":"2024-01-01T00:00:00Z","role":"X","hash":"h1"}`))
	require.NoError(t, err)

	row := svc.buildLegacyRow(payload)
	assert.Equal(t, "2024-01-01T00:00:00Z", row[0])
}

func TestIngest_LegacyPayloadOnDefaultTable(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	out, err := svc.Ingest(ctx, []byte(`{"role":"X","func":"Y","hash":"h1"}`))
	require.NoError(t, err)
	assert.Equal(t, OutcomeOK, out)

	headers, rows, err := store.ReadAll(ctx, "Submissions")
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// The row is padded out to the default 30-column header row with the
	// hash in the trailing Hash column, so dedup still fires.
	require.Len(t, rows[0], len(headers))
	assert.Equal(t, "h1", rows[0][len(headers)-1])
	assert.Equal(t, "X", rows[0][1])

	out, err = svc.Ingest(ctx, []byte(`{"role":"X","func":"Y","hash":"h1"}`))
	require.NoError(t, err)
	assert.Equal(t, OutcomeDuplicate, out)
}
