package survey

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surveyforge/surveyd/internal/schema"
)

func TestEnsureTable_CreatesWithCandidateHeaders(t *testing.T) {
	svc, _ := newTestService(t)

	table, err := svc.EnsureTable(context.Background(), []string{"Role", "Score"})
	require.NoError(t, err)
	assert.Equal(t, "Submissions", table.Name)
	assert.Equal(t, []string{"Role", "Score", "Hash"}, table.Headers)
	assert.True(t, table.Frozen)
}

func TestEnsureTable_CandidateAlreadyEndsWithHash(t *testing.T) {
	svc, _ := newTestService(t)

	table, err := svc.EnsureTable(context.Background(), []string{"Role", "Hash"})
	require.NoError(t, err)
	// The Hash column is not doubled.
	assert.Equal(t, []string{"Role", "Hash"}, table.Headers)
}

func TestEnsureTable_DefaultsWhenNoCandidates(t *testing.T) {
	svc, _ := newTestService(t)

	def, err := schema.Load()
	require.NoError(t, err)

	table, err := svc.EnsureTable(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, def.Headers, table.Headers)
	assert.Equal(t, schema.HashColumn, table.Headers[len(table.Headers)-1])
}

func TestEnsureTable_ExistingTableUnchanged(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.EnsureTable(ctx, []string{"Role"})
	require.NoError(t, err)

	// Later candidates are ignored once the table exists.
	again, err := svc.EnsureTable(ctx, []string{"Other", "Columns"})
	require.NoError(t, err)
	assert.Equal(t, created.Headers, again.Headers)
}
