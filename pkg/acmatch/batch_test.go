package acmatch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchBatch_AgreesWithSequential(t *testing.T) {
	sc := newScenario()
	jobs := []Job{
		{Expr: sc.sum, Pattern: POp(Add, PConst(0), PVar("x"), PRest("xs"))},
		{Expr: sc.product, Pattern: POp(Mul, PConst(0), PRest("xs"))},
		{Expr: sc.zero, Pattern: PConst(5)},
		{Expr: sc.sum, Pattern: POp(Mul, PRest("xs"))},
		{Expr: sc.x, Pattern: PVar("v")},
	}
	m := NewMatcher()

	results, err := m.MatchBatch(context.Background(), sc.arena, jobs, 3)
	require.NoError(t, err)
	require.Len(t, results, len(jobs))

	for i, job := range jobs {
		s := NewSubstitution()
		want := m.Match(sc.arena, job.Expr, job.Pattern, s)
		got := results[i]
		require.NoError(t, got.Err, "job %d", i)
		assert.Equal(t, want, got.Matched, "job %d", i)
		if want {
			assert.True(t, s.Equal(got.Subst), "job %d: %s != %s", i, got.Subst, s)
		} else {
			assert.Nil(t, got.Subst)
		}
	}
}

func TestMatchBatch_IsolatesContractViolations(t *testing.T) {
	sc := newScenario()
	jobs := []Job{
		{Expr: sc.sum, Pattern: PRest("xs")},
		{Expr: sc.zero, Pattern: PConst(0)},
		{Expr: Id(99), Pattern: PVar("v")},
	}

	results, err := NewMatcher().MatchBatch(context.Background(), sc.arena, jobs, 2)
	require.NoError(t, err)

	require.Error(t, results[0].Err)
	assert.ErrorIs(t, results[0].Err, ErrContractViolation)
	assert.False(t, results[0].Matched)

	assert.NoError(t, results[1].Err)
	assert.True(t, results[1].Matched)

	assert.ErrorIs(t, results[2].Err, ErrContractViolation)
}

func TestMatchBatch_Cancelled(t *testing.T) {
	sc := newScenario()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	jobs := []Job{{Expr: sc.x, Pattern: PVar("v")}, {Expr: sc.y, Pattern: PVar("v")}}
	results, err := NewMatcher().MatchBatch(ctx, sc.arena, jobs, 1)

	require.ErrorIs(t, err, context.Canceled)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.False(t, r.Matched)
	}
}

func TestMatchBatch_Empty(t *testing.T) {
	results, err := NewMatcher().MatchBatch(context.Background(), NewArena(), nil, 4)
	require.NoError(t, err)
	assert.Empty(t, results)
}
