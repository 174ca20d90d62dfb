package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kcl-tscm/gapmd/descriptor"
	"github.com/kcl-tscm/gapmd/gap"
)

func testFit(t *testing.T) *gap.Fit {
	t.Helper()
	d2b, err := descriptor.NewDistance2B(5.0)
	require.NoError(t, err)
	return &gap.Fit{
		AtFile:       "train.xyz",
		GPFile:       "gp_2b.xml",
		E0:           -2.1,
		DefaultSigma: [4]float64{0.005, 0.2, 0, 0},
		Descriptors: []gap.DescriptorOpts{{
			Spec:    d2b,
			Kernel:  gap.SquaredExponential,
			Delta:   2.0,
			Theta:   2.5,
			NSparse: 15,
		}},
	}
}

func TestRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	cat, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer cat.Close()

	id1, err := cat.NewRun(ctx, "fit", "2b only")
	require.NoError(t, err)
	id2, err := cat.NewRun(ctx, "eval", "")
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	runs, err := cat.ListRuns(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	ids := []string{runs[0].ID, runs[1].ID}
	assert.Contains(t, ids, id1)
	assert.Contains(t, ids, id2)
	for _, r := range runs {
		assert.False(t, r.Created.IsZero())
	}
}

func TestFitRecord(t *testing.T) {
	ctx := context.Background()
	cat, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer cat.Close()

	id, err := cat.NewRun(ctx, "fit", "")
	require.NoError(t, err)
	F := testFit(t)
	require.NoError(t, cat.RecordFit(ctx, id, F))

	rec, ok, err := cat.GetFit(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "train.xyz", rec.AtFile)
	assert.Equal(t, "gp_2b.xml", rec.GPFile)
	assert.InDelta(t, -2.1, rec.E0, 1e-12)
	assert.Contains(t, rec.Params, "distance_2b")

	//recording again replaces, not duplicates
	F.GPFile = "gp_2b_v2.xml"
	require.NoError(t, cat.RecordFit(ctx, id, F))
	rec, ok, err = cat.GetFit(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "gp_2b_v2.xml", rec.GPFile)

	_, ok, err = cat.GetFit(ctx, "no-such-run")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestEvalRecords(t *testing.T) {
	ctx := context.Background()
	cat, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer cat.Close()

	id, err := cat.NewRun(ctx, "eval", "")
	require.NoError(t, err)
	cmp := &gap.Comparison{RMSE: 0.003, ForceRMSE: 0.08, HasForce: true}
	require.NoError(t, cat.RecordEval(ctx, id, "gp_2b.xml", 60, cmp))
	cmp2 := &gap.Comparison{RMSE: 0.001}
	require.NoError(t, cat.RecordEval(ctx, id, "gp_soap.xml", 60, cmp2))

	recs, err := cat.GetEvals(ctx, id)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "gp_2b.xml", recs[0].Oracle)
	assert.InDelta(t, 0.003, recs[0].RMSEEnergy, 1e-12)
	assert.True(t, recs[0].HasForce)
	assert.Equal(t, "gp_soap.xml", recs[1].Oracle)
	assert.False(t, recs[1].HasForce)
}

func TestClosedCatalog(t *testing.T) {
	ctx := context.Background()
	cat, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	require.NoError(t, cat.Close())
	require.NoError(t, cat.Close()) //idempotent
	_, err = cat.NewRun(ctx, "fit", "")
	assert.Error(t, err)
	_, err = cat.ListRuns(ctx)
	assert.Error(t, err)
}
