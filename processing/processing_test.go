package processing

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/gosdba"
	"github.com/sartorproj/gosdba/timeseries"
)

func twoVars(t *testing.T) (*timeseries.Series, *timeseries.Series) {
	t.Helper()
	tas := timeseries.New([]float64{10, 12, 14, 16, 18})
	tas.Name = "tas"
	tas.Units = "degC"
	pr := timeseries.New([]float64{0, 1, 2, 3, 4})
	pr.Name = "pr"
	pr.Units = "mm/d"
	return tas, pr
}

func TestStackUnstack(t *testing.T) {
	tas, pr := twoVars(t)

	d, err := Stack(tas, pr)
	require.NoError(t, err)
	assert.Equal(t, 5, d.Len())
	assert.Equal(t, 2, d.NVars())
	assert.Equal(t, []string{"tas", "pr"}, d.Names)

	assert.Equal(t, 10.0, d.Data.At(0, 0))
	assert.Equal(t, 4.0, d.Data.At(4, 1))

	series := d.Unstack()
	require.Len(t, series, 2)
	for i, want := range []*timeseries.Series{tas, pr} {
		assert.Equal(t, want.Name, series[i].Name)
		assert.Equal(t, want.Units, series[i].Units)
		assert.Equal(t, want.Values, series[i].Values)
		assert.True(t, series[i].SameAxis(want))
	}
}

func TestStackValidation(t *testing.T) {
	var shapeErr *gosdba.ShapeError

	_, err := Stack()
	require.ErrorAs(t, err, &shapeErr)

	tas, _ := twoVars(t)
	short := timeseries.New([]float64{1, 2})
	_, err = Stack(tas, short)
	require.ErrorAs(t, err, &shapeErr)
}

func TestColumnIsACopy(t *testing.T) {
	tas, pr := twoVars(t)
	d, err := Stack(tas, pr)
	require.NoError(t, err)

	col := d.Column(0)
	col.Values[0] = -999
	assert.Equal(t, 10.0, d.Data.At(0, 0))
}

func TestStandardizeDestandardize(t *testing.T) {
	tas, pr := twoVars(t)
	d, err := Stack(tas, pr)
	require.NoError(t, err)

	std, means, stds := Standardize(d)
	require.Len(t, means, 2)
	assert.InDelta(t, 14, means[0], 1e-12)
	assert.InDelta(t, 2, means[1], 1e-12)

	// Standardized columns have zero mean and unit sample deviation.
	for j := 0; j < 2; j++ {
		col := std.Column(j)
		assert.InDelta(t, 0, col.Mean(), 1e-12)
		assert.InDelta(t, 1, col.Std(), 1e-12)
	}

	// The input is untouched.
	assert.Equal(t, 10.0, d.Data.At(0, 0))

	back, err := Destandardize(std, means, stds)
	require.NoError(t, err)
	for j := 0; j < 2; j++ {
		for i := 0; i < d.Len(); i++ {
			assert.InDelta(t, d.Data.At(i, j), back.Data.At(i, j), 1e-12)
		}
	}
}

func TestStandardizeConstantColumn(t *testing.T) {
	flat := timeseries.New([]float64{7, 7, 7})
	d, err := Stack(flat)
	require.NoError(t, err)

	std, means, stds := Standardize(d)
	assert.InDelta(t, 7, means[0], 1e-12)
	assert.Equal(t, 0.0, stds[0])
	for i := 0; i < 3; i++ {
		assert.Equal(t, 0.0, std.Data.At(i, 0), "zero variance centers only")
	}

	back, err := Destandardize(std, means, stds)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		assert.InDelta(t, 7, back.Data.At(i, 0), 1e-12)
	}
}

func TestDestandardizeValidation(t *testing.T) {
	tas, pr := twoVars(t)
	d, err := Stack(tas, pr)
	require.NoError(t, err)

	var shapeErr *gosdba.ShapeError
	_, err = Destandardize(d, []float64{1}, []float64{1, 1})
	require.ErrorAs(t, err, &shapeErr)
	_, err = Destandardize(d, []float64{1, 1}, []float64{1})
	require.ErrorAs(t, err, &shapeErr)
}

func TestJitterUnderThresh(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	s := timeseries.New([]float64{0, 0.01, 0.5, 2, 0})
	s.Name = "pr"

	out, err := JitterUnderThresh(s, 0.1, rng)
	require.NoError(t, err)

	for i, v := range out.Values {
		if s.Values[i] >= 0.1 {
			assert.Equal(t, s.Values[i], v, "values at or above the threshold pass through")
		} else {
			assert.Greater(t, v, 0.0, "jittered values are strictly positive")
			assert.Less(t, v, 0.1, "jittered values stay under the threshold")
		}
	}

	// The input is untouched and the metadata survives.
	assert.Equal(t, 0.0, s.Values[0])
	assert.Equal(t, "pr", out.Name)
	assert.True(t, out.SameAxis(s))
}

func TestJitterUnderThreshValidation(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))
	s := timeseries.New([]float64{1, 2})

	var cfgErr *gosdba.ConfigurationError
	_, err := JitterUnderThresh(s, 0, rng)
	require.ErrorAs(t, err, &cfgErr)
	_, err = JitterUnderThresh(s, -1, rng)
	require.ErrorAs(t, err, &cfgErr)
}
