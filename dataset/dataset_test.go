// SPDX-License-Identifier: MIT

package dataset_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/katalvlaran/latentree/core"
	"github.com/katalvlaran/latentree/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSV_MergesAndWeights(t *testing.T) {
	in := "a,b,weight\n0,1,2\n1,?,1\n0,1,0.5\n"
	d, err := dataset.ReadCSV(core.NewRegistry(), strings.NewReader(in))
	require.NoError(t, err)

	require.Equal(t, 2, d.Len(), "duplicate rows are merged")
	assert.InDelta(t, 3.5, d.TotalWeight(), 1e-12)
	assert.Equal(t, []int{0, 1}, d.Instance(0).States)
	assert.InDelta(t, 2.5, d.Instance(0).Weight, 1e-12)
	assert.Equal(t, dataset.Missing, d.Instance(1).States[1])

	vs := d.Variables()
	require.Len(t, vs, 2)
	assert.Equal(t, "a", vs[0].Name())
	assert.Equal(t, 2, vs[0].Cardinality())
	assert.Equal(t, core.Manifest, vs[1].Role())
}

func TestReadCSV_BadCell(t *testing.T) {
	_, err := dataset.ReadCSV(core.NewRegistry(), strings.NewReader("a\nx\n"))
	assert.ErrorIs(t, err, dataset.ErrBadInstance)
	assert.Equal(t, core.KindInvalidArgument, core.KindOf(err))
}

func TestLoad_ErrorContract(t *testing.T) {
	dir := t.TempDir()
	reg := core.NewRegistry()

	_, err := dataset.Load(reg, dir)
	assert.ErrorIs(t, err, dataset.ErrIsDirectory)
	assert.Equal(t, core.KindInvalidArgument, core.KindOf(err))

	arff := filepath.Join(dir, "data.arff")
	require.NoError(t, os.WriteFile(arff, []byte("@relation x"), 0o600))
	_, err = dataset.Load(reg, arff)
	assert.ErrorIs(t, err, dataset.ErrUnsupportedFormat)

	_, err = dataset.Load(reg, filepath.Join(dir, "missing.csv"))
	assert.ErrorIs(t, err, dataset.ErrRead)
	assert.Equal(t, core.KindIO, core.KindOf(err))

	csvPath := filepath.Join(dir, "ok.CSV")
	require.NoError(t, os.WriteFile(csvPath, []byte("x,y\n0,1\n1,0\n"), 0o600))
	d, err := dataset.Load(reg, csvPath)
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())
}

func TestNew_Validation(t *testing.T) {
	reg := core.NewRegistry()
	x, _ := core.NewDiscreteVariable(reg, "x", 2, core.Manifest)

	_, err := dataset.New(nil, nil)
	assert.ErrorIs(t, err, dataset.ErrNoVariables)

	_, err = dataset.New([]*core.Variable{x}, []dataset.Instance{{States: []int{2}, Weight: 1}})
	assert.ErrorIs(t, err, dataset.ErrBadInstance)

	_, err = dataset.New([]*core.Variable{x}, []dataset.Instance{{States: []int{1}, Weight: -1}})
	assert.ErrorIs(t, err, dataset.ErrBadInstance)
}

func TestProject_MergesRows(t *testing.T) {
	reg := core.NewRegistry()
	x, _ := core.NewDiscreteVariable(reg, "x", 2, core.Manifest)
	y, _ := core.NewDiscreteVariable(reg, "y", 2, core.Manifest)
	d, err := dataset.New([]*core.Variable{x, y}, []dataset.Instance{
		{States: []int{0, 0}, Weight: 1},
		{States: []int{0, 1}, Weight: 2},
		{States: []int{1, 1}, Weight: 3},
	})
	require.NoError(t, err)

	p, err := d.Project([]*core.Variable{x})
	require.NoError(t, err)
	require.Equal(t, 2, p.Len())
	assert.InDelta(t, 3.0, p.Instance(0).Weight, 1e-12)
	assert.InDelta(t, 6.0, p.TotalWeight(), 1e-12)

	other, _ := core.NewDiscreteVariable(reg, "z", 2, core.Manifest)
	_, err = d.Project([]*core.Variable{other})
	assert.ErrorIs(t, err, dataset.ErrUnknownVariable)
}
