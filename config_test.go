package neat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.ini")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadGenomeParams_Defaults(t *testing.T) {
	path := writeTempConfig(t, `
[genome]
input_size = 3
output_size = 2
`)
	params, err := LoadGenomeParams(path)
	require.NoError(t, err)

	assert.Equal(t, 3, params.InputSize)
	assert.Equal(t, 2, params.OutputSize)
	assert.Equal(t, 10, params.WindowSize)
	assert.Equal(t, DefaultGenomeMutationProbabilities(), params.Mutation)
	assert.Equal(t, DefaultWeightChangeProbabilities(), params.WeightChange)
}

func TestLoadGenomeParams_OverridesMutationTable(t *testing.T) {
	path := writeTempConfig(t, `
[genome]
input_size = 2
output_size = 1

[mutation]
change_weight = 50
split_connection = 10
create_connection = 10
toggle_weight = 5
nothing = 25
`)
	params, err := LoadGenomeParams(path)
	require.NoError(t, err)
	assert.Equal(t, 50, params.Mutation.ChangeWeight)
	assert.Equal(t, 10, params.Mutation.SplitConnection)
}

func TestLoadGenomeParams_RejectsMissingInputSize(t *testing.T) {
	path := writeTempConfig(t, `
[genome]
output_size = 2
`)
	_, err := LoadGenomeParams(path)
	assert.Error(t, err)
}

func TestLoadGenomeParams_RejectsUnknownActivation(t *testing.T) {
	path := writeTempConfig(t, `
[genome]
input_size = 2
output_size = 1
hidden_activation = not-a-real-activation
`)
	_, err := LoadGenomeParams(path)
	assert.Error(t, err)
}

func TestLoadEvolutionParams_Defaults(t *testing.T) {
	path := writeTempConfig(t, `
[evolution]
species_count = 4
`)
	params, err := LoadEvolutionParams(path)
	require.NoError(t, err)
	assert.Equal(t, 4, params.SpeciesCount)
	assert.Equal(t, 25, params.SpeciesSize)
	assert.InDelta(t, 0.2, params.DistanceThreshold, 1e-9)
}

func TestLoadEvolutionParams_RejectsTinySpeciesSize(t *testing.T) {
	path := writeTempConfig(t, `
[evolution]
species_count = 4
species_size = 1
`)
	_, err := LoadEvolutionParams(path)
	assert.Error(t, err)
}
