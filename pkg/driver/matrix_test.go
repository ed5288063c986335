package driver

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingProgress struct {
	steps []string
}

func (p *recordingProgress) Step(desc string) {
	p.steps = append(p.steps, desc)
}

func TestDeclaredLists(t *testing.T) {
	require.Len(t, Features, 4)
	require.Len(t, Examples, 7)

	seen := make(map[string]bool)
	for _, feature := range Features {
		assert.False(t, seen[feature], "duplicate feature %s", feature)
		seen[feature] = true
	}

	for _, example := range Examples {
		for _, feature := range example.Features {
			assert.True(t, seen[feature], "example %s needs undeclared feature %s", example.Name, feature)
		}
	}
}

func TestFeatureMatrixInvocations(t *testing.T) {
	rec := &Recorder{}
	result := run(fixtureDriver(), Flags{FeatureMatrix: "true"}, rec)
	require.Equal(t, OutcomeContinue, result.Outcome)

	matrix := make([]Command, 0)
	for _, inv := range rec.Invocations {
		if inv.Stage == "feature-matrix" {
			matrix = append(matrix, inv.Command)
		}
	}

	expected := []Command{
		{Args: []string{"cargo", "test", "--features=compiler use-serde rand base64"}},
		{Args: []string{"cargo", "test", "--features=compiler"}},
		{Args: []string{"cargo", "test", "--features=use-serde"}},
		{Args: []string{"cargo", "test", "--features=rand"}},
		{Args: []string{"cargo", "test", "--features=base64"}},
		{Args: []string{"cargo", "build", "--examples"}},
		{Args: []string{"cargo", "run", "--example", "htlc", "--features=compiler"}},
		{Args: []string{"cargo", "run", "--example", "parse"}},
		{Args: []string{"cargo", "run", "--example", "sign_multisig"}},
		{Args: []string{"cargo", "run", "--example", "verify_tx"}, DiscardOutput: true},
		{Args: []string{"cargo", "run", "--example", "psbt"}},
		{Args: []string{"cargo", "run", "--example", "xpub_descriptors"}},
		{Args: []string{"cargo", "run", "--example", "taproot", "--features=compiler"}},
	}
	if diff := cmp.Diff(expected, matrix); diff != "" {
		t.Errorf("matrix invocations mismatch (-want +got):\n%s", diff)
	}

	// the default test run comes first, the matrix directly after it
	assert.Equal(t, []string{"test", "feature-matrix"}, stagesOf(rec.Invocations))
}

func TestMatrixCustomLists(t *testing.T) {
	m := Matrix{
		Cargo:    "cargo",
		Features: []string{"a", "b"},
		Examples: []Example{{Name: "x", Features: []string{"a", "b"}}, {Name: "y"}},
	}

	assert.Equal(t, 6, m.Steps())
	assert.Equal(t, []Command{
		{Args: []string{"cargo", "test", "--features=a b"}},
		{Args: []string{"cargo", "test", "--features=a"}},
		{Args: []string{"cargo", "test", "--features=b"}},
		{Args: []string{"cargo", "build", "--examples"}},
		{Args: []string{"cargo", "run", "--example", "x", "--features=a b"}},
		{Args: []string{"cargo", "run", "--example", "y"}},
	}, m.Commands())
}

func TestMatrixProgressAndFailure(t *testing.T) {
	progress := &recordingProgress{}
	m := fixtureDriver().Matrix()
	m.Progress = progress

	require.Equal(t, len(m.Commands()), m.Steps())

	rec := &Recorder{Fail: failAt(6, 7)}
	err := m.Run(context.Background(), rec)

	require.Error(t, err)
	assert.Equal(t, 7, ExitStatus(err))
	assert.Len(t, rec.Invocations, 7)
	assert.Equal(t, []string{
		"test --features=compiler use-serde rand base64",
		"test --features=compiler",
		"test --features=use-serde",
		"test --features=rand",
		"test --features=base64",
		"build --examples",
		"run --example htlc --features=compiler",
	}, progress.steps)
}
