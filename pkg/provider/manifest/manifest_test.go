package manifest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bgricker/unitkit/pkg/provider"
)

const sample = `types:
  billing.Invoice:
    category: slow
    tests:
      Totals:
        ignore: "rounding bug"
        description: sums line items
      Rejects:
        expected_message: "amount must be positive"
      Missing:
        category: x
  billing.Ghost:
    ignore: gone
`

func TestApplyManifest(t *testing.T) {
	c := provider.NewCatalog("billing")
	invoice := c.Fixture("billing", "Invoice", nil)
	invoice.AddTest("Totals", nil)
	invoice.AddTest("Rejects", nil)

	m, err := Decode(strings.NewReader(sample), "unitkit.manifest.yml")
	require.NoError(t, err)

	warnings := m.Apply(c)
	assert.Equal(t, []Warning{
		{Path: "unitkit.manifest.yml", Target: "billing.Ghost", Message: "unknown type"},
		{Path: "unitkit.manifest.yml", Target: "billing.Invoice.Missing", Message: "unknown method"},
	}, warnings)

	assert.Equal(t, "slow", invoice.Markers.Category)

	totals := invoice.Method("Totals")
	assert.True(t, totals.Markers.Ignore)
	assert.Equal(t, "rounding bug", totals.Markers.IgnoreReason)
	assert.Equal(t, "sums line items", totals.Markers.Description)

	rejects := invoice.Method("Rejects")
	require.NotNil(t, rejects.Markers.ExpectedFailure)
	assert.Equal(t, "amount must be positive", rejects.Markers.ExpectedFailure.Message)
	assert.Equal(t, "error", rejects.Markers.ExpectedFailure.Type.String())
}

func TestApplyKeepsDeclaredFailureType(t *testing.T) {
	c := provider.NewCatalog("x")
	fx := c.Fixture("ns", "Fx", nil)
	m := fx.AddTest("Boom", nil, provider.Expecting[*os.PathError]("old"))

	man, err := Decode(strings.NewReader("types:\n  ns.Fx:\n    tests:\n      Boom:\n        expected_message: new\n"), "inline")
	require.NoError(t, err)
	assert.Empty(t, man.Apply(c))
	assert.Equal(t, "new", m.Markers.ExpectedFailure.Message)
	assert.Equal(t, "*fs.PathError", m.Markers.ExpectedFailure.Type.String())
}

func TestWarnsOnNonTestMethod(t *testing.T) {
	c := provider.NewCatalog("x")
	fx := c.Fixture("ns", "Fx", nil)
	fx.AddSetup("Prepare", nil)

	man, err := Decode(strings.NewReader("types:\n  ns.Fx:\n    tests:\n      Prepare:\n        category: c\n"), "inline")
	require.NoError(t, err)
	warnings := man.Apply(c)
	require.Len(t, warnings, 1)
	assert.Equal(t, "ns.Fx.Prepare", warnings[0].Target)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.yml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	m, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, m.Types, 2)

	_, err = Load(filepath.Join(dir, "missing.yml"))
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yml")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	m, err = Load(empty)
	require.NoError(t, err)
	assert.Empty(t, m.Types)
}

func TestDecodeError(t *testing.T) {
	_, err := Decode(strings.NewReader("types: [unclosed"), "bad.yml")
	assert.Error(t, err)
}
