package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/ogm/internal/config"
)

const bikeManifest = "testdata/bike.yaml"

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("OGM_LOGGING_LEVEL", "error")

	cmd := NewRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(append([]string{"--no-color"}, args...))

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestNewRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	assert.Equal(t, "ogm", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, expected := range []string{"version", "inspect", "validate", "resolve", "decode"} {
		assert.Contains(t, names, expected)
	}
}

func TestVersionCommand(t *testing.T) {
	Version, GitCommit = "1.0.0-test", "abc123"
	t.Cleanup(func() { Version, GitCommit = "dev", "unknown" })

	out, _, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "ogm version: 1.0.0-test")
	assert.Contains(t, out, "Git commit: abc123")
	assert.Contains(t, out, "Go version: ")
}

func TestInspect_List(t *testing.T) {
	out, _, err := run(t, "inspect", "--manifest", bikeManifest)
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	assert.Contains(t, out, "CLASS")
	assert.Contains(t, out, "5 classes")

	row := func(prefix string) string {
		for _, l := range lines {
			if strings.HasPrefix(l, prefix+" ") {
				return l
			}
		}
		return ""
	}
	assert.Regexp(t, `^example\.com/bike\.Bike\s+node\s+Bike$`, row("example.com/bike.Bike"))
	assert.Regexp(t, `^example\.com/bike\.Frame\s+class\s+Frame$`, row("example.com/bike.Frame"))
	assert.Regexp(t, `^example\.com/bike\.Ride\s+relationship\s+RIDDEN_BY$`, row("example.com/bike.Ride"))
}

func TestInspect_Class(t *testing.T) {
	out, _, err := run(t, "inspect", "--manifest", bikeManifest, "--class", "Bike")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "example.com/bike.Bike\n"))
	assert.Contains(t, out, "kind:   node")
	assert.Regexp(t, `Purchased\s+field\s+time\.Time\s+property\s+purchased\s+DateConverter`, out)
	assert.Regexp(t, `Wheels\s+field\s+\[\]\*example\.com/bike\.Wheel\s+relationship\s+HAS_WHEEL \(outgoing\)`, out)
	assert.Regexp(t, `(?m)^ID\s+field\s+\*int64\s+property\s+id$`, out)
}

func TestInspect_JSON(t *testing.T) {
	out, _, err := run(t, "inspect", "--manifest", bikeManifest, "--class", "example.com/bike.Wheel", "--format", "json")
	require.NoError(t, err)

	var views []classView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 1)
	assert.Equal(t, "example.com/bike.Wheel", views[0].Name)
	assert.Equal(t, []string{"Wheel"}, views[0].Labels)
	require.Len(t, views[0].Members, 2)
	assert.Equal(t, memberView{
		Name:           "Spokes",
		Kind:           "field",
		Signature:      "int",
		Classification: "property",
		StoredAs:       "spokes",
	}, views[0].Members[1])
}

func TestInspect_Failures(t *testing.T) {
	t.Run("unknown class suggests close names", func(t *testing.T) {
		_, stderr, err := run(t, "inspect", "--manifest", bikeManifest, "--class", "Bkie")
		require.Error(t, err)
		assert.Contains(t, stderr, "CLASS NOT FOUND")
		assert.Contains(t, stderr, "Did you mean: Bike?")
	})

	t.Run("no domain", func(t *testing.T) {
		_, _, err := run(t, "inspect")
		assert.True(t, errors.Is(err, config.ErrNoDomain))
	})

	t.Run("bad format", func(t *testing.T) {
		_, _, err := run(t, "inspect", "--manifest", bikeManifest, "--format", "xml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--format")
	})

	t.Run("bad log level", func(t *testing.T) {
		_, _, err := run(t, "inspect", "--manifest", bikeManifest, "--log-level", "chatty")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--log-level")
	})

	t.Run("missing manifest", func(t *testing.T) {
		_, _, err := run(t, "inspect", "--manifest", "testdata/missing.yaml")
		require.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	t.Run("valid domain", func(t *testing.T) {
		out, _, err := run(t, "validate", "--manifest", bikeManifest)
		require.NoError(t, err)
		assert.Contains(t, out, "✓ 5 classes valid")
	})

	t.Run("conflict is a warning by default", func(t *testing.T) {
		out, _, err := run(t, "validate", "--manifest", "testdata/conflict.yaml")
		require.NoError(t, err)
		assert.Contains(t, out, "! VALIDATION FAILED")
		assert.Contains(t, out, "example.com/bad.Both")
	})

	t.Run("strict exits non-zero", func(t *testing.T) {
		out, _, err := run(t, "validate", "--manifest", "testdata/conflict.yaml", "--strict")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrValidationFailed))
		assert.Contains(t, out, "✗ VALIDATION FAILED")
	})

	t.Run("strict from environment", func(t *testing.T) {
		t.Setenv("OGM_MAPPING_STRICT_VALIDATION", "true")
		cmd := NewRootCommand()
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"--no-color", "validate", "--manifest", "testdata/conflict.yaml"})
		assert.True(t, errors.Is(cmd.Execute(), ErrValidationFailed))
	})
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{name: "simple name", args: []string{"Bike"}, want: "example.com/bike.Bike (node)\n"},
		{name: "qualified name", args: []string{"example.com/bike.Frame"}, want: "example.com/bike.Frame (class)\n"},
		{name: "labels", args: []string{"--label", "Wheel", "--label", "FrontWheel"}, want: "example.com/bike.Wheel\n"},
		{name: "relationship type", args: []string{"--type", "RIDDEN_BY"}, want: "example.com/bike.Ride\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := run(t, append([]string{"resolve", "--manifest", bikeManifest}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}

	t.Run("needs exactly one query", func(t *testing.T) {
		_, _, err := run(t, "resolve", "--manifest", bikeManifest)
		require.Error(t, err)
		_, _, err = run(t, "resolve", "--manifest", bikeManifest, "Bike", "--type", "RIDDEN_BY")
		require.Error(t, err)
	})

	t.Run("unknown labels", func(t *testing.T) {
		_, _, err := run(t, "resolve", "--manifest", bikeManifest, "--label", "Spaceship")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no class matches labels")
	})
}

func TestDecode(t *testing.T) {
	t.Run("without a domain", func(t *testing.T) {
		out, _, err := run(t, "decode", "testdata/bike.json")
		require.NoError(t, err)
		assert.Contains(t, out, "nodes:         5\n")
		assert.Contains(t, out, "relationships: 4\n")
		assert.Regexp(t, `FrontWheel:Wheel\s+1\s+-`, out)
		assert.Regexp(t, `HAS_WHEEL\s+2\s+-`, out)
	})

	t.Run("resolves against the domain", func(t *testing.T) {
		out, _, err := run(t, "decode", "testdata/bike.json", "--manifest", bikeManifest)
		require.NoError(t, err)
		assert.Regexp(t, `BackWheel:Wheel\s+1\s+example\.com/bike\.Wheel`, out)
		assert.Regexp(t, `Saddle\s+1\s+example\.com/bike\.Saddle`, out)
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := run(t, "decode", "testdata/missing.json")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open")
	})

	t.Run("stdin", func(t *testing.T) {
		cmd := NewRootCommand()
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetIn(strings.NewReader(`{"graph": {"nodes": [{"id": 1, "labels": ["Bike"]}], "relationships": []}}`))
		cmd.SetArgs([]string{"--no-color", "decode", "-"})
		require.NoError(t, cmd.Execute())
		assert.Contains(t, out.String(), "nodes:         1\n")
	})
}

func TestManifestDirectory(t *testing.T) {
	out, _, err := run(t, "validate", "--manifest", "testdata")
	require.NoError(t, err)
	assert.Contains(t, out, "VALIDATION FAILED", "both manifests under testdata are loaded")
	assert.Contains(t, out, "example.com/bad.Both")
}
