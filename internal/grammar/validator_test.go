package grammar

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labsim/internal/catalog"
)

const nvidiaSmiDef = `{
  "command": "nvidia-smi",
  "category": "gpu",
  "description": "NVIDIA System Management Interface",
  "global_options": [
    {"short": "q", "long": "query", "description": "Display GPU information"},
    {"short": "i", "long": "id", "arguments": "<id>", "description": "Target GPU"},
    {"short": "d", "long": "display", "arguments": "<sel>", "description": "Display selection"},
    {"flag": "pm", "arguments": "<0|1>", "description": "Persistence mode"},
    {"flag": "pl", "arguments": "<watts>", "description": "Power limit"}
  ],
  "subcommands": [
    {"name": "topo", "description": "Topology", "options": [
      {"short": "m", "long": "matrix", "description": "Topology matrix"}
    ]},
    {"name": "vgpu", "description": "vGPU information"}
  ]
}`

const dcgmiDef = `{
  "command": "dcgmi",
  "category": "gpu",
  "description": "NVIDIA Datacenter GPU Manager",
  "subcommands": [
    {"name": "discovery", "description": "Discover GPUs"},
    {"name": "diag", "description": "Diagnostics"},
    {"name": "stats", "description": "Statistics"},
    {"name": "config", "description": "Configuration"}
  ]
}`

const ibstatDef = `{
  "command": "ibstat",
  "category": "infiniband",
  "description": "Query InfiniBand device status"
}`

func loadedValidator(t *testing.T) *Validator {
	t.Helper()
	fsys := fstest.MapFS{
		"nvidia-smi.json": &fstest.MapFile{Data: []byte(nvidiaSmiDef)},
		"dcgmi.json":      &fstest.MapFile{Data: []byte(dcgmiDef)},
		"ibstat.json":     &fstest.MapFile{Data: []byte(ibstatDef)},
	}
	loader := catalog.NewLoader(fsys)
	_, err := loader.LoadAll(context.Background())
	require.NoError(t, err)
	return NewValidator(loader)
}

func TestValidateFlagKnownTokens(t *testing.T) {
	v := loadedValidator(t)

	// Dash spelling never matters; only the normalized token does.
	for _, token := range []string{"--query", "-q", "query", "q", "-query", "--q"} {
		res := v.ValidateFlag("nvidia-smi", token)
		assert.Equal(t, StateValid, res.State, "token %q", token)
		assert.True(t, res.Valid())
	}

	// Subcommand options are part of the flat option universe.
	assert.Equal(t, StateValid, v.ValidateFlag("nvidia-smi", "--matrix").State)

	// Trailing = from --flag=value spellings is tolerated.
	assert.Equal(t, StateValid, v.ValidateFlag("nvidia-smi", "--query=").State)
}

func TestValidateFlagTypoSuggestions(t *testing.T) {
	v := loadedValidator(t)

	res := v.ValidateFlag("nvidia-smi", "--qurey")
	assert.Equal(t, StateInvalid, res.State)
	assert.False(t, res.Valid())
	require.NotEmpty(t, res.Suggestions)
	assert.Equal(t, "query", res.Suggestions[0])

	res = v.ValidateFlag("nvidia-smi", "--displya")
	require.NotEmpty(t, res.Suggestions)
	assert.Equal(t, "display", res.Suggestions[0])
}

func TestValidateFlagSuggestionsBoundedAndOrdered(t *testing.T) {
	v := loadedValidator(t)

	// "p" sits within distance 2 of several short tokens.
	res := v.ValidateFlag("nvidia-smi", "-p")
	assert.Equal(t, StateInvalid, res.State)
	assert.LessOrEqual(t, len(res.Suggestions), 3)
	for i := 1; i < len(res.Suggestions); i++ {
		a := Levenshtein("p", res.Suggestions[i-1])
		b := Levenshtein("p", res.Suggestions[i])
		assert.LessOrEqual(t, a, b, "suggestions sorted by distance")
	}
}

func TestValidateFlagNoNearMatches(t *testing.T) {
	v := loadedValidator(t)

	res := v.ValidateFlag("nvidia-smi", "--completely-unrelated")
	assert.Equal(t, StateInvalid, res.State)
	assert.Empty(t, res.Suggestions, "nothing within edit distance 2")
}

func TestValidateFlagUnknownCommand(t *testing.T) {
	v := loadedValidator(t)

	res := v.ValidateFlag("nvidiasmi", "--query")
	assert.Equal(t, StateInvalid, res.State)
	assert.Empty(t, res.Suggestions)
}

func TestValidateFlagNotLoadedFailsOpen(t *testing.T) {
	v := NewValidator(catalog.NewLoader(fstest.MapFS{}))

	res := v.ValidateFlag("nvidia-smi", "--anything")
	assert.Equal(t, StateNotLoaded, res.State)
	assert.True(t, res.Valid(), "validation fails open before the registry loads")
}

func TestValidateSubcommand(t *testing.T) {
	v := loadedValidator(t)

	assert.Equal(t, StateValid, v.ValidateSubcommand("dcgmi", "discovery").State)

	res := v.ValidateSubcommand("dcgmi", "discovey")
	assert.Equal(t, StateInvalid, res.State)
	require.NotEmpty(t, res.Suggestions)
	assert.Equal(t, "discovery", res.Suggestions[0])
}

func TestValidateSubcommandNoneDeclared(t *testing.T) {
	v := loadedValidator(t)

	res := v.ValidateSubcommand("ibstat", "status")
	assert.Equal(t, StateInvalid, res.State)
	assert.Empty(t, res.Suggestions)
}

func TestBuildFlagSchema(t *testing.T) {
	v := loadedValidator(t)

	schema, ok := v.FlagSchema("nvidia-smi")
	require.True(t, ok)

	assert.False(t, schema["query"], "boolean flag")
	assert.False(t, schema["q"])
	assert.True(t, schema["id"], "value-taking flag")
	assert.True(t, schema["i"])
	assert.True(t, schema["pm"])
	assert.False(t, schema["matrix"], "subcommand options included")

	_, ok = v.FlagSchema("ibstat")
	assert.False(t, ok, "no declared options means no schema")

	_, ok = v.FlagSchema("nonexistent")
	assert.False(t, ok)
}
