package privilege

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"labsim/internal/catalog"
)

func nvidiaSmiDef() *catalog.CommandDefinition {
	return &catalog.CommandDefinition{
		Command: "nvidia-smi",
		StateInteractions: &catalog.StateInteractions{
			ReadsFrom: []catalog.StateEffect{
				{StateDomain: "gpu_state", Fields: []string{"temperature", "utilization"}},
			},
			WritesTo: []catalog.StateEffect{
				{
					StateDomain:       "gpu_state",
					Fields:            []string{"persistence_mode"},
					RequiresPrivilege: "root",
					RequiresFlags:     []string{"pm"},
				},
				{
					StateDomain:       "gpu_state",
					Fields:            []string{"power_limit"},
					RequiresPrivilege: "root",
					RequiresFlags:     []string{"pl"},
				},
			},
		},
	}
}

func legacyDef() *catalog.CommandDefinition {
	return &catalog.CommandDefinition{
		Command: "nvidia-smi",
		Permissions: &catalog.Permissions{
			ReadOperations:  "Any user can query device state",
			WriteOperations: "Requires root privileges",
		},
	}
}

func TestRequiresElevationStructured(t *testing.T) {
	r := NewResolver()
	def := nvidiaSmiDef()

	assert.True(t, r.RequiresElevation(def, []string{"-pm"}))
	assert.True(t, r.RequiresElevation(def, []string{"pm"}), "dash spelling does not matter")
	assert.True(t, r.RequiresElevation(def, []string{"-pl"}))
	assert.False(t, r.RequiresElevation(def, []string{"-q"}), "read flags never need root")
	assert.False(t, r.RequiresElevation(def, nil))
}

func TestRequiresElevationAnyFlagPosition(t *testing.T) {
	r := NewResolver()
	def := nvidiaSmiDef()

	// The gated flag counts wherever it appears in the invocation, as in
	// the documented usage "nvidia-smi -i 0 -pl 250".
	assert.True(t, r.RequiresElevation(def, []string{"-i", "-pl"}))
	assert.True(t, r.RequiresElevation(def, []string{"-q", "-i", "-pm"}))
	assert.False(t, r.RequiresElevation(def, []string{"-q", "-i"}))
}

func TestRequiresElevationUngatedWrite(t *testing.T) {
	r := NewResolver()
	def := &catalog.CommandDefinition{
		Command: "ibportstate",
		StateInteractions: &catalog.StateInteractions{
			WritesTo: []catalog.StateEffect{
				{StateDomain: "port_state", Fields: []string{"state"}, RequiresPrivilege: "root"},
			},
		},
	}

	// No requires_flags restriction: every invocation needs root.
	assert.True(t, r.RequiresElevation(def, nil))
	assert.True(t, r.RequiresElevation(def, []string{"--anything"}))
}

func TestRequiresElevationLegacyFallback(t *testing.T) {
	r := NewResolver()
	def := legacyDef()

	assert.True(t, r.RequiresElevation(def, []string{"-pm"}))
	assert.True(t, r.RequiresElevation(def, []string{"-e"}))
	assert.True(t, r.RequiresElevation(def, []string{"-R"}))
	assert.True(t, r.RequiresElevation(def, []string{"-i", "-R"}), "write flag counts in any position")
	assert.False(t, r.RequiresElevation(def, []string{"-q"}), "q is not a known write flag")
	assert.False(t, r.RequiresElevation(def, []string{"-query"}))
}

func TestRequiresElevationNoSignals(t *testing.T) {
	r := NewResolver()

	// No structured effects and no root mention: nothing needs elevation.
	def := &catalog.CommandDefinition{
		Command:     "ibstat",
		Permissions: &catalog.Permissions{ReadOperations: "any user"},
	}
	assert.False(t, r.RequiresElevation(def, []string{"-pm"}))
}

func TestWriteEffects(t *testing.T) {
	r := NewResolver()
	def := nvidiaSmiDef()

	effects := r.WriteEffects(def, []string{"-pm"})
	assert.Len(t, effects, 1)
	assert.Equal(t, []string{"persistence_mode"}, effects[0].Fields)

	effects = r.WriteEffects(def, []string{"--pl"})
	assert.Len(t, effects, 1)
	assert.Equal(t, []string{"power_limit"}, effects[0].Fields)

	assert.Empty(t, r.WriteEffects(def, []string{"-q"}), "read flags trigger no writes")
}

func TestWriteEffectsUnionAcrossFlags(t *testing.T) {
	r := NewResolver()
	def := nvidiaSmiDef()

	// A read flag alongside a gated write flag still triggers the write.
	effects := r.WriteEffects(def, []string{"-i", "-pl"})
	assert.Len(t, effects, 1)
	assert.Equal(t, []string{"power_limit"}, effects[0].Fields)

	// Two gated flags trigger both effects, each once.
	effects = r.WriteEffects(def, []string{"-pm", "-pl"})
	assert.Len(t, effects, 2)
	assert.Equal(t, []string{"persistence_mode"}, effects[0].Fields)
	assert.Equal(t, []string{"power_limit"}, effects[1].Fields)
}

func TestWriteEffectsUngatedAlwaysApply(t *testing.T) {
	r := NewResolver()
	def := &catalog.CommandDefinition{
		Command: "docker",
		StateInteractions: &catalog.StateInteractions{
			WritesTo: []catalog.StateEffect{
				{StateDomain: "running_containers", Fields: []string{"containers"}},
			},
		},
	}

	assert.Len(t, r.WriteEffects(def, nil), 1)
	assert.Len(t, r.WriteEffects(def, []string{"--detach"}), 1)
}

func TestTouchedDomains(t *testing.T) {
	r := NewResolver()

	reads, writes := r.TouchedDomains(nvidiaSmiDef())
	assert.Equal(t, []string{"gpu_state"}, reads)
	assert.Equal(t, []string{"gpu_state"}, writes, "write domains deduplicated across effects")

	reads, writes = r.TouchedDomains(legacyDef())
	assert.Nil(t, reads)
	assert.Nil(t, writes)
}

func TestReadDomains(t *testing.T) {
	r := NewResolver()

	assert.Equal(t, []string{"gpu_state"}, r.ReadDomains(nvidiaSmiDef()))
	assert.Empty(t, r.ReadDomains(legacyDef()))

	def := &catalog.CommandDefinition{
		StateInteractions: &catalog.StateInteractions{
			ReadsFrom: []catalog.StateEffect{
				{StateDomain: "gpu_state"},
				{StateDomain: "node_state"},
				{StateDomain: "gpu_state"},
			},
		},
	}
	assert.Equal(t, []string{"gpu_state", "node_state"}, r.ReadDomains(def), "deduplicated in order")
}
