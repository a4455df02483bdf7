package grammar

import "labsim/internal/catalog"

// FlagSchema derives the tokenizer contract for a command: a map from
// normalized option token to whether the option consumes the following
// input token as a value. Global options and every subcommand's options
// contribute to the same flat map; a later declaration of the same
// normalized token overwrites the earlier one.
//
// ok=false distinguishes "command unknown or declares no options" from an
// empty schema, and is also returned while the registry is still loading.
func (v *Validator) FlagSchema(command string) (map[string]bool, bool) {
	reg, loaded := v.source.Registry()
	if !loaded {
		return nil, false
	}
	def, ok := reg.Get(command)
	if !ok {
		return nil, false
	}
	return BuildFlagSchema(def)
}

// BuildFlagSchema is the pure form of FlagSchema: a function of the
// definition alone, so repeated calls yield identical maps.
func BuildFlagSchema(def *catalog.CommandDefinition) (map[string]bool, bool) {
	opts := def.AllOptions()
	if len(opts) == 0 {
		return nil, false
	}
	schema := make(map[string]bool, len(opts)*2)
	for _, opt := range opts {
		takesValue := opt.TakesValue()
		for _, t := range opt.Tokens() {
			schema[NormalizeToken(t)] = takesValue
		}
	}
	return schema, true
}
