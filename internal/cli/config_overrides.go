package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mithrel/genieblog/internal/config"
)

// applyConfigFlagOverrides copies every flag the user actually set into v.
// Flags named after a config key map to it directly; extra maps other flag
// names to keys.
func applyConfigFlagOverrides(cmd *cobra.Command, v *viper.Viper, extra map[string]string) {
	known := make(map[string]bool)
	for _, opt := range config.GetConfigOptions() {
		known[opt.Key] = true
	}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		key, ok := extra[f.Name]
		if !ok {
			if !known[f.Name] {
				return
			}
			key = f.Name
		}
		v.Set(key, flagValue(f))
	})
}

// flagValue returns a slice for slice flags and the string form otherwise;
// viper casts strings on read.
func flagValue(f *pflag.Flag) any {
	if sv, ok := f.Value.(pflag.SliceValue); ok {
		return sv.GetSlice()
	}
	return f.Value.String()
}
