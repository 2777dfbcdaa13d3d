package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to flag names to form environment variables,
// e.g. --source-files-folder <- TEMPLATE_BUILDER_SOURCE_FILES_FOLDER.
const EnvPrefix = "TEMPLATE_BUILDER"

// BindEnv fills every flag of cmd the user did not set on the command line
// from its environment variable. Flags given explicitly always win.
func BindEnv(cmd *cobra.Command) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var errs []error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed || !v.IsSet(f.Name) {
			return
		}
		if err := cmd.Flags().Set(f.Name, v.GetString(f.Name)); err != nil {
			errs = append(errs, fmt.Errorf("invalid value for %s_%s: %w", EnvPrefix, EnvName(f.Name), err))
		}
	})
	return errors.Join(errs...)
}

// EnvName returns the environment suffix for a flag name.
func EnvName(flag string) string {
	return strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}
