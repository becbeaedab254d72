// Copyright 2018 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package env maps AMADEUS_<command>_<flag> environment variables onto
// a command's own flags, scoped to the specific flag names the caller
// passes in rather than every flag a cobra.Command happens to carry.
package env

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Bind overrides any of flagNames still unset on cmd with the value of
// its AMADEUS_<cmd>_<flag> environment variable, dashes folded to
// underscores (e.g. "config-file" on the "run" command reads
// AMADEUS_RUN_CONFIG_FILE). flagNames must name flags registered on
// cmd; it is the caller's job to list exactly the ones it wants
// environment-overridable, rather than exposing every flag a command
// happens to carry.
func Bind(cmd *cobra.Command, flagNames ...string) error {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvPrefix(fmt.Sprintf("amadeus_%s", cmd.Name()))
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	var errs []string
	for _, name := range flagNames {
		f := cmd.Flags().Lookup(name)
		if f == nil || f.Changed {
			continue
		}
		configName := strings.ReplaceAll(name, "-", "_")
		if !v.IsSet(configName) {
			continue
		}
		if err := f.Value.Set(fmt.Sprintf("%v", v.Get(configName))); err != nil {
			errs = append(errs, err.Error())
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("env: mapping environment variables to command flags: %s", strings.Join(errs, "; "))
}
