// Package configcmd validates shell host configs without starting anything.
package configcmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/payb0y/lindo-clean/internal/cli/common"
	"github.com/payb0y/lindo-clean/internal/cli/servecmd"
)

// New returns the `lindo config` command group.
func New() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Work with shell host configs"}

	var cfgFile, profile string
	var includes []string
	var strict, printCfg bool
	test := &cobra.Command{
		Use:   "test",
		Short: "Validate and optionally print the effective config",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfgFile == "" {
				return fmt.Errorf("--config required")
			}
			v, err := common.LoadWithIncludes(cfgFile, includes)
			if err != nil {
				return err
			}
			if v, err = common.ApplyProfile(v, profile); err != nil {
				return err
			}
			if err := common.ValidateShellConfig(v, strict); err != nil {
				return err
			}
			c, err := servecmd.Decode(v)
			if err != nil {
				return err
			}
			if printCfg {
				if c.Settings.Secret != "" {
					c.Settings.Secret = "******"
				}
				data, err := json.MarshalIndent(c, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "config OK (%s:%d)\n", c.Host, c.Port)
			return nil
		},
	}
	test.Flags().StringVarP(&cfgFile, "config", "f", "", "config file path")
	test.Flags().StringSliceVar(&includes, "include", nil, "extra config files merged in order")
	test.Flags().StringVar(&profile, "profile", "", "profile from the profiles section")
	test.Flags().BoolVar(&strict, "strict", false, "also require the asset directories to exist")
	test.Flags().BoolVar(&printCfg, "print", false, "print the effective config as json")

	cmd.AddCommand(test)
	return cmd
}
