package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	configcmd "github.com/payb0y/lindo-clean/internal/cli/configcmd"
	servecmd "github.com/payb0y/lindo-clean/internal/cli/servecmd"
	statecmd "github.com/payb0y/lindo-clean/internal/cli/statecmd"
)

func main() {
	root := &cobra.Command{Use: "lindo", Short: "Lindo shell host CLI", SilenceUsage: true}

	root.AddCommand(servecmd.New())
	root.AddCommand(statecmd.New())
	root.AddCommand(configcmd.New())

	// completion
	comp := &cobra.Command{
		Use:       "completion [bash|zsh|fish|powershell]",
		Short:     "Generate shell completion",
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		Args:      cobra.ExactArgs(1),
	}
	comp.RunE = func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return root.GenBashCompletion(os.Stdout)
		case "zsh":
			return root.GenZshCompletion(os.Stdout)
		case "fish":
			return root.GenFishCompletion(os.Stdout, true)
		case "powershell":
			return root.GenPowerShellCompletionWithDesc(os.Stdout)
		}
		log.Fatalf("unknown shell: %s", args[0])
		return nil
	}
	root.AddCommand(comp)

	if err := root.Execute(); err != nil {
		log.Fatal(err)
	}
}
