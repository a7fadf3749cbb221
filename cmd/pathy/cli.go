package main

import (
	"flag"
	"fmt"
	"io"
	"slices"

	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

const (
	LSP_SUBCMD                   = "lsp"
	COMPLETE_SUBCMD              = "complete"
	INSTALL_COMPLETIONS_SUBCMD   = "install-completions"
	UNINSTALL_COMPLETIONS_SUBCMD = "uninstall-completions"
	HELP_SUBCMD                  = "help"
)

var (
	SUBCOMMANDS = []string{
		LSP_SUBCMD, COMPLETE_SUBCMD, HELP_SUBCMD,
		INSTALL_COMPLETIONS_SUBCMD, UNINSTALL_COMPLETIONS_SUBCMD,
	}

	HELP_SUBCMD_EQUIVALENTS = []string{"--help", "-help", "-h"}

	CLI_SUBCOMMAND_DESCRIPTIONS = [][2]string{
		{LSP_SUBCMD, "start the language server (default command), stdio is used if no network flag is set"},
		{COMPLETE_SUBCMD, "print the path completions at a position of a Python file"},

		{INSTALL_COMPLETIONS_SUBCMD, "install CLI completions by adding the completion command to the detected rc file (supported shells are bash, zsh and fish)"},
		{UNINSTALL_COMPLETIONS_SUBCMD, "uninstall CLI completions by removing the completion command from the detected rc file"},
		{HELP_SUBCMD, "show the general help or command-specific help"},
	}

	CLI_SUBCOMMAND_DESCRIPTION_MAP = map[string]string{}

	PATHY_CMD_HELP = "commands:\n"

	predictSettingsFile = predict.Files("*.{json,yaml,yml,toml}")

	cmd = &complete.Command{
		Sub: map[string]*complete.Command{
			LSP_SUBCMD: {
				Flags: map[string]complete.Predictor{
					"tcp":       predict.Set{DEFAULT_LSP_ADDRESS},
					"ws":        predict.Set{DEFAULT_LSP_ADDRESS},
					"settings":  predictSettingsFile,
					"log-file":  predict.Files("*"),
					"log-level": predict.Set{"trace", "debug", "info", "warn", "error", "disabled"},
				},
			},
			COMPLETE_SUBCMD: {
				Flags: map[string]complete.Predictor{
					"file":     predict.Files("*.py"),
					"line":     predict.Nothing,
					"column":   predict.Nothing,
					"root":     predict.Dirs("*"),
					"settings": predictSettingsFile,
				},
			},
			HELP_SUBCMD:                  {},
			INSTALL_COMPLETIONS_SUBCMD:   {},
			UNINSTALL_COMPLETIONS_SUBCMD: {},
		},
	}
)

func init() {
	for _, entry := range CLI_SUBCOMMAND_DESCRIPTIONS {
		cmd, desc := entry[0], entry[1]
		CLI_SUBCOMMAND_DESCRIPTION_MAP[cmd] = desc
		PATHY_CMD_HELP += "\t" + cmd + " - " + desc + "\n"
	}
	PATHY_CMD_HELP += "\nType `pathy help <command>` to get command-specific help.\n"
}

func showHelp(flags *flag.FlagSet, args []string, out io.Writer) bool {
	//only show help
	if slices.Contains(args, "-h") || slices.Contains(args, "--help") {

		cmd := flags.Name()
		if desc, ok := CLI_SUBCOMMAND_DESCRIPTION_MAP[cmd]; ok {
			fmt.Fprintln(out, desc)
		}

		flags.SetOutput(out)
		fmt.Fprint(out, "\noptions:\n")
		flags.PrintDefaults()

		return true
	}

	return false
}
