package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runMain(args ...string) (statusCode int, out string, errOut string) {
	outW := &bytes.Buffer{}
	errW := &bytes.Buffer{}
	statusCode = _main(append([]string{COMMAND_NAME}, args...), outW, errW)
	return statusCode, outW.String(), errW.String()
}

func TestHelp(t *testing.T) {
	t.Run("general help", func(t *testing.T) {
		for _, arg := range []string{HELP_SUBCMD, "--help", "-h"} {
			statusCode, out, _ := runMain(arg)
			assert.Zero(t, statusCode)
			assert.Equal(t, PATHY_CMD_HELP, out)
		}
	})

	t.Run("command-specific help", func(t *testing.T) {
		statusCode, out, _ := runMain(HELP_SUBCMD, COMPLETE_SUBCMD)
		assert.Zero(t, statusCode)
		assert.Contains(t, out, CLI_SUBCOMMAND_DESCRIPTION_MAP[COMPLETE_SUBCMD])
		assert.Contains(t, out, "-column")
		assert.Contains(t, out, "-settings")
	})

	t.Run("-h flag", func(t *testing.T) {
		statusCode, out, _ := runMain(LSP_SUBCMD, "-h")
		assert.Zero(t, statusCode)
		assert.Contains(t, out, "-tcp")
		assert.Contains(t, out, "-log-level")
	})

	t.Run("every command has a description", func(t *testing.T) {
		for _, subcmd := range SUBCOMMANDS {
			assert.Contains(t, CLI_SUBCOMMAND_DESCRIPTION_MAP, subcmd)
		}
	})
}

func TestUnknownCommand(t *testing.T) {
	t.Run("close to an existing command", func(t *testing.T) {
		statusCode, _, errOut := runMain("complet")
		assert.Equal(t, ERROR_STATUS_CODE, statusCode)
		assert.Equal(t, "unknown command 'complet', did you mean 'complete' ?\n", errOut)
	})

	t.Run("far from every command", func(t *testing.T) {
		statusCode, _, errOut := runMain("xxxxxxxxxx")
		assert.Equal(t, ERROR_STATUS_CODE, statusCode)
		assert.Contains(t, errOut, "unknown command 'xxxxxxxxxx'\n")
		assert.Contains(t, errOut, PATHY_CMD_HELP)
	})
}

func TestCompleteCommand(t *testing.T) {
	color.NoColor = true

	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "foo"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "foo.txt"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bar.txt"), nil, 0o644))

	file := filepath.Join(dir, "main.py")
	require.NoError(t, os.WriteFile(file, []byte("import os\nwith open(\"./fo"), 0o644))

	settingsFile := filepath.Join(dir, "settings.json")
	require.NoError(t, os.WriteFile(settingsFile, []byte(`{"max_results": 10}`), 0o644))

	t.Run("end of line", func(t *testing.T) {
		statusCode, out, errOut := runMain(COMPLETE_SUBCMD, "--file", file, "--line", "1", "--settings", settingsFile)
		require.Zero(t, statusCode, errOut)
		assert.Equal(t, "foo\tfoo/\t1:13-15\nfoo.txt\tfoo.txt\t1:13-15\n", out)
	})

	t.Run("explicit column", func(t *testing.T) {
		statusCode, out, errOut := runMain(COMPLETE_SUBCMD, "--file", file, "--line", "1", "--column", "14", "--settings", settingsFile)
		require.Zero(t, statusCode, errOut)
		assert.Equal(t, "foo\tfoo/\t1:13-14\nfoo.txt\tfoo.txt\t1:13-14\n", out)
	})

	t.Run("no completions", func(t *testing.T) {
		statusCode, out, errOut := runMain(COMPLETE_SUBCMD, "--file", file, "--line", "0", "--settings", settingsFile)
		require.Zero(t, statusCode, errOut)
		assert.Empty(t, out)
	})

	t.Run("YAML settings", func(t *testing.T) {
		yamlSettingsFile := filepath.Join(dir, "settings.yaml")
		require.NoError(t, os.WriteFile(yamlSettingsFile, []byte("enable: false\n"), 0o644))

		statusCode, out, errOut := runMain(COMPLETE_SUBCMD, "--file", file, "--line", "1", "--settings", yamlSettingsFile)
		require.Zero(t, statusCode, errOut)
		assert.Empty(t, out)
	})

	t.Run("line out of range", func(t *testing.T) {
		statusCode, _, errOut := runMain(COMPLETE_SUBCMD, "--file", file, "--line", "5", "--settings", settingsFile)
		assert.Equal(t, ERROR_STATUS_CODE, statusCode)
		assert.Contains(t, errOut, "no line 5")
	})

	t.Run("missing file flag", func(t *testing.T) {
		statusCode, _, errOut := runMain(COMPLETE_SUBCMD)
		assert.Equal(t, ERROR_STATUS_CODE, statusCode)
		assert.Contains(t, errOut, "missing --file")
	})

	t.Run("file does not exist", func(t *testing.T) {
		statusCode, _, errOut := runMain(COMPLETE_SUBCMD, "--file", filepath.Join(dir, "missing.py"), "--settings", settingsFile)
		assert.Equal(t, ERROR_STATUS_CODE, statusCode)
		assert.Contains(t, errOut, "failed to read the file")
	})

	t.Run("unsupported settings file", func(t *testing.T) {
		iniFile := filepath.Join(dir, "settings.ini")
		require.NoError(t, os.WriteFile(iniFile, nil, 0o644))

		statusCode, _, errOut := runMain(COMPLETE_SUBCMD, "--file", file, "--settings", iniFile)
		assert.Equal(t, ERROR_STATUS_CODE, statusCode)
		assert.Contains(t, errOut, "failed to load settings")
	})
}

func TestLanguageServerCommandArguments(t *testing.T) {
	t.Run("--tcp and --ws", func(t *testing.T) {
		statusCode, _, errOut := runMain(LSP_SUBCMD, "--tcp", DEFAULT_LSP_ADDRESS, "--ws", DEFAULT_LSP_ADDRESS)
		assert.Equal(t, ERROR_STATUS_CODE, statusCode)
		assert.Contains(t, errOut, "mutually exclusive")
	})

	t.Run("invalid log level", func(t *testing.T) {
		statusCode, _, errOut := runMain(LSP_SUBCMD, "--log-level", "loud")
		assert.Equal(t, ERROR_STATUS_CODE, statusCode)
		assert.Contains(t, errOut, "invalid log level")
	})

	t.Run("unknown flag", func(t *testing.T) {
		statusCode, _, errOut := runMain(LSP_SUBCMD, "--port", "80")
		assert.Equal(t, ERROR_STATUS_CODE, statusCode)
		assert.Contains(t, errOut, "lsp:")
	})
}
