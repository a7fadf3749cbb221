package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/gokulp01/pathy/internal/lsp/lsp"
	"github.com/gokulp01/pathy/internal/pathserver"
)

const (
	DEFAULT_LSP_ADDRESS = lsp.DEFAULT_ADDRESS
	LOG_FILE_PERMS      = 0o600
)

func LanguageServer(mainSubCommand string, mainSubCommandArgs []string, outW, errW io.Writer) (exitCode int) {
	//read & check arguments
	flags := flag.NewFlagSet(mainSubCommand, flag.ContinueOnError)
	flags.SetOutput(errW)

	var tcpAddr string
	var websocketAddr string
	var settingsFile string
	var logFile string
	var logLevel string

	flags.StringVar(&tcpAddr, "tcp", "", "listen for TCP connections on this address (example: "+DEFAULT_LSP_ADDRESS+")")
	flags.StringVar(&websocketAddr, "ws", "", "listen for WebSocket connections on this address (example: "+DEFAULT_LSP_ADDRESS+")")
	flags.StringVar(&settingsFile, "settings", "", "settings file (JSON, YAML or TOML), the user settings file is used if not set")
	flags.StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")
	flags.StringVar(&logLevel, "log-level", zerolog.InfoLevel.String(), "minimum level of logs")

	if showHelp(flags, mainSubCommandArgs, outW) { //only show help
		return
	}

	err := flags.Parse(mainSubCommandArgs)
	if err != nil {
		fmt.Fprintln(errW, "lsp:", err)
		return ERROR_STATUS_CODE
	}

	if tcpAddr != "" && websocketAddr != "" {
		fmt.Fprintln(errW, "lsp: --tcp and --ws are mutually exclusive flags")
		return ERROR_STATUS_CODE
	}

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		fmt.Fprintln(errW, "lsp: invalid log level:", err)
		return ERROR_STATUS_CODE
	}

	//create the logger

	var logOut io.Writer = errW
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, LOG_FILE_PERMS)
		if err != nil {
			fmt.Fprintln(errW, "lsp: failed to open the log file:", err)
			return ERROR_STATUS_CODE
		}
		defer f.Close()
		logOut = f
	}

	logger := zerolog.New(logOut).Level(level).With().Timestamp().Logger()

	settings, loadedFile, err := loadSettings(settingsFile, logger)
	if err != nil {
		fmt.Fprintln(errW, "lsp: failed to load settings:", err)
		return ERROR_STATUS_CODE
	}
	if loadedFile != "" {
		logger.Info().Str("file", loadedFile).Msg("settings loaded")
	}

	serverConfig := pathserver.LSPServerConfiguration{
		Logger:   logger,
		Version:  VERSION,
		Settings: &settings,
	}

	switch {
	case tcpAddr != "":
		serverConfig.TCP = &pathserver.NetworkServerConfiguration{Addr: tcpAddr}
	case websocketAddr != "":
		serverConfig.Websocket = &pathserver.NetworkServerConfiguration{Addr: websocketAddr}
	default:
		serverConfig.InternalStdio = &pathserver.InternalStdio{
			StdioInput:  os.Stdin,
			StdioOutput: outW,
		}
	}

	err = pathserver.StartLSPServer(serverConfig)
	if err != nil {
		logger.Err(err).Send()
		return ERROR_STATUS_CODE
	}
	return 0
}
