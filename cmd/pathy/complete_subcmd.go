package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/gokulp01/pathy/internal/dircache"
	"github.com/gokulp01/pathy/internal/pathcompletion"
	"github.com/gokulp01/pathy/internal/pathquery"
)

var (
	directoryColor = color.New(color.FgBlue, color.Bold)
	rangeColor     = color.New(color.Faint)
)

// CompleteFile prints the completions at a position of a file, one item per line.
func CompleteFile(mainSubCommand string, mainSubCommandArgs []string, outW, errW io.Writer) (exitCode int) {
	//read & check arguments
	flags := flag.NewFlagSet(mainSubCommand, flag.ContinueOnError)
	flags.SetOutput(errW)

	var file string
	var line int
	var column int
	var root string
	var settingsFile string

	flags.StringVar(&file, "file", "", "Python file")
	flags.IntVar(&line, "line", 0, "zero-based line of the cursor")
	flags.IntVar(&column, "column", -1, "column of the cursor in UTF-16 code units, the end of the line if not set")
	flags.StringVar(&root, "root", "", "workspace root")
	flags.StringVar(&settingsFile, "settings", "", "settings file (JSON, YAML or TOML), the user settings file is used if not set")

	if showHelp(flags, mainSubCommandArgs, outW) { //only show help
		return
	}

	err := flags.Parse(mainSubCommandArgs)
	if err != nil {
		fmt.Fprintln(errW, "complete:", err)
		return ERROR_STATUS_CODE
	}

	if file == "" {
		fmt.Fprintln(errW, "complete: missing --file")
		return ERROR_STATUS_CODE
	}

	if line < 0 {
		fmt.Fprintln(errW, "complete: --line should be positive")
		return ERROR_STATUS_CODE
	}

	file, err = filepath.Abs(file)
	if err != nil {
		fmt.Fprintln(errW, "complete:", err)
		return ERROR_STATUS_CODE
	}

	content, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintln(errW, "complete: failed to read the file:", err)
		return ERROR_STATUS_CODE
	}
	text := string(content)

	logger := zerolog.New(zerolog.ConsoleWriter{Out: errW}).Level(zerolog.WarnLevel)

	settings, _, err := loadSettings(settingsFile, logger)
	if err != nil {
		fmt.Fprintln(errW, "complete: failed to load settings:", err)
		return ERROR_STATUS_CODE
	}

	if column < 0 {
		lineText, _, ok := pathcompletion.LineAt(text, line)
		if !ok {
			fmt.Fprintf(errW, "complete: the file has no line %d\n", line)
			return ERROR_STATUS_CODE
		}
		column = pathquery.UTF16Len(lineText)
	}

	completer := pathcompletion.NewCompleter(dircache.New(settings.CacheTTL, settings.CacheMaxDirs), nil, logger)

	items := completer.Complete(pathcompletion.Request{
		Text:          text,
		Line:          line,
		Column:        column,
		FileDir:       filepath.Dir(file),
		WorkspaceRoot: root,
	}, settings)

	for _, item := range items {
		label := item.Label
		if item.IsDir {
			label = directoryColor.Sprint(label)
		}
		r := item.EditRange
		fmt.Fprintf(outW, "%s\t%s\t%s\n", label, item.InsertText, rangeColor.Sprintf("%d:%d-%d", r.Line, r.StartColumn, r.EndColumn))
	}
	return 0
}
