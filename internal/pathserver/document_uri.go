package pathserver

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/gokulp01/pathy/internal/lsp/lsp/defines"
)

const (
	PYTHON_LANGUAGE_ID = "python"
)

var (
	ErrFileURIExpected = errors.New("a file: URI was expected")

	PYTHON_FILE_EXTENSIONS = []string{".py", ".pyi"}
)

// getPath returns a clean path from a file: URI.
func getPath[U ~string](uri U) (string, error) {
	u, err := url.Parse(string(uri))
	if err != nil {
		return "", fmt.Errorf("invalid URI: %s: %w", uri, err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("%w, actual is: %s", ErrFileURIExpected, string(uri))
	}

	path := u.Path
	//file:///C:/dir
	if len(path) >= 3 && path[0] == '/' && path[2] == ':' {
		path = path[1:]
	}
	return filepath.Clean(filepath.FromSlash(path)), nil
}

func getFileURI(path string) (defines.DocumentUri, error) {
	if path == "" {
		return "", errors.New("failed to get document URI: empty path")
	}
	if !filepath.IsAbs(path) {
		return "", fmt.Errorf("failed to get document URI: path is not absolute: %q", path)
	}

	slashed := filepath.ToSlash(path)
	if !strings.HasPrefix(slashed, "/") {
		slashed = "/" + slashed
	}
	u := url.URL{Scheme: "file", Path: slashed}
	return defines.DocumentUri(u.String()), nil
}

// isPythonDocument reports whether a document should be served: its language id is python or
// its path has a Python extension.
func isPythonDocument(uri defines.DocumentUri, languageId string) bool {
	if strings.EqualFold(languageId, PYTHON_LANGUAGE_ID) {
		return true
	}

	u, err := url.Parse(string(uri))
	if err != nil {
		return false
	}
	ext := strings.ToLower(filepath.Ext(u.Path))
	for _, pythonExt := range PYTHON_FILE_EXTENSIONS {
		if ext == pythonExt {
			return true
		}
	}
	return false
}
