package pathserver

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokulp01/pathy/internal/lsp/lsp/defines"
)

func TestGetPath(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip()
	}

	t.Run("file URI", func(t *testing.T) {
		path, err := getPath("file:///home/user/project/main.py")
		require.NoError(t, err)
		assert.Equal(t, "/home/user/project/main.py", path)
	})

	t.Run("percent-encoded file URI", func(t *testing.T) {
		path, err := getPath("file:///home/user/my%20project/main.py")
		require.NoError(t, err)
		assert.Equal(t, "/home/user/my project/main.py", path)
	})

	t.Run("path is cleaned", func(t *testing.T) {
		path, err := getPath("file:///home/user/./project/../main.py")
		require.NoError(t, err)
		assert.Equal(t, "/home/user/main.py", path)
	})

	t.Run("non-file URI", func(t *testing.T) {
		_, err := getPath("untitled:Untitled-1")
		assert.ErrorIs(t, err, ErrFileURIExpected)
	})
}

func TestGetFileURI(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip()
	}

	uri, err := getFileURI("/home/user/my project/main.py")
	require.NoError(t, err)
	assert.Equal(t, defines.DocumentUri("file:///home/user/my%20project/main.py"), uri)

	path, err := getPath(uri)
	require.NoError(t, err)
	assert.Equal(t, filepath.FromSlash("/home/user/my project/main.py"), path)

	_, err = getFileURI("relative/main.py")
	assert.Error(t, err)

	_, err = getFileURI("")
	assert.Error(t, err)
}

func TestIsPythonDocument(t *testing.T) {
	testCases := []struct {
		uri        defines.DocumentUri
		languageId string
		expected   bool
	}{
		{"file:///a/main.py", "python", true},
		{"untitled:Untitled-2", "Python", true},
		{"untitled:Untitled-3", "PYTHON", true},
		{"file:///a/main.py", "", true},
		{"file:///a/main.PY", "", true},
		{"file:///a/types.pyi", "plaintext", true},
		{"untitled:Untitled-1", "python", true},
		{"file:///a/notes.md", "markdown", false},
		{"file:///a/script", "", false},
	}

	for _, testCase := range testCases {
		t.Run(string(testCase.uri)+" "+testCase.languageId, func(t *testing.T) {
			assert.Equal(t, testCase.expected, isPythonDocument(testCase.uri, testCase.languageId))
		})
	}
}
