package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/teknologi-umum/pesto/types"
)

// stdinName is the file name given to source read from "-".
const stdinName = "main"

// extLanguages infers the runtime from a file extension.
var extLanguages = map[string]string{
	".bf":   types.LanguageBrainfuck,
	".c":    types.LanguageC,
	".cc":   types.LanguageCPlusPlus,
	".cpp":  types.LanguageCPlusPlus,
	".lisp": types.LanguageCommonLisp,
	".cs":   types.LanguageDotnet,
	".go":   types.LanguageGo,
	".java": types.LanguageJava,
	".js":   types.LanguageJavascript,
	".jl":   types.LanguageJulia,
	".lua":  types.LanguageLua,
	".php":  types.LanguagePHP,
	".py":   types.LanguagePython,
	".rb":   types.LanguageRuby,
	".sql":  types.LanguageSQLite,
	".v":    types.LanguageV,
}

// languageForFile returns the language implied by name's extension.
func languageForFile(name string) (string, bool) {
	lang, ok := extLanguages[strings.ToLower(filepath.Ext(name))]
	return lang, ok
}

// readSources reads each path into a SourceFile. "-" reads stdin once.
// The entrypoint is the file whose base name equals entrypoint, or the
// first file when entrypoint is empty.
func readSources(paths []string, stdin io.Reader, entrypoint string) ([]types.SourceFile, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("at least one FILE is required")
	}

	files := make([]types.SourceFile, 0, len(paths))
	seenStdin := false
	for _, p := range paths {
		var (
			name string
			data []byte
			err  error
		)
		if p == "-" {
			if seenStdin {
				return nil, fmt.Errorf("stdin can only be read once")
			}
			seenStdin = true
			name = stdinName
			data, err = io.ReadAll(stdin)
		} else {
			name = filepath.Base(p)
			data, err = os.ReadFile(p)
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read %s: %w", p, err)
		}
		files = append(files, types.SourceFile{Name: name, Code: string(data)})
	}

	if entrypoint == "" {
		files[0].Entrypoint = true
		return files, nil
	}
	for i := range files {
		if files[i].Name == entrypoint {
			files[i].Entrypoint = true
			return files, nil
		}
	}
	return nil, fmt.Errorf("entrypoint %q is not one of the given files", entrypoint)
}
