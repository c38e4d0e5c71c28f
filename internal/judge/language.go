// internal/judge/language.go
package judge

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/shlex"
)

// Command template placeholders
const (
	PlaceholderSource     = "{source}"
	PlaceholderExecutable = "{executable}"
)

// ErrUnsupportedLanguage is returned when neither the source extension nor an
// explicit language name matches a registry entry.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Language binds a language identifier to its compile/execute command
// templates and recognized file extensions. Entries are immutable.
type Language struct {
	Name       string
	Compile    string // compile command template; empty for interpreted languages
	Execute    string // execute command template
	Extensions []string
}

// Registry is the fixed, ordered set of supported languages. Resolution walks
// it in declaration order, first match wins. Adding a language means adding
// one entry here.
var Registry = []Language{
	{
		Name:       "Bash",
		Execute:    "bash {source}",
		Extensions: []string{".sh"},
	},
	{
		Name:       "C",
		Compile:    "gcc -std=gnu99 -o {executable} {source} -lm",
		Execute:    "./{executable}",
		Extensions: []string{".c"},
	},
	{
		Name:       "C++",
		Compile:    "g++ -std=gnu++11 -o {executable} {source} -lm",
		Execute:    "./{executable}",
		Extensions: []string{".cc", ".cpp"},
	},
	{
		Name:       "Go",
		Compile:    "go build {source}",
		Execute:    "go run {source}",
		Extensions: []string{".go"},
	},
	{
		Name:       "Java",
		Compile:    "javac {source}",
		Execute:    "java -cp . {executable}",
		Extensions: []string{".java"},
	},
	{
		Name:       "JavaScript",
		Execute:    "node {source}",
		Extensions: []string{".js"},
	},
	{
		Name:       "Perl",
		Execute:    "perl {source}",
		Extensions: []string{".pl"},
	},
	{
		Name:       "Python",
		Execute:    "python2 {source}",
		Extensions: []string{".py"},
	},
	{
		Name:       "Python 3",
		Execute:    "python3 {source}",
		Extensions: []string{".py3"},
	},
	{
		Name:       "Ruby",
		Execute:    "ruby {source}",
		Extensions: []string{".rb"},
	},
	{
		Name:       "Swift",
		Compile:    "swiftc -o {executable} {source}",
		Execute:    "./{executable}",
		Extensions: []string{".swift"},
	},
}

// Resolve selects the registry entry for a source file. An entry matches when
// its extension set contains the file's extension or its name equals the
// explicit hint case-insensitively; either alone is sufficient.
func Resolve(sourcePath, explicitName string) (Language, error) {
	return resolve(Registry, sourcePath, explicitName)
}

func resolve(registry []Language, sourcePath, explicitName string) (Language, error) {
	ext := filepath.Ext(sourcePath)
	for _, lang := range registry {
		if lang.matchesExtension(ext) || lang.matchesName(explicitName) {
			return lang, nil
		}
	}
	return Language{}, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, sourcePath)
}

func (l Language) matchesExtension(ext string) bool {
	for _, e := range l.Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

func (l Language) matchesName(name string) bool {
	return name != "" && strings.EqualFold(name, l.Name)
}

// Interpreted reports whether the language skips the compile phase.
func (l Language) Interpreted() bool {
	return l.Compile == ""
}

// CompileCommand resolves the compile template into a shell command string.
// The compile phase runs under the shell so that compiler pipelines keep
// working.
func (l Language) CompileCommand(source, executable string) string {
	return expandTemplate(l.Compile, source, executable)
}

// ExecuteCommand resolves the execute template into an argv slice.
func (l Language) ExecuteCommand(source, executable string) ([]string, error) {
	expanded := expandTemplate(l.Execute, source, executable)
	argv, err := shlex.Split(expanded)
	if err != nil {
		return nil, fmt.Errorf("parse execute command for %s: %w", l.Name, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("execute command for %s is empty after expansion", l.Name)
	}
	return argv, nil
}

func expandTemplate(tpl, source, executable string) string {
	expanded := strings.ReplaceAll(tpl, PlaceholderSource, source)
	return strings.ReplaceAll(expanded, PlaceholderExecutable, executable)
}

// ExecutableName derives the compiled artifact name from the source file:
// base name with the extension stripped.
func ExecutableName(sourcePath string) string {
	base := filepath.Base(sourcePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
