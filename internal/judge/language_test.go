package judge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveEveryRegisteredExtension(t *testing.T) {
	for _, lang := range Registry {
		for _, ext := range lang.Extensions {
			got, err := Resolve("submission"+ext, "")
			require.NoError(t, err, "extension %s", ext)
			assert.Equal(t, lang.Name, got.Name, "extension %s", ext)
		}
	}
}

func TestResolveUnknownExtension(t *testing.T) {
	_, err := Resolve("submission.xyz", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestResolveExplicitName(t *testing.T) {
	tests := []struct {
		name     string
		hint     string
		expected string
	}{
		{"exact", "Python 3", "Python 3"},
		{"lowercase", "python 3", "Python 3"},
		{"uppercase", "RUBY", "Ruby"},
		{"cpp", "c++", "C++"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// The extension is unknown; only the name hint can match.
			got, err := Resolve("submission.xyz", tc.hint)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got.Name)
		})
	}
}

func TestResolveFirstMatchWins(t *testing.T) {
	// .py matches Python before the name hint reaches Python 3; iteration
	// order decides, and either kind of match is sufficient.
	got, err := Resolve("submission.py", "Python 3")
	require.NoError(t, err)
	assert.Equal(t, "Python", got.Name)
}

func TestResolveEmptyHintNeverMatches(t *testing.T) {
	_, err := Resolve("submission.xyz", "")
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestInterpreted(t *testing.T) {
	bash, err := Resolve("run.sh", "")
	require.NoError(t, err)
	assert.True(t, bash.Interpreted())

	c, err := Resolve("run.c", "")
	require.NoError(t, err)
	assert.False(t, c.Interpreted())
}

func TestExecutableName(t *testing.T) {
	assert.Equal(t, "sum", ExecutableName("path/to/sum.cpp"))
	assert.Equal(t, "script", ExecutableName("script.py3"))
	assert.Equal(t, "noext", ExecutableName("noext"))
}

func TestCompileCommand(t *testing.T) {
	c, err := Resolve("sum.c", "")
	require.NoError(t, err)
	assert.Equal(t, "gcc -std=gnu99 -o sum sum.c -lm", c.CompileCommand("sum.c", "sum"))
}

func TestExecuteCommand(t *testing.T) {
	java, err := Resolve("Main.java", "")
	require.NoError(t, err)
	argv, err := java.ExecuteCommand("Main.java", "Main")
	require.NoError(t, err)
	assert.Equal(t, []string{"java", "-cp", ".", "Main"}, argv)

	c, err := Resolve("sum.c", "")
	require.NoError(t, err)
	argv, err = c.ExecuteCommand("sum.c", "sum")
	require.NoError(t, err)
	assert.Equal(t, []string{"./sum"}, argv)
}
