package input

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "properties.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadProperties_FromFile(t *testing.T) {
	path := writeTempFile(t, "The Alamo\n\n  San Fernando Cathedral  \n\nTower of the Americas\n")

	names, err := ReadProperties(path, nil, strings.NewReader(""), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"The Alamo", "San Fernando Cathedral", "Tower of the Americas"}, names)
}

func TestReadProperties_FileTakesPrecedence(t *testing.T) {
	path := writeTempFile(t, "From File\n")

	names, err := ReadProperties(path, []string{"From Args"}, strings.NewReader("From Stdin\n"), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"From File"}, names)
}

func TestReadProperties_FileNotFound(t *testing.T) {
	_, err := ReadProperties("/nonexistent/properties.txt", nil, strings.NewReader(""), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestReadProperties_FromArgs(t *testing.T) {
	names, err := ReadProperties("", []string{" The Alamo ", "", "Mission San Jose"}, strings.NewReader("ignored\n"), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"The Alamo", "Mission San Jose"}, names)
}

func TestReadProperties_BlankArgsFallThroughToStdin(t *testing.T) {
	names, err := ReadProperties("", []string{"  ", ""}, strings.NewReader("From Stdin\n"), false)
	require.NoError(t, err)
	assert.Equal(t, []string{"From Stdin"}, names)
}

func TestReadProperties_FromStdin(t *testing.T) {
	stdin := strings.NewReader("The Alamo\n\nMission Concepcion\n")

	names, err := ReadProperties("", nil, stdin, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"The Alamo", "Mission Concepcion"}, names)
}

func TestReadProperties_TTYWithoutInput(t *testing.T) {
	_, err := ReadProperties("", nil, strings.NewReader(""), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no properties provided")
}
