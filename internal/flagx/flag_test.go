package flagx

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilterArgs_SeparateValues(t *testing.T) {
	args := []string{"-a", "localhost:8080", "-x", "ignored", "-t", "5s"}
	got := FilterArgs(args, []string{"-a", "-t"})
	require.Equal(t, []string{"-a", "localhost:8080", "-t", "5s"}, got)
}

func TestFilterArgs_InlineValues(t *testing.T) {
	args := []string{"--addr=localhost:8080", "--other=1"}
	got := FilterArgs(args, []string{"--addr"})
	require.Equal(t, []string{"--addr=localhost:8080"}, got)
}

func TestFilterArgs_FlagWithoutValue(t *testing.T) {
	args := []string{"-a", "-t", "5s"}
	got := FilterArgs(args, []string{"-a"})
	require.Equal(t, []string{"-a"}, got)
}

func TestJsonConfigFlags(t *testing.T) {
	orig := os.Args
	defer func() { os.Args = orig }()

	os.Args = []string{"ispcli", "-c", "conf.json", "-a", "somewhere"}
	require.Equal(t, "conf.json", JsonConfigFlags())

	os.Args = []string{"ispcli"}
	require.Equal(t, "", JsonConfigFlags())
}
