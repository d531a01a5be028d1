package buildinfo

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrintBuildData_Defaults(t *testing.T) {
	var buf bytes.Buffer
	PrintBuildData(&buf)
	require.Equal(t, "Build version: N/A\nBuild date: N/A\nBuild commit: N/A\n", buf.String())
}

func TestPrintBuildData_Set(t *testing.T) {
	oldV, oldD := Version, BuildDate
	t.Cleanup(func() { Version, BuildDate = oldV, oldD })
	Version, BuildDate = "v0.3.1", "2026-10-01"

	var buf bytes.Buffer
	PrintBuildData(&buf)
	require.Contains(t, buf.String(), "Build version: v0.3.1\n")
	require.Contains(t, buf.String(), "Build date: 2026-10-01\n")
}
