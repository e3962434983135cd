package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"roster", "import"},
		{"timetable", "import"},
		{"outing", "exit"},
		{"outing", "checkin"},
		{"migrate", "up"},
		{"migrate", "down"},
		{"jobs", "purge-expired"},
	} {
		cmd, _, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestTimetableImport_RequiresExactlyOneSource(t *testing.T) {
	cmd := newTimetableCmd()
	cmd.SetArgs([]string{"import", "--year", "2"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--file")

	cmd = newTimetableCmd()
	cmd.SetArgs([]string{"import", "--file", "a.ics"})
	err = cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--year")
}

func TestRosterImport_MissingFile(t *testing.T) {
	cmd := newRosterCmd()
	cmd.SetArgs([]string{"import", "does-not-exist.xlsx"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "打开文件失败")
}

func TestOutingCheckin_RejectsNonCheckpointStatus(t *testing.T) {
	cmd := newOutingCmd()
	cmd.SetArgs([]string{"checkin", "--regno", "R1", "--rfid", "T1", "--status", "not_arrived"})
	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--status")
}
