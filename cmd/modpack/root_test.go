package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetRootCmd puts the command tree and viper back into their initial
// state so each case parses its own arguments.
func resetRootCmd(t *testing.T) {
	t.Helper()

	viper.Reset()
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	rootCmd.Flags().VisitAll(reset)
	rootCmd.PersistentFlags().VisitAll(reset)
	bindFlags()

	t.Cleanup(func() {
		rootCmd.SetArgs([]string{})
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})
}

// executeIn runs the root command with args inside dir.
func executeIn(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Chdir(dir)
	resetRootCmd(t)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(append([]string{}, args...))

	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootCmd_BuildFlags(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		wantRecord  bool
		wantStaging bool
	}{
		{name: "no flags", args: nil},
		{name: "short create_version_json", args: []string{"-v"}, wantRecord: true},
		{name: "long create_version_json", args: []string{"--create_version_json"}, wantRecord: true},
		{name: "short debug", args: []string{"-d"}, wantStaging: true},
		{name: "long debug", args: []string{"--debug"}, wantStaging: true},
		{name: "debug suppresses short create", args: []string{"-d", "-v"}, wantStaging: true},
		{name: "debug suppresses long create", args: []string{"--debug", "--create_version_json"}, wantStaging: true},
		{name: "combined short flags", args: []string{"-dv"}, wantStaging: true},
		{name: "quiet with create", args: []string{"-q", "-v"}, wantRecord: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, _ := setupProject(t)

			out, err := executeIn(t, dir, tt.args...)
			require.NoError(t, err)

			assert.FileExists(t, filepath.Join(dir, "NestRarityLocker_2.0.1.zip"))

			if tt.wantRecord {
				assert.FileExists(t, filepath.Join(dir, "version.json"))
				assert.Contains(t, out, "Done!")
			} else {
				assert.NoFileExists(t, filepath.Join(dir, "version.json"))
				assert.NotContains(t, out, "Done!")
			}

			if tt.wantStaging {
				assert.DirExists(t, filepath.Join(dir, ".temp", "reframework", "autorun"))
			} else {
				assert.NoDirExists(t, filepath.Join(dir, ".temp"))
			}
		})
	}
}

func TestRootCmd_FlagsDoNotLeakBetweenRuns(t *testing.T) {
	dir, _ := setupProject(t)
	_, err := executeIn(t, dir, "-d", "-v")
	require.NoError(t, err)

	second, _ := setupProject(t)
	_, err = executeIn(t, second)
	require.NoError(t, err)

	assert.NoDirExists(t, filepath.Join(second, ".temp"))
	assert.NoFileExists(t, filepath.Join(second, "version.json"))
}

func TestRootCmd_IgnoresEnvironment(t *testing.T) {
	t.Setenv("MODPACK_DEBUG", "true")
	t.Setenv("MODPACK_QUIET", "true")
	t.Setenv("MODPACK_PATHS_WORK_DIR", "src")

	dir, _ := setupProject(t)
	out, err := executeIn(t, dir, "-v")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "version.json"))
	assert.NoDirExists(t, filepath.Join(dir, ".temp"))
	assert.FileExists(t, filepath.Join(dir, "src", "nest_rarity_locker.lua"))
	assert.Contains(t, out, "Build complete")
}

func TestRootCmd_RejectsArguments(t *testing.T) {
	dir, _ := setupProject(t)

	_, err := executeIn(t, dir, "extra")
	assert.Error(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "NestRarityLocker_2.0.1.zip"))
}
