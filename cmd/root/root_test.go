package root_test

import (
	"testing"

	"fjacquet/receipt-processor/cmd/root"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	// Flags are registered by main() in production; tests register them once
	// here instead.
	root.Init()
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "receipt-processor", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "categorize, validate and export")
	assert.Contains(t, root.Cmd.Long, "expense records ready for accounting export")
	assert.NotNil(t, root.Cmd.Run)
	assert.NotNil(t, root.Cmd.PersistentPreRun)
	assert.NotNil(t, root.Cmd.PersistentPostRun)
}

func TestRootCommand_Flags(t *testing.T) {
	inputFlag := root.Cmd.PersistentFlags().Lookup("input")
	require.NotNil(t, inputFlag)
	assert.Equal(t, "i", inputFlag.Shorthand)
	assert.Equal(t, "", inputFlag.DefValue)

	outputFlag := root.Cmd.PersistentFlags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)
	assert.Equal(t, "", outputFlag.DefValue)

	assert.NotNil(t, root.Cmd.PersistentFlags().Lookup("log-level"))
	assert.NotNil(t, root.Cmd.PersistentFlags().Lookup("log-format"))
}

func TestRootCommand_Run(t *testing.T) {
	cmd := &cobra.Command{}

	assert.NotPanics(t, func() {
		root.Cmd.Run(cmd, []string{})
	})
}

func TestSharedFlags_Access(t *testing.T) {
	originalInput := root.SharedFlags.Input
	originalOutput := root.SharedFlags.Output
	defer func() {
		root.SharedFlags.Input = originalInput
		root.SharedFlags.Output = originalOutput
	}()

	root.SharedFlags.Input = "records.json"
	root.SharedFlags.Output = "expenses.csv"

	assert.Equal(t, "records.json", root.SharedFlags.Input)
	assert.Equal(t, "expenses.csv", root.SharedFlags.Output)
}

func TestPersistentPreRun_BuildsContainer(t *testing.T) {
	originalConfig := root.AppConfig
	originalContainer := root.AppContainer
	defer func() {
		root.AppConfig = originalConfig
		root.AppContainer = originalContainer
	}()

	testCmd := &cobra.Command{}
	root.Cmd.PersistentPreRun(testCmd, []string{})

	require.NotNil(t, root.GetConfig())
	require.NotNil(t, root.GetContainer())
	assert.NotEmpty(t, root.GetConfig().Log.Level)

	assert.NotPanics(t, func() {
		root.Cmd.PersistentPostRun(testCmd, []string{})
	})
}

func TestPersistentPostRun_NilContainer(t *testing.T) {
	originalContainer := root.AppContainer
	defer func() {
		root.AppContainer = originalContainer
	}()

	root.AppContainer = nil
	assert.NotPanics(t, func() {
		root.Cmd.PersistentPostRun(&cobra.Command{}, []string{})
	})
}

func TestGetLogrusAdapter_WithoutContainer(t *testing.T) {
	originalContainer := root.AppContainer
	defer func() {
		root.AppContainer = originalContainer
	}()

	root.AppContainer = nil
	assert.NotNil(t, root.GetLogrusAdapter())
}

func TestGlobalVariables_Initialization(t *testing.T) {
	assert.NotNil(t, root.Log)
	assert.NotNil(t, root.Cmd)
	assert.NotNil(t, &root.SharedFlags)
}
