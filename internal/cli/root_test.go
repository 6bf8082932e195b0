package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "stockroom", cmd.Use)
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := [][]string{
		{"serve"}, {"shell"}, {"summary"}, {"view"}, {"seed"}, {"env"},
		{"product", "add"}, {"product", "list"}, {"product", "find"},
		{"product", "update"}, {"product", "delete"},
	}

	for _, path := range commands {
		t.Run(strings.Join(path, " "), func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err)
			assert.Equal(t, path[len(path)-1], subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("store"))
}

// useTempStore points the CLI at a fresh SQLite file for the test.
func useTempStore(t *testing.T) {
	t.Helper()
	t.Setenv("STOCKROOM_STORE", "sqlite")
	t.Setenv("STOCKROOM_SQLITE_PATH", filepath.Join(t.TempDir(), "cli.db"))
}

func runCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func addMilkAndBread(t *testing.T) {
	t.Helper()
	_, err := runCommand(t, "", "product", "add", "--name", "Milk", "--code", "P1",
		"--price", "45.50", "--stock", "10", "--restock", "2", "--category", "Beverages")
	require.NoError(t, err)
	_, err = runCommand(t, "", "product", "add", "--name", "Bread", "--code", "P2",
		"--price", "30.25", "--stock", "1", "--restock", "3", "--category", "Produce")
	require.NoError(t, err)
}

func listProducts(t *testing.T, args ...string) []productView {
	t.Helper()
	out, err := runCommand(t, "", append([]string{"--format", "json", "product", "list"}, args...)...)
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   []productView `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Equal(t, "ok", resp.Status)
	return resp.Data
}

func TestProductCommands(t *testing.T) {
	useTempStore(t)
	addMilkAndBread(t)

	products := listProducts(t)
	require.Len(t, products, 2)
	assert.Equal(t, "P1", products[0].Code)
	assert.Equal(t, "45.50", products[0].Price)

	lowStock := listProducts(t, "--sort", "low_stock")
	require.Len(t, lowStock, 1)
	assert.Equal(t, "P2", lowStock[0].Code)

	out, err := runCommand(t, "", "product", "add", "--name", "Other", "--code", "P1")
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "already exists")

	out, err = runCommand(t, "", "product", "update", "P1", "--price", "abc", "--stock", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "Product updated!")
	products = listProducts(t)
	assert.Equal(t, "45.50", products[0].Price)
	assert.Equal(t, 4, products[0].Stock)

	out, err = runCommand(t, "", "product", "find", "brea")
	require.NoError(t, err)
	assert.Contains(t, out, "Bread")

	_, err = runCommand(t, "", "product", "find", "nothing")
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestProductDelete_Confirmation(t *testing.T) {
	useTempStore(t)
	addMilkAndBread(t)

	out, err := runCommand(t, "n\n", "product", "delete", "P2")
	require.NoError(t, err)
	assert.Contains(t, out, `Are you sure you want to delete "Bread" (P2)?`)
	assert.Contains(t, out, "Deletion cancelled")
	assert.Len(t, listProducts(t), 2)

	out, err = runCommand(t, "yes\n", "product", "delete", "P2")
	require.NoError(t, err)
	assert.Contains(t, out, "Product deleted!")
	assert.Len(t, listProducts(t), 1)

	_, err = runCommand(t, "", "product", "delete", "P2", "--yes")
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestViewAndSummaryCommands(t *testing.T) {
	useTempStore(t)
	addMilkAndBread(t)

	out, err := runCommand(t, "", "view", "card")
	require.NoError(t, err)
	assert.Equal(t, "View: card\n", out)

	out, err = runCommand(t, "", "product", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "[P1] Milk")

	_, err = runCommand(t, "", "view", "grid")
	assert.Equal(t, ExitFailure, GetExitCode(err))

	out, err = runCommand(t, "", "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "Total value:    ₱485.25")
}

func TestSeedCommand(t *testing.T) {
	useTempStore(t)

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`view: card
products:
  - {name: Milk, code: P1, price: 45.5, stock: 10, restock: 2, category: Beverages}
  - {name: Milk again, code: P1, price: 1, stock: 1, restock: 0, category: Produce}
  - {name: Rice, code: R1, price: "12", stock: "3", restock: 5, category: Produce}
`), 0o644))

	out, err := runCommand(t, "", "seed", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Catalog seeded")
	assert.Contains(t, out, "Total products: 2")

	products := listProducts(t)
	require.Len(t, products, 2)
	assert.Equal(t, "Milk", products[0].Name)
	assert.True(t, products[1].LowStock)

	_, err = runCommand(t, "", "seed", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestInvalidGlobalFlags(t *testing.T) {
	useTempStore(t)

	_, err := runCommand(t, "", "--format", "xml", "summary")
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = runCommand(t, "", "--store", "floppy", "summary")
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	_, err = runCommand(t, "", "product", "list", "--sort", "sideways")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
