package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadPricesFile(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "prices.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"prices":[{"crop":"Wheat","category":"Cereals","msp":2275,"market_price":2400}]}`), 0o644))
	missingKey := filepath.Join(dir, "empty.json")
	require.NoError(t, os.WriteFile(missingKey, []byte(`{}`), 0o644))

	prices, err := readPricesFile(good)
	require.NoError(t, err)
	require.Len(t, prices, 1)
	assert.Equal(t, "Wheat", prices[0].Crop())
	assert.JSONEq(t, `{"crop":"Wheat","category":"Cereals","msp":2275,"market_price":2400}`, string(prices[0]))

	_, err = readPricesFile(missingKey)
	assert.ErrorContains(t, err, "Prices data required")

	_, err = readPricesFile(filepath.Join(dir, "none.json"))
	assert.Error(t, err)
}

func TestPricesImportAndList(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("DB_FILE", filepath.Join(dir, "database.json"))
	t.Setenv("LOG_LEVEL", "error")
	file := filepath.Join(dir, "prices.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"prices":[{"crop":"Wheat","category":"Cereals","msp":2275,"market_price":2400}]}`), 0o644))

	var out bytes.Buffer
	cmd := newPricesCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"import", file})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "imported 1 prices\n", out.String())

	out.Reset()
	cmd = newPricesCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"list"})
	require.NoError(t, cmd.Execute())
	assert.JSONEq(t, `[{"crop":"Wheat","category":"Cereals","msp":2275,"market_price":2400}]`, out.String())
}

func TestSnapshotNeedsMinio(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("DB_FILE", filepath.Join(dir, "database.json"))
	t.Setenv("LOG_LEVEL", "error")

	cmd := newSnapshotCommand()
	cmd.SetArgs([]string{"push"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.ErrorContains(t, cmd.Execute(), "MINIO_ENDPOINT")
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (stand-in for testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatal(err)
		}
	})
}
