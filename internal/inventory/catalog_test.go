package inventory

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "warehouse1.txt", "Apple iPhone 14:1000000;Samsung Galaxy S23:800000")
	writeFile(t, dir, "warehouse2.txt", "Google Pixel 7:700000;Apple Watch Series 8:400000")
	writeFile(t, dir, "notes.txt", "not a warehouse file")

	c, err := Load(dir, 10, discardLogger())
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Apple iPhone 14",
		"Samsung Galaxy S23",
		"Google Pixel 7",
		"Apple Watch Series 8",
	}, c.Names())

	item, ok := c.Item("Apple Watch Series 8")
	require.True(t, ok)
	assert.True(t, item.Price.Equal(decimal.NewFromInt(400000)))
	assert.Equal(t, 10, item.Quantity)
}

func TestLoad_SkipsMalformedRecords(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "warehouse1.txt", "Good Item:100;Bad Price:abc;No Separator;Another Good:250.50")

	c, err := Load(dir, 5, discardLogger())
	require.NoError(t, err)

	assert.Equal(t, []string{"Good Item", "Another Good"}, c.Names())
	item, _ := c.Item("Another Good")
	assert.Equal(t, "250.50", item.Price.StringFixed(2))
}

func TestLoad_EmptyFileIsHarmless(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "warehouse1.txt", "   \n")

	c, err := Load(dir, 5, discardLogger())
	require.NoError(t, err)
	assert.Empty(t, c.Names())
}

func TestSearch_AllTermsMustMatch(t *testing.T) {
	c := New()
	c.Put("Apple Watch Series 8", decimal.NewFromInt(400000), 10)
	c.Put("Apple iPhone 14", decimal.NewFromInt(1000000), 10)

	matches := c.Search("Apple Watch")
	require.Len(t, matches, 1)
	assert.Equal(t, "Apple Watch Series 8", matches[0].Name)
}

func TestSearch_CaseInsensitiveSubstrings(t *testing.T) {
	c := New()
	c.Put("Samsung Galaxy S23", decimal.NewFromInt(800000), 10)
	c.Put("Google Pixel 7", decimal.NewFromInt(700000), 10)

	matches := c.Search("gAlAxY sam")
	require.Len(t, matches, 1)
	assert.Equal(t, "Samsung Galaxy S23", matches[0].Name)

	// Empty query matches everything, in insertion order.
	all := c.Search("")
	require.Len(t, all, 2)
	assert.Equal(t, "Samsung Galaxy S23", all[0].Name)
	assert.Equal(t, "Google Pixel 7", all[1].Name)
}

func TestSearch_DoesNotFilterZeroStock(t *testing.T) {
	c := New()
	c.Put("Pen", decimal.NewFromInt(10), 0)

	assert.Len(t, c.Search("Pen"), 1)
}

func TestReserveAndRelease(t *testing.T) {
	c := New()
	c.Put("Book", decimal.NewFromInt(50), 3)

	assert.ErrorIs(t, c.Reserve("Missing", 1), ErrUnknownItem)

	err := c.Reserve("Book", 5)
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.Equal(t, 3, c.Available("Book"), "failed reserve must not touch stock")

	require.NoError(t, c.Reserve("Book", 2))
	assert.Equal(t, 1, c.Available("Book"))

	c.Release("Book", 2)
	assert.Equal(t, 3, c.Available("Book"))

	// Releasing an unknown item is a no-op.
	c.Release("Missing", 4)
	assert.Equal(t, 0, c.Available("Missing"))
}
