package rulefile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"smsledger/internal/logging"
)

func writeRuleFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad(t *testing.T) {
	path := writeRuleFile(t, "pattern,merchant,category,priority\n"+
		"swiggy,Swiggy,Food & Dining,5\n"+
		"amazon,Amazon,Shopping,1\n")

	source := NewSource(path, logging.NewMockLogger())
	rules, err := source.Load(context.Background())
	require.NoError(t, err)

	require.Len(t, rules, 2)
	assert.Equal(t, "swiggy", rules[0].Pattern)
	assert.Equal(t, "Swiggy", rules[0].Merchant)
	assert.Equal(t, "Food & Dining", rules[0].Category)
	assert.Equal(t, 5, rules[0].Priority)
	assert.Equal(t, 1, rules[1].Priority)
}

func TestLoad_MissingFile(t *testing.T) {
	source := NewSource(filepath.Join(t.TempDir(), "absent.csv"), logging.NewMockLogger())
	_, err := source.Load(context.Background())
	assert.Error(t, err)
}

func TestLoad_MalformedCSV(t *testing.T) {
	path := writeRuleFile(t, "pattern,merchant,category,priority\nswiggy,Swiggy\n")
	source := NewSource(path, logging.NewMockLogger())
	_, err := source.Load(context.Background())
	assert.Error(t, err)
}
