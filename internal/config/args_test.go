package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cifcommon/graphql/args"
)

func TestLoadArgsConfig_Defaults(t *testing.T) {
	cfg, err := LoadArgsConfig("")
	require.NoError(t, err)

	assert.Equal(t, args.DefaultArgsKey, cfg.ArgsKey)
	assert.Equal(t, args.DefaultPaginationDefaults(), cfg.Pagination)
	assert.Empty(t, cfg.CheckFields)
}

func TestLoadArgsConfig_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "args.yml")
	raw := []byte(`args_key: arguments
check_fields:
  searchProducts: [offset, currentPage]
pagination:
  default_limit: 25
`)
	require.NoError(t, os.WriteFile(path, raw, 0o644))
	t.Setenv("CIF_ARGS__PAGINATION__DEFAULT_OFFSET", "3")

	cfg, err := LoadArgsConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "arguments", cfg.ArgsKey)
	assert.Equal(t, []string{"offset", "currentPage"}, cfg.CheckFields["searchProducts"])
	assert.Equal(t, args.PaginationDefaults{Offset: 3, Limit: 25}, cfg.Pagination)

	tr, err := cfg.Transformer()
	require.NoError(t, err)
	obj := map[string]any{"arguments": map[string]any{"limit": -1}}
	require.NoError(t, tr.Transform(obj, "searchProducts"))
	assert.Equal(t, map[string]any{"limit": 25, "offset": 3, "currentPage": 3}, obj["arguments"])
}

func TestLoadArgsConfig_EnvFieldGroupKeepsCase(t *testing.T) {
	t.Setenv("CIF_ARGS__CHECK_FIELDS__searchProducts", "offset, currentPage")
	t.Setenv("CIF_ARGS__PAGINATION__DEFAULT_LIMIT", "15")

	cfg, err := LoadArgsConfig("")
	require.NoError(t, err)

	assert.Equal(t, []string{"offset", "currentPage"}, cfg.CheckFields["searchProducts"])
	assert.NotContains(t, cfg.CheckFields, "searchproducts")
	assert.Equal(t, 15, cfg.Pagination.Limit)
}

func TestEnvKey(t *testing.T) {
	key := envKey("CIF_ARGS__", "check_fields")
	assert.Equal(t, "pagination__default_limit", key("CIF_ARGS__PAGINATION__DEFAULT_LIMIT"))
	assert.Equal(t, "check_fields__searchProducts", key("CIF_ARGS__CHECK_FIELDS__searchProducts"))
	assert.Equal(t, "dry_run", envKey("CIF_")("CIF_DRY_RUN"))
}

func TestArgsConfig_TransformerRejectsUnknownRequiredField(t *testing.T) {
	cfg := ArgsConfig{CheckFields: map[string][]string{"g": {"sort"}}}
	_, err := cfg.Transformer()
	assert.ErrorIs(t, err, args.ErrConfig)
}
