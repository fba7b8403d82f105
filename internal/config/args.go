package config

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"cifcommon/graphql/args"
)

const ArgsEnvPrefix = "CIF_ARGS__"

type ArgsConfig struct {
	ArgsKey     string                  `koanf:"args_key"`
	CheckFields map[string][]string     `koanf:"check_fields"`
	Pagination  args.PaginationDefaults `koanf:"pagination"`
}

// LoadArgsConfig reads the transformer configuration. A missing file yields
// the defaults; CIF_ARGS__PAGINATION__DEFAULT_LIMIT=20 and
// CIF_ARGS__CHECK_FIELDS__searchProducts=offset,currentPage style variables override.
func LoadArgsConfig(path string) (ArgsConfig, error) {
	cfg := ArgsConfig{
		ArgsKey:    args.DefaultArgsKey,
		Pagination: args.DefaultPaginationDefaults(),
	}

	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
	}
	if err := k.Load(env.ProviderWithValue(ArgsEnvPrefix, "__", argsEnv), nil); err != nil {
		return cfg, err
	}
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// argsEnv keeps the case of field group names and reads their required
// arguments as a comma separated list.
func argsEnv(name, value string) (string, any) {
	key := envKey(ArgsEnvPrefix, "check_fields")(name)
	if !strings.HasPrefix(key, "check_fields__") {
		return key, value
	}
	fields := strings.Split(value, ",")
	for i, f := range fields {
		fields[i] = strings.TrimSpace(f)
	}
	return key, fields
}

// Transformer builds the pagination transformer described by c.
func (c ArgsConfig) Transformer() (*args.Transformer, error) {
	return args.New(args.Pagination(c.Pagination), c.CheckFields, c.ArgsKey)
}
