package config

import (
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// Env is a snapshot of the process environment taken at load time, so a
// build sees consistent values even if a step changes its own environment.
type Env struct {
	k *koanf.Koanf
}

func LoadEnv() (*Env, error) {
	// "\x00" never occurs in variable names, so keys stay flat.
	k := koanf.New("\x00")
	if err := k.Load(env.Provider("", "\x00", nil), nil); err != nil {
		return nil, err
	}
	return &Env{k: k}, nil
}

// EnvFrom builds an Env from explicit values.
func EnvFrom(vars map[string]string) *Env {
	k := koanf.New("\x00")
	for name, v := range vars {
		_ = k.Set(name, v)
	}
	return &Env{k: k}
}

func (e *Env) Lookup(name string) (string, bool) {
	if !e.k.Exists(name) {
		return "", false
	}
	return e.k.String(name), true
}
