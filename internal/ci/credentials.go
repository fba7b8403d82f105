package ci

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"cifcommon/internal/logging"
)

// WskCredentials configures the OpenWhisk CLI for the scope.
type WskCredentials struct {
	Host      string
	Namespace string
	Auth      string
}

func (c WskCredentials) Acquire(ctx context.Context, sh Shell) error {
	const format = "wsk -i property set --auth %s --apihost %s --namespace %s"
	display := fmt.Sprintf(format, "XXX", Quote(c.Host), Quote(c.Namespace))
	return sh.ShMasked(ctx, display, fmt.Sprintf(format, Quote(c.Auth), Quote(c.Host), Quote(c.Namespace)))
}

func (c WskCredentials) Release(ctx context.Context, sh Shell) error {
	return sh.Sh(ctx, "rm -f ~/.wskprops")
}

// FileCredentials writes Content to Path (credentials.json by default) for the scope.
type FileCredentials struct {
	Path    string
	Content string
}

func (c FileCredentials) path() string {
	if c.Path == "" {
		return "credentials.json"
	}
	return c.Path
}

func (c FileCredentials) Acquire(_ context.Context, sh Shell) error {
	if err := writeSecret(sh, c.path(), c.Content); err != nil {
		return err
	}
	logging.L().Info("// Created file " + c.path() + ".")
	return nil
}

func (c FileCredentials) Release(_ context.Context, sh Shell) error {
	if err := removeFile(sh, c.path()); err != nil {
		return err
	}
	logging.L().Info("// Deleted file " + c.path() + ".")
	return nil
}

// GitIdentity sets the local git author for the scope.
type GitIdentity struct {
	User string
	Mail string
}

func (g GitIdentity) Acquire(ctx context.Context, sh Shell) error {
	return sh.Sh(ctx, "git config --local user.name "+Quote(g.User)+" && git config --local user.email "+Quote(g.Mail))
}

func (g GitIdentity) Release(ctx context.Context, sh Shell) error {
	return sh.Sh(ctx, "git config --local --unset user.name && git config --local --unset user.email")
}

// GitCredentials stores Repo (a URL carrying credentials) in a git
// credential store file for the scope.
type GitCredentials struct {
	Repo string
	File string // .git-credentials by default
}

func (g GitCredentials) file() string {
	if g.File == "" {
		return ".git-credentials"
	}
	return g.File
}

func (g GitCredentials) Acquire(ctx context.Context, sh Shell) error {
	if err := sh.Sh(ctx, "git config credential.helper "+Quote("store --file "+g.file())); err != nil {
		return err
	}
	if err := writeSecret(sh, g.file(), g.Repo); err != nil {
		return err
	}
	logging.L().Info("// Created file " + g.file() + ".")
	return nil
}

func (g GitCredentials) Release(ctx context.Context, sh Shell) error {
	err := sh.Sh(ctx, "git config --unset credential.helper")
	if rerr := removeFile(sh, g.file()); rerr != nil {
		return errors.Join(err, rerr)
	}
	logging.L().Info("// Deleted file " + g.file() + ".")
	return err
}

func writeSecret(sh Shell, name, content string) error {
	if sh.DryRun {
		return nil
	}
	return os.WriteFile(sh.Path(name), []byte(content), 0o600)
}

func removeFile(sh Shell, name string) error {
	if sh.DryRun {
		return nil
	}
	if err := os.Remove(sh.Path(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Scope kinds accepted by NewScope, with their parameters.
var scopeParams = map[string][]string{
	"wsk":             {"host", "namespace", "auth"},
	"file":            {"content"},
	"git-identity":    {"user", "mail"},
	"git-credentials": {"repo"},
}

// NewScope builds a scope of the given kind. Every parameter the kind needs
// must be present in params, though it may be empty.
func NewScope(kind string, params map[string]string) (Scope, error) {
	required, ok := scopeParams[kind]
	if !ok {
		kinds := make([]string, 0, len(scopeParams))
		for k := range scopeParams {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		return nil, fmt.Errorf("unknown credentials kind %q (want one of %s)", kind, strings.Join(kinds, ", "))
	}
	for _, p := range required {
		if _, ok := params[p]; !ok {
			return nil, fmt.Errorf("credentials kind %q: missing param %q", kind, p)
		}
	}

	switch kind {
	case "wsk":
		return WskCredentials{Host: params["host"], Namespace: params["namespace"], Auth: params["auth"]}, nil
	case "file":
		return FileCredentials{Path: params["path"], Content: params["content"]}, nil
	case "git-identity":
		return GitIdentity{User: params["user"], Mail: params["mail"]}, nil
	default:
		return GitCredentials{Repo: params["repo"], File: params["file"]}, nil
	}
}
