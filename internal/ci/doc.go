// Package ci holds the building blocks of the build driver: running shell
// commands, printing stage banners, scoping credentials around a function,
// and small helpers for npm packages, audits and release tags.
//
// State that the commands depend on (working directory, environment) lives in
// a Shell value. Helpers that change it return a modified copy instead of
// touching the process, so a scope ends when the copy goes out of use.
package ci
