package pipeline

import (
	"testing"

	"cifcommon/internal/config"
)

func TestExpand(t *testing.T) {
	env := config.EnvFrom(map[string]string{
		"CIRCLE_BRANCH":    "feature/CIF-12_fix",
		"CIRCLE_BUILD_NUM": "1042",
		"EMPTY":            "",
	})
	cases := map[string]string{
		"plain":               "plain",
		"${CIRCLE_BUILD_NUM}": "1042",
		"common-${CIRCLE_BRANCH|word}-${CIRCLE_BUILD_NUM|word}": "common-featureCIF12fix-1042",
		"${MISSING:-fallback}": "fallback",
		"${MISSING|word:-a_b}": "ab",
		"${MISSING}x":          "x",
		"${EMPTY:-unused}":     "",
		"$CIRCLE_BUILD_NUM":    "$CIRCLE_BUILD_NUM",
	}
	for in, want := range cases {
		if got := expand(in, env); got != want {
			t.Fatalf("expand(%q) = %q, want %q", in, got, want)
		}
	}
}
