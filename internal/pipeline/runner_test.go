package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cifcommon/internal/ci"
	"cifcommon/internal/config"
	"cifcommon/internal/spec"
)

func dryShell(out *bytes.Buffer) ci.Shell {
	return ci.Shell{Stdout: out, Stderr: out, DryRun: true}
}

func integrationEnv() *config.Env {
	return config.EnvFrom(map[string]string{
		"CIRCLE_BRANCH":        "feature/CIF-7",
		"CIRCLE_BUILD_NUM":     "311",
		"WSK_API_HOST":         "https://ow.example",
		"CORE_WSK_NAMESPACE":   "core",
		"CORE_WSK_AUTH_STRING": "user:secret",
	})
}

// commands returns the echoed command lines in output order.
func commands(out string) []string {
	var cmds []string
	for _, line := range strings.Split(out, "\n") {
		if line == "" || strings.HasPrefix(line, "--") || strings.HasPrefix(line, "//") ||
			strings.Contains(line, "-----") {
			continue
		}
		cmds = append(cmds, line)
	}
	return cmds
}

func TestDefaultSpec_UnitTestsOnly(t *testing.T) {
	var out bytes.Buffer
	r, err := Compile("", Options{
		Package: ci.Package{Scripts: map[string]string{"test": "mocha", "audit": "npm audit"}},
		Shell:   dryShell(&out),
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	want := []string{"PROVISION PROJECT", "SECURITY AUDIT", "UNIT TESTS", "INTEGRATION TESTS", "BUILD DONE"}
	if got := r.Stages(); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("stages = %v", got)
	}

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	text := out.String()
	for _, cmd := range []string{"npm install", "npm run audit", "mkdir -p test/results/unit", "npm test", "$(npm bin)/codecov"} {
		if !strings.Contains(text, cmd+"\n") {
			t.Fatalf("missing command %q in:\n%s", cmd, text)
		}
	}
	if strings.Contains(text, "npm run test-it") || strings.Contains(text, "wsk") {
		t.Fatalf("integration stage should be skipped:\n%s", text)
	}
	if !strings.Contains(text, `Skipped INTEGRATION TESTS: package has no "test-it" script`) {
		t.Fatalf("missing skip notice:\n%s", text)
	}
	if !strings.Contains(text, "-- BUILD DONE") {
		t.Fatalf("missing final banner:\n%s", text)
	}
}

func TestDefaultSpec_IntegrationDeploysAndTearsDown(t *testing.T) {
	var out bytes.Buffer
	r, err := Compile("", Options{
		Package: ci.Package{Scripts: map[string]string{"test-it": "mocha test/it"}},
		Env:     integrationEnv(),
		Shell:   dryShell(&out),
	})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	it := r.stages[3]
	if len(it.env) != 1 || it.env[0] != [2]string{"OW_PACKAGE_SUFFIX", "common-featureCIF7-311"} {
		t.Fatalf("unexpected stage env %v", it.env)
	}

	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.Contains(out.String(), "secret") {
		t.Fatalf("auth string leaked:\n%s", out.String())
	}

	cmds := commands(out.String())
	var tail []string
	for i, c := range cmds {
		if c == "mkdir -p test/results/integration" {
			tail = cmds[i:]
			break
		}
	}
	wsk := "wsk -i property set --auth XXX --apihost 'https://ow.example' --namespace 'core'"
	want := []string{
		"mkdir -p test/results/integration",
		"$(npm bin)/lerna run fix-serverless-permission",
		wsk,
		"$(npm bin)/lerna run deploy-suffix --concurrency 1",
		"rm -f ~/.wskprops",
		"npm run test-it",
		wsk,
		"$(npm bin)/lerna run remove-suffix --concurrency 1",
		"rm -f ~/.wskprops",
	}
	if strings.Join(tail, "\n") != strings.Join(want, "\n") {
		t.Fatalf("unexpected integration commands:\n%s", strings.Join(tail, "\n"))
	}
}

func TestRunner_FailureRunsFinallyAndStopsBuild(t *testing.T) {
	var out bytes.Buffer
	file := spec.File{Stages: []spec.Stage{
		{
			Name:    "A",
			Steps:   []spec.Step{{Run: "echo one"}, {Run: "exit 4"}, {Run: "echo never"}},
			Finally: []spec.Step{{Run: "echo cleanup"}},
		},
		{Name: "B", Steps: []spec.Step{{Run: "echo b"}}},
	}}
	r, err := CompileSpec(file, Options{Shell: ci.Shell{Dir: t.TempDir(), Stdout: &out, Stderr: &out}})
	if err != nil {
		t.Fatalf("CompileSpec: %v", err)
	}

	err = r.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), `stage "A": exit 4: exit status 4`) {
		t.Fatalf("want stage A failure, got %v", err)
	}
	text := out.String()
	if !strings.Contains(text, "cleanup\n") {
		t.Fatalf("finally step did not run:\n%s", text)
	}
	if strings.Contains(text, "echo never") || strings.Contains(text, "-- B") {
		t.Fatalf("build continued after failure:\n%s", text)
	}

	metrics := filepath.Join(t.TempDir(), "cif.prom")
	if err := r.Metrics().WriteTextfile(metrics); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	raw, _ := os.ReadFile(metrics)
	for _, line := range []string{
		`cif_stages_total{outcome="failed",stage="A"} 1`,
		`cif_commands_total{outcome="failed"} 1`,
		`cif_commands_total{outcome="ok"} 2`,
	} {
		if !strings.Contains(string(raw), line) {
			t.Fatalf("metrics missing %q:\n%s", line, raw)
		}
	}
}

func TestRunner_StageEnvAndStepDir(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "pkg"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	var out bytes.Buffer
	file := spec.File{Stages: []spec.Stage{{
		Name: "ENV",
		Env:  map[string]string{"SUFFIX": "s-${BRANCH|word}"},
		Steps: []spec.Step{
			{Run: `echo "suffix=$SUFFIX"`},
			{Run: `echo "dir=$(basename "$(pwd -P)")"`, Dir: "pkg"},
		},
	}}}
	r, err := CompileSpec(file, Options{
		Env:   config.EnvFrom(map[string]string{"BRANCH": "release/2.x"}),
		Shell: ci.Shell{Dir: root, Stdout: &out, Stderr: &out},
	})
	if err != nil {
		t.Fatalf("CompileSpec: %v", err)
	}
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "suffix=s-release2x\n") || !strings.Contains(out.String(), "dir=pkg\n") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
}

func TestRunner_CancelledContextStopsBeforeNextStage(t *testing.T) {
	var out bytes.Buffer
	r, err := Compile("", Options{Shell: dryShell(&out)})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.Run(ctx); err != context.Canceled {
		t.Fatalf("want context.Canceled, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("stages ran after cancel:\n%s", out.String())
	}
}

func TestCompileSpec_ReportsAllProblems(t *testing.T) {
	file := spec.File{
		Credentials: map[string]spec.Credential{
			"vault": {Kind: "vault"},
		},
		Stages: []spec.Stage{
			{Name: "A", Steps: []spec.Step{{Run: "true", Credentials: "wsk"}}},
			{Name: "A"},
			{Steps: []spec.Step{{Run: "true"}}},
			{Name: "C", Steps: []spec.Step{{}}},
		},
	}
	_, err := CompileSpec(file, Options{})
	if err == nil {
		t.Fatal("want compile error")
	}
	for _, msg := range []string{
		`credentials "vault": unknown credentials kind "vault"`,
		`unknown credentials "wsk"`,
		`stage "A": defined twice`,
		`stage #3: missing name`,
		`stage "C" step #1: missing run, checkout or write`,
	} {
		if !strings.Contains(err.Error(), msg) {
			t.Fatalf("error %q does not mention %q", err, msg)
		}
	}
}

func TestCompile_SpecFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build.yml")
	raw := []byte("schema_version: v1\nstages:\n  - name: ONLY\n    steps:\n      - run: make\n")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatalf("write spec: %v", err)
	}
	r, err := Compile(path, Options{})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if got := r.Stages(); len(got) != 1 || got[0] != "ONLY" {
		t.Fatalf("stages = %v", got)
	}
}

func TestRunner_CheckoutAndWriteSteps(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, "pkg"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	var out bytes.Buffer
	file := spec.File{Stages: []spec.Stage{{
		Name: "PREPARE",
		Steps: []spec.Step{
			{Write: &spec.Write{File: "build-${BUILD|word}.txt", Content: "branch=${BRANCH}\n"}, Dir: "pkg"},
			{Checkout: &spec.Checkout{Repo: "https://git.example/${REPO}.git", Folder: "deps"}},
		},
	}}}
	r, err := CompileSpec(file, Options{
		Env: config.EnvFrom(map[string]string{"BUILD": "#12", "BRANCH": "main", "REPO": "tools"}),
		// true stands in for git
		Shell: ci.Shell{Program: "true", Dir: root, Stdout: &out, Stderr: &out},
	})
	if err != nil {
		t.Fatalf("CompileSpec: %v", err)
	}
	if err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(root, "pkg", "build-12.txt"))
	if err != nil || string(raw) != "branch=main\n" {
		t.Fatalf("written file = %q, %v", raw, err)
	}
	if !strings.Contains(out.String(), "git clone -b 'master' 'https://git.example/tools.git' 'deps'\n") {
		t.Fatalf("missing checkout command:\n%s", out.String())
	}
}

func TestCompileSpec_RejectsAmbiguousSteps(t *testing.T) {
	file := spec.File{Stages: []spec.Stage{{
		Name: "X",
		Steps: []spec.Step{
			{Run: "make", Write: &spec.Write{File: "a"}},
			{Checkout: &spec.Checkout{}},
			{Write: &spec.Write{Content: "x"}},
		},
	}}}
	_, err := CompileSpec(file, Options{})
	if err == nil {
		t.Fatal("want compile error")
	}
	for _, msg := range []string{
		`stage "X" step #1: only one of run, checkout or write allowed`,
		`stage "X" step #2: checkout: missing repo`,
		`stage "X" step #3: write: missing file`,
	} {
		if !strings.Contains(err.Error(), msg) {
			t.Fatalf("error %q does not mention %q", err, msg)
		}
	}
}
