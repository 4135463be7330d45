//go:build stave

package main

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const binary = "bin/phpsniff"

// Default target.
var Default = Build

var Aliases = map[string]any{
	"b":   Build,
	"t":   Test.Default,
	"l":   Lint.Default,
	"c":   Check,
	"fmt": Lint.Fmt,
	"fz":  Fuzz,
}

type (
	Test st.Namespace
	Lint st.Namespace
	CI   st.Namespace
)

// Build compiles bin/phpsniff when any Go source is newer than it.
func Build() error {
	stale, err := target.Dir(binary, "cmd/", "pkg/", "internal/", "go.mod")
	if err != nil {
		return err
	}
	if !stale {
		fmt.Println(binary, "is up to date")
		return nil
	}
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", binary, "./cmd/phpsniff")
}

// Install runs go install with version info.
func Install() error {
	return sh.RunV("go", "install", "-ldflags", ldflags(), "./cmd/phpsniff")
}

// Check formats, lints and tests.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Default, Test.Default)
}

// Clean removes bin/ and coverage output.
func Clean() error {
	for _, path := range []string{"bin", "coverage.out", "coverage.html"} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// Default runs the race-enabled test suite with coverage.
func (Test) Default() error {
	return gotestsum("pkgname-and-test-fails")
}

// Verbose is Default with every test name printed.
func (Test) Verbose() error {
	return gotestsum("standard-verbose")
}

// Rules runs the rule table tests only.
func (Test) Rules() error {
	return sh.RunV("go", "test", "-race", "./pkg/lint/rules/...")
}

// Bench runs the tokenizer and rule benchmarks.
func (Test) Bench() error {
	return sh.RunV("go", "test", "-run=^$", "-bench=.", "-benchmem", "./pkg/lint/rules/")
}

// Cover writes coverage.html from a fresh test run.
func (Test) Cover() error {
	st.Deps(Test.Default)
	return sh.RunV("go", "tool", "cover", "-html=coverage.out", "-o", "coverage.html")
}

func gotestsum(format string) error {
	procs := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	return sh.RunV("go", "tool", "gotestsum", "-f", format, "--",
		"-race", "-p", procs, "-parallel", procs,
		"-coverprofile=coverage.out", "-covermode=atomic",
		"./...",
	)
}

// Default runs golangci-lint with --fix.
func (Lint) Default() error {
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// Fmt runs gofmt -w.
func (Lint) Fmt() error {
	return sh.RunV("gofmt", "-w", ".")
}

// Gate is the CI entry point: nothing here modifies the tree.
func (CI) Gate() {
	st.SerialDeps(CI.Fmt, CI.Vet, CI.Lint, Build, Test.Default, CI.Tidy)
}

// Fmt fails when gofmt would change a file.
func (CI) Fmt() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return err
	}
	if out != "" {
		return fmt.Errorf("gofmt needed on:\n%s", out)
	}
	return nil
}

// Vet runs go vet.
func (CI) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Lint runs golangci-lint without fixes.
func (CI) Lint() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Tidy fails when go mod tidy would change go.mod or go.sum.
func (CI) Tidy() error {
	before, err := modFiles()
	if err != nil {
		return err
	}
	if err := sh.RunV("go", "mod", "tidy"); err != nil {
		return err
	}
	after, err := modFiles()
	if err != nil {
		return err
	}
	if !bytes.Equal(before, after) {
		return errors.New("go.mod or go.sum is not tidy")
	}
	return nil
}

func modFiles() ([]byte, error) {
	var all []byte
	for _, name := range []string{"go.mod", "go.sum"} {
		data, err := os.ReadFile(name)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		all = append(all, data...)
	}
	return all, nil
}

//nolint:gochecknoglobals // target table
var fuzzTargets = map[string]string{
	"FuzzGenerateDiff":     "./pkg/fix/",
	"FuzzChangesetReplace": "./pkg/fix/",
	"FuzzWriteIfChanged":   "./pkg/fsutil/",
}

// Fuzz runs each fuzz test for STAVE_FUZZTIME (30s by default).
func Fuzz() error {
	fuzzTime := cmp.Or(os.Getenv("STAVE_FUZZTIME"), "30s")
	for name, pkg := range fuzzTargets {
		if err := sh.RunV("go", "test", "-run=^$", "-fuzz=^"+name+"$", "-fuzztime="+fuzzTime, pkg); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// SelfLint builds phpsniff and lints STAVE_PHP_PATH with the summary format.
func SelfLint() error {
	st.Deps(Build)
	return sh.RunV(binary, "lint", "--format", "summary", cmp.Or(os.Getenv("STAVE_PHP_PATH"), "."))
}

func ldflags() string {
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s",
		cmp.Or(git("describe", "--tags", "--always", "--dirty"), "dev"),
		cmp.Or(git("rev-parse", "--short", "HEAD"), "none"),
		time.Now().UTC().Format(time.RFC3339),
	)
}

func git(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}
