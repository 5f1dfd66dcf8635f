//go:build mage

// Package main contains Mage build targets for deep-search developer tooling.
package main

import (
	"bufio"
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "deep-search"
	cmdPkg  = "./cmd/deep-search"

	// sqliteTags enables FTS5 in mattn/go-sqlite3.
	sqliteTags = "sqlite_fts5"
)

// sampleConfig is written by Init when no config file exists.
const sampleConfig = `log:
  level: info
  format: text
  output: stderr
search:
  provider: tavily
  timeout: 30s
fetch:
  timeout: 30s
  delay: 0s
  max_body_bytes: 5242880
convert:
  backend: html
summarize:
  backend: openai
  model: gpt-4o-mini
  timeout: 60s
  breaker:
    max_failures: 5
    timeout: 30s
store:
  path: deep-search.db
  session: default
`

// Init creates .secrets/ and a starter deep-search.yaml.
func Init() error {
	if err := os.MkdirAll(".secrets", 0o700); err != nil {
		return fmt.Errorf("creating .secrets: %w", err)
	}
	fmt.Println("   .secrets/ (add tavily-api-key, openai-api-key, or anthropic-api-key)")

	if _, err := os.Stat("deep-search.yaml"); err == nil {
		fmt.Println("   deep-search.yaml exists, left unchanged")
		return nil
	}
	if err := os.WriteFile("deep-search.yaml", []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("writing deep-search.yaml: %w", err)
	}
	fmt.Println("   deep-search.yaml")
	return nil
}

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-tags", sqliteTags, "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "-tags", sqliteTags, "./...")
}

// Check runs go vet and then the tests.
func Check() error {
	if err := sh.RunV("go", "vet", "-tags", sqliteTags, "./..."); err != nil {
		return err
	}
	mg.Deps(Test)
	return nil
}

// Clean removes build output.
func Clean() error {
	return sh.Rm(binDir)
}

// Stats prints non-blank Go lines for production code and tests.
func Stats() error {
	var prod, test int
	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), "_") || d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".go" {
			return nil
		}
		n, err := countLines(path)
		if err != nil {
			return err
		}
		if strings.HasSuffix(path, "_test.go") {
			test += n
		} else {
			prod += n
		}
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Printf("Lines of code (Go, production): %d\n", prod)
	fmt.Printf("Lines of code (Go, tests):      %d\n", test)
	return nil
}

func countLines(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}
	n := 0
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		if strings.TrimSpace(sc.Text()) != "" {
			n++
		}
	}
	return n, sc.Err()
}
