package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cobalt-rocks/mdpdf"
)

// testNow is the fixed clock used by CLI tests.
var testNow = time.Date(2026, time.October, 4, 9, 30, 0, 0, time.UTC)

// mockConverter records inputs and returns canned output.
type mockConverter struct {
	mu     sync.Mutex
	inputs []mdpdf.Input
	result *mdpdf.ConvertResult
	err    error
}

func (m *mockConverter) Convert(_ context.Context, input mdpdf.Input) (*mdpdf.ConvertResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inputs = append(m.inputs, input)
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	res := &mdpdf.ConvertResult{
		HTML:  []byte("<html><title>" + input.Title + "</title></html>"),
		Title: input.Title,
	}
	if !input.HTMLOnly {
		res.PDF = []byte("%PDF-1.7 mock")
	}
	return res, nil
}

func (m *mockConverter) calls() []mdpdf.Input {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mdpdf.Input(nil), m.inputs...)
}

// mockPool hands out a single shared mockConverter.
type mockPool struct {
	conv       *mockConverter
	size       int
	opts       []mdpdf.Option
	acquireErr error
	closed     bool
}

func (p *mockPool) Acquire() (CLIConverter, error) {
	if p.acquireErr != nil {
		return nil, p.acquireErr
	}
	return p.conv, nil
}

func (p *mockPool) Release(CLIConverter) {}

func (p *mockPool) Size() int { return p.size }

func (p *mockPool) Close() error {
	p.closed = true
	return nil
}

// testEnv bundles an Environment with its captured output and pool.
type testEnv struct {
	env    *Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	pool   *mockPool
}

// newTestEnv returns an Environment reading vars instead of the process
// environment and creating a mockPool.
func newTestEnv(t *testing.T, vars map[string]string) *testEnv {
	t.Helper()

	te := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		pool:   &mockPool{conv: &mockConverter{}},
	}
	te.env = &Environment{
		Now:    func() time.Time { return testNow },
		Stdout: te.stdout,
		Stderr: te.stderr,
		Getenv: func(key string) string { return vars[key] },
		Environ: func() []string {
			var env []string
			for k, v := range vars {
				env = append(env, k+"="+v)
			}
			return env
		},
		NewPool: func(size int, opts ...mdpdf.Option) Pool {
			te.pool.size = size
			te.pool.opts = opts
			return te.pool
		},
	}
	return te
}

// writeFile creates a file with content, making parent directories.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// readFile returns a file's content or fails the test.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// mustParseFlags parses args or fails the test.
func mustParseFlags(t *testing.T, args ...string) (*convertFlags, []string) {
	t.Helper()
	flags, positional, err := parseConvertFlags(args)
	if err != nil {
		t.Fatalf("parseConvertFlags(%v) error: %v", args, err)
	}
	return flags, positional
}
