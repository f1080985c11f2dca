package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := newCLI()
	c.root.SetOut(&out)
	c.root.SetErr(&out)
	c.root.SetArgs(args)
	err := c.Execute()
	return out.String(), err
}

func TestCLI_CreateListResolve(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	db := filepath.Join(dir, "links.db")

	out, err := runCLI(t, "--sqlite", db, "create", "--owner", "u1", "--url", "https://example.com/a")
	if err != nil {
		t.Fatalf("create failed: %v (%s)", err, out)
	}
	if !strings.HasPrefix(out, "Code: ") {
		t.Fatalf("unexpected create output: %q", out)
	}
	code := strings.TrimSpace(strings.TrimPrefix(strings.SplitN(out, "\n", 2)[0], "Code: "))
	if len(code) != 7 {
		t.Fatalf("expected 7 character code, got %q", code)
	}
	if !strings.Contains(out, "http://localhost:8080/"+code) {
		t.Errorf("short URL missing from output: %q", out)
	}

	out, err = runCLI(t, "--sqlite", db, "list", "--owner", "u1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, code) || !strings.Contains(out, "https://example.com/a") {
		t.Errorf("list output missing link: %q", out)
	}

	out, err = runCLI(t, "--sqlite", db, "list", "--owner", "u2")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if !strings.Contains(out, "No shortened links yet.") {
		t.Errorf("expected empty state for another owner, got %q", out)
	}

	out, err = runCLI(t, "--sqlite", db, "resolve", code)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if strings.TrimSpace(out) != "https://example.com/a" {
		t.Errorf("resolve output = %q", out)
	}
}

func TestCLI_Errors(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	db := filepath.Join(dir, "links.db")

	if _, err := runCLI(t, "--sqlite", db, "resolve", "missing"); err == nil {
		t.Error("expected error for unknown code")
	}
	if _, err := runCLI(t, "--sqlite", db, "create", "--owner", "u1", "--url", "ftp://example.com"); err == nil {
		t.Error("expected validation error")
	}
	if _, err := runCLI(t, "--sqlite", db, "create", "--owner", "u1"); err == nil {
		t.Error("expected error for missing --url")
	}
}

func TestCLI_ReleasesDatabaseOnFailure(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	db := filepath.Join(dir, "links.db")

	tests := [][]string{
		{"--sqlite", db, "resolve", "missing"},
		{"--sqlite", db, "create", "--owner", "u1", "--url", "ftp://example.com"},
		{"--sqlite", db, "list", "--owner", "u1"},
	}

	for _, args := range tests {
		t.Run(strings.Join(args[2:], " "), func(t *testing.T) {
			c := newCLI()
			var opened *cliEnv
			pre := c.root.PersistentPreRunE
			c.root.PersistentPreRunE = func(cmd *cobra.Command, a []string) error {
				err := pre(cmd, a)
				opened = c.opts.env
				return err
			}
			c.root.SetOut(&bytes.Buffer{})
			c.root.SetErr(&bytes.Buffer{})
			c.root.SetArgs(args)
			_ = c.Execute()

			if opened == nil {
				t.Fatal("expected the database to be opened")
			}
			if c.opts.env != nil {
				t.Fatal("environment still held after Execute")
			}
			sqlDB, err := opened.db.DB()
			if err != nil {
				t.Fatalf("sql db: %v", err)
			}
			if err := sqlDB.Ping(); err == nil {
				t.Error("database handle left open")
			}
		})
	}
}
