package cmd

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// writeExtension writes an executable shell script named cb-<name> in a new
// directory put first in PATH.
func writeExtension(t *testing.T, name, script string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("extensions are shell scripts in this test")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "cb-"+name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0755); err != nil {
		t.Fatalf("Failed to write cb-%s: %v", name, err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestExtensionMechanism(t *testing.T) {
	out := filepath.Join(t.TempDir(), "env.txt")
	writeExtension(t, "hello", `echo "args=$*" > "`+out+`"
env | grep '^CASHBOOK_' >> "`+out+`"
`)

	backend, dir := "dir", filepath.Join(t.TempDir(), "books")
	oldBackend, oldDir := backendFlag, dirFlag
	backendFlag, dirFlag = &backend, &dir
	defer func() { backendFlag, dirFlag = oldBackend, oldDir }()

	found, code := RunExtension("hello", []string{"a", "b"})
	if !found || code != 0 {
		t.Fatalf("RunExtension(hello) = %v, %d; want true, 0", found, code)
	}

	got, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("the extension did not run: %v", err)
	}
	for _, want := range []string{
		"args=a b",
		EnvBackend + "=dir",
		EnvDir + "=" + dir,
		EnvSQLTable + "=cashbook_store",
	} {
		if !strings.Contains(string(got), want) {
			t.Errorf("Expected output to contain %q, but got:\n%s", want, got)
		}
	}
}

func TestExtensionExitCode(t *testing.T) {
	writeExtension(t, "fail", "exit 3\n")
	found, code := RunExtension("fail", nil)
	if !found || code != 3 {
		t.Errorf("RunExtension(fail) = %v, %d; want true, 3", found, code)
	}
}

func TestExtensionNotFound(t *testing.T) {
	t.Setenv("PATH", t.TempDir())
	if found, _ := RunExtension("nope", nil); found {
		t.Errorf("RunExtension(nope) found an extension")
	}
}
