package main

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

var (
	testBinary     string
	testBinaryOnce sync.Once
	testBinaryErr  error
)

// buildTestBinary builds the datumcheck binary once for all tests
func buildTestBinary() (string, error) {
	testBinaryOnce.Do(func() {
		tmpBinary := filepath.Join(os.TempDir(), "datumcheck-test")
		cmd := exec.Command("go", "build", "-o", tmpBinary, ".")
		if out, err := cmd.CombinedOutput(); err != nil {
			testBinaryErr = err
			testBinary = string(out)
			return
		}
		testBinary = tmpBinary
	})

	if testBinaryErr != nil {
		return "", testBinaryErr
	}
	return testBinary, nil
}

func writeSchema(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "graph.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write schema: %v", err)
	}
	return path
}

const acceptedSchema = `{"types": [
  {"name": "amount", "expr": {"kind": "reference", "name": "uint"}}
]}`

const rejectedSchema = `{"types": [
  {"name": "blob", "expr": {"kind": "primitive", "primitive": "bytes"}}
]}`

// TestVersionCommand tests the version command
func TestVersionCommand(t *testing.T) {
	binary, err := buildTestBinary()
	if err != nil {
		t.Fatalf("failed to build test binary: %v", err)
	}

	cmd := exec.Command(binary, "version")
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("version command failed: %v\nOutput: %s", err, output)
	}

	outputStr := string(output)
	for _, exp := range []string{"datumcheck version:", "Git commit:", "Go version:"} {
		if !strings.Contains(outputStr, exp) {
			t.Errorf("expected output to contain %q, got:\n%s", exp, outputStr)
		}
	}
}

// TestCheckAcceptedSchema tests a schema that passes validation
func TestCheckAcceptedSchema(t *testing.T) {
	binary, err := buildTestBinary()
	if err != nil {
		t.Fatalf("failed to build test binary: %v", err)
	}

	path := writeSchema(t, acceptedSchema)
	cmd := exec.Command(binary, "check", "--no-color", path)
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("check command failed: %v\nOutput: %s", err, output)
	}
	if !strings.Contains(string(output), "valid Plutus datum spec") {
		t.Errorf("expected acceptance message, got:\n%s", output)
	}
}

// TestCheckRejectedSchema tests a schema that fails validation
func TestCheckRejectedSchema(t *testing.T) {
	binary, err := buildTestBinary()
	if err != nil {
		t.Fatalf("failed to build test binary: %v", err)
	}

	path := writeSchema(t, rejectedSchema)
	cmd := exec.Command(binary, "check", "--no-color", path)
	output, err := cmd.CombinedOutput()
	if err == nil {
		t.Fatalf("expected non-zero exit for a rejected schema, got:\n%s", output)
	}
	if !strings.Contains(string(output), "RawBytesForbidden") {
		t.Errorf("expected RawBytesForbidden in output, got:\n%s", output)
	}
}

// TestCheckJSONOutput tests the machine-readable report
func TestCheckJSONOutput(t *testing.T) {
	binary, err := buildTestBinary()
	if err != nil {
		t.Fatalf("failed to build test binary: %v", err)
	}

	path := writeSchema(t, rejectedSchema)
	cmd := exec.Command(binary, "check", "--json", path)
	output, _ := cmd.CombinedOutput()
	outputStr := string(output)
	if !strings.Contains(outputStr, `"accepted": false`) {
		t.Errorf("expected accepted=false in JSON output, got:\n%s", outputStr)
	}
	if !strings.Contains(outputStr, `"rule": "RawBytesForbidden"`) {
		t.Errorf("expected RawBytesForbidden violation in JSON output, got:\n%s", outputStr)
	}
}

// TestCheckMissingFile tests the error path for an unreadable input
func TestCheckMissingFile(t *testing.T) {
	binary, err := buildTestBinary()
	if err != nil {
		t.Fatalf("failed to build test binary: %v", err)
	}

	cmd := exec.Command(binary, "check", "no-such-file.json")
	if output, err := cmd.CombinedOutput(); err == nil {
		t.Errorf("expected failure for a missing input file, got:\n%s", output)
	}
}
