package common

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEnvFile(t *testing.T) {
	t.Run("missing file is not an error", func(t *testing.T) {
		if err := LoadEnvFile(filepath.Join(t.TempDir(), "nope.env")); err != nil {
			t.Fatalf("LoadEnvFile: %v", err)
		}
	})

	t.Run("empty path is a no-op", func(t *testing.T) {
		if err := LoadEnvFile(""); err != nil {
			t.Fatalf("LoadEnvFile: %v", err)
		}
	})

	t.Run("parses export prefixes and quotes", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		content := "# comment\n" +
			"ROADGUARD_TEST_PLAIN=plain\n" +
			"export ROADGUARD_TEST_EXPORTED=exported\n" +
			"ROADGUARD_TEST_QUOTED=\"with spaces\"\n" +
			"ROADGUARD_TEST_SINGLE='single'\n" +
			"not a pair\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
		for _, key := range []string{"ROADGUARD_TEST_PLAIN", "ROADGUARD_TEST_EXPORTED", "ROADGUARD_TEST_QUOTED", "ROADGUARD_TEST_SINGLE"} {
			os.Unsetenv(key)
			t.Cleanup(func() { os.Unsetenv(key) })
		}

		if err := LoadEnvFile(path); err != nil {
			t.Fatalf("LoadEnvFile: %v", err)
		}
		want := map[string]string{
			"ROADGUARD_TEST_PLAIN":    "plain",
			"ROADGUARD_TEST_EXPORTED": "exported",
			"ROADGUARD_TEST_QUOTED":   "with spaces",
			"ROADGUARD_TEST_SINGLE":   "single",
		}
		for key, value := range want {
			if got := os.Getenv(key); got != value {
				t.Errorf("%s = %q, want %q", key, got, value)
			}
		}
	})

	t.Run("existing environment wins", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		if err := os.WriteFile(path, []byte("ROADGUARD_TEST_SET=from-file\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		t.Setenv("ROADGUARD_TEST_SET", "from-env")

		if err := LoadEnvFile(path); err != nil {
			t.Fatalf("LoadEnvFile: %v", err)
		}
		if got := os.Getenv("ROADGUARD_TEST_SET"); got != "from-env" {
			t.Fatalf("ROADGUARD_TEST_SET = %q, want from-env", got)
		}
	})
}

func TestPrintReport(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var buf bytes.Buffer
		PrintReport(&buf, "seed apply", []string{"users: 10"}, nil)

		var report Report
		if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
			t.Fatalf("decode report: %v", err)
		}
		if !report.OK || report.Command != "seed apply" || report.Error != "" {
			t.Fatalf("unexpected report %+v", report)
		}
		if len(report.Details) != 1 || report.Details[0] != "users: 10" {
			t.Fatalf("unexpected details %v", report.Details)
		}
	})

	t.Run("failure carries the error", func(t *testing.T) {
		var buf bytes.Buffer
		PrintReport(&buf, "seed apply", nil, errors.New("connect: refused"))

		var report Report
		if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
			t.Fatalf("decode report: %v", err)
		}
		if report.OK || report.Error != "connect: refused" {
			t.Fatalf("unexpected report %+v", report)
		}
	})
}
