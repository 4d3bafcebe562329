package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func planContent(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read plan: %v", err)
	}
	return string(data)
}

func run(t *testing.T, planPath string, args ...string) error {
	t.Helper()
	full := append([]string{"-plan", planPath}, args...)
	return Run(context.Background(), full)
}

func TestVersionCommand(t *testing.T) {
	if err := Run(context.Background(), []string{"version"}); err != nil {
		t.Fatalf("version failed: %v", err)
	}
}

func TestUnknownCommand(t *testing.T) {
	err := Run(context.Background(), []string{"frobnicate"})
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestUpsertCommand(t *testing.T) {
	dir := t.TempDir()
	planPath := filepath.Join(dir, "PLAN.md")
	payload := writeFile(t, filepath.Join(dir, "batch.json"),
		`[{"status":"todo","title":"Step A"},{"status":"todo","title":"Step B"}]`)

	if err := run(t, planPath, "upsert", payload); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	want := "<PLAN>\n- [todo][1] Step A\n- [todo][2] Step B\n</PLAN>\n"
	if got := planContent(t, planPath); got != want {
		t.Errorf("plan content: got %q, want %q", got, want)
	}
}

func TestRemoveCommand(t *testing.T) {
	dir := t.TempDir()
	planPath := filepath.Join(dir, "PLAN.md")
	payload := writeFile(t, filepath.Join(dir, "batch.json"),
		`[{"status":"todo","title":"A"},{"status":"todo","title":"B"},{"status":"todo","title":"C"}]`)
	if err := run(t, planPath, "upsert", payload); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	if err := run(t, planPath, "remove", "1,3"); err != nil {
		t.Fatalf("remove failed: %v", err)
	}

	want := "<PLAN>\n- [todo][1] B\n</PLAN>\n"
	if got := planContent(t, planPath); got != want {
		t.Errorf("plan content: got %q, want %q", got, want)
	}
}

func TestRemoveCommandRejectsBadIDs(t *testing.T) {
	planPath := filepath.Join(t.TempDir(), "PLAN.md")

	if err := run(t, planPath, "remove", "1,1"); err == nil {
		t.Error("expected duplicate id error")
	}
	if err := run(t, planPath, "remove", "zero"); err == nil {
		t.Error("expected invalid id error")
	}
	if err := run(t, planPath, "remove"); err == nil {
		t.Error("expected missing ids error")
	}
}

func TestPatchCommand(t *testing.T) {
	dir := t.TempDir()
	planPath := filepath.Join(dir, "PLAN.md")
	payload := writeFile(t, filepath.Join(dir, "batch.json"), `[{"status":"todo","title":"Step C"}]`)
	if err := run(t, planPath, "upsert", payload); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	patch := writeFile(t, filepath.Join(dir, "patch.txt"),
		"<<<<<<< SEARCH\n=======\n- [todo][99] Step D\n>>>>>>> REPLACE\n")
	if err := run(t, planPath, "patch", patch); err != nil {
		t.Fatalf("patch failed: %v", err)
	}

	want := "<PLAN>\n- [todo][1] Step C\n- [todo][2] Step D\n</PLAN>\n"
	if got := planContent(t, planPath); got != want {
		t.Errorf("plan content: got %q, want %q", got, want)
	}
}

func TestStartAndDoneCommands(t *testing.T) {
	dir := t.TempDir()
	planPath := filepath.Join(dir, "PLAN.md")
	payload := writeFile(t, filepath.Join(dir, "batch.json"), `[{"status":"todo","title":"A"}]`)
	if err := run(t, planPath, "upsert", payload); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	if err := run(t, planPath, "start"); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if got := planContent(t, planPath); !strings.Contains(got, "- [doing][1] A") {
		t.Errorf("expected doing status, got %q", got)
	}

	if err := run(t, planPath, "done", "1"); err != nil {
		t.Fatalf("done failed: %v", err)
	}
	if got := planContent(t, planPath); !strings.Contains(got, "- [done][1] A") {
		t.Errorf("expected done status, got %q", got)
	}
}

func TestDoneWithoutStartFails(t *testing.T) {
	dir := t.TempDir()
	planPath := filepath.Join(dir, "PLAN.md")
	payload := writeFile(t, filepath.Join(dir, "batch.json"), `[{"status":"todo","title":"A"}]`)
	if err := run(t, planPath, "upsert", payload); err != nil {
		t.Fatalf("upsert failed: %v", err)
	}

	if err := run(t, planPath, "done", "1"); err == nil {
		t.Error("expected invalid transition error")
	}
}

func TestShowCommandOnMissingFile(t *testing.T) {
	planPath := filepath.Join(t.TempDir(), "PLAN.md")
	if err := run(t, planPath, "show"); err != nil {
		t.Fatalf("show failed: %v", err)
	}
}

func TestParseIDList(t *testing.T) {
	tests := []struct {
		input   string
		want    []int
		wantErr bool
	}{
		{input: "2,4", want: []int{2, 4}},
		{input: " 1 , 2 ", want: []int{1, 2}},
		{input: "0", wantErr: true},
		{input: "-3", wantErr: true},
		{input: "a", wantErr: true},
		{input: "2,2", wantErr: true},
		{input: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseIDList(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseIDList(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseIDList(%q): %v", tt.input, err)
			continue
		}
		if len(got) != len(tt.want) {
			t.Errorf("parseIDList(%q): got %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("parseIDList(%q): got %v, want %v", tt.input, got, tt.want)
				break
			}
		}
	}
}
