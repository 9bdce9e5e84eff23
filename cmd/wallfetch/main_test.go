package main

import (
	"io"
	"path/filepath"
	"testing"
)

func TestParseWallID(t *testing.T) {
	tests := []struct {
		in          string
		owner, post int64
		wantErr     bool
	}{
		{"-1_42", -1, 42, false},
		{"wall-1_42", -1, 42, false},
		{"1_7", 1, 7, false},
		{"-1", 0, 0, true},
		{"a_b", 0, 0, true},
		{"-1_", 0, 0, true},
	}
	for _, tt := range tests {
		o, p, err := parseWallID(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("%q: expected error", tt.in)
			}
			continue
		}
		if err != nil || o != tt.owner || p != tt.post {
			t.Fatalf("%q: got %d %d %v", tt.in, o, p, err)
		}
	}
}

func TestBarProgressNilSafe(t *testing.T) {
	p := newBarProgress(nil, "x")
	// Step and Finish before Start must not panic
	p.Step()
	p.Finish()
}

func TestBarProgressCountsSteps(t *testing.T) {
	p := newBarProgress(io.Discard, "apiclub")
	p.Start(3)
	for i := 0; i < 3; i++ {
		p.Step()
	}
	p.Finish()
	if !p.bar.IsFinished() {
		t.Fatal("bar should be finished")
	}
}

func TestPostTargetNeedsBothIDs(t *testing.T) {
	tests := []struct {
		name        string
		owner, post int64
		wall        string
		wantErr     bool
	}{
		{"flags", -1, 42, "", false},
		{"wall form wins", 5, 6, "-1_42", false},
		{"missing post", -1, 0, "", true},
		{"missing owner", 0, 42, "", true},
		{"zero post in wall form", 0, 0, "-1_0", true},
		{"bad wall form", 0, 0, "-1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, p, err := postTarget(tt.owner, tt.post, tt.wall)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %d_%d", o, p)
				}
				return
			}
			if err != nil || o != -1 || p != 42 {
				t.Fatalf("got %d_%d %v", o, p, err)
			}
		})
	}
}

func TestLoadConfigExplicitPathMustExist(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")
	if _, err := loadConfig(missing); err == nil {
		t.Fatal("expected error for a missing explicit config")
	}
}

func TestLoadConfigMissingDefaultFallsBack(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("VK_TOKEN", "tok")
	t.Setenv("VK_API_VERSION", "")
	cfg, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Credentials.AccessToken != "tok" || cfg.API.Version != "5.199" {
		t.Fatalf("unexpected fallback config: %+v", cfg)
	}
}
