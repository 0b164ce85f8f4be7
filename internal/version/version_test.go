package version

import (
	"runtime/debug"
	"testing"
)

func TestParseGo(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"go1.22.4", "1.22.4"},
		{"go1.23", "1.23"},
		{"devel go1.24-abcdef", "1.24"},
	}
	for _, c := range cases {
		got, err := parseGo(c.in)
		if err != nil {
			t.Fatalf("parseGo(%q): %v", c.in, err)
		}
		if got.Version != c.want || got.Name != "go" {
			t.Fatalf("parseGo(%q) = %+v, want %q", c.in, got, c.want)
		}
	}
	if _, err := parseGo("gccgo"); err == nil {
		t.Fatalf("expected error for unparseable version")
	}
}

func TestToolVersion(t *testing.T) {
	withMain := func(v string) func() (*debug.BuildInfo, bool) {
		return func() (*debug.BuildInfo, bool) {
			return &debug.BuildInfo{Main: debug.Module{Version: v}}, true
		}
	}
	missing := func() (*debug.BuildInfo, bool) { return nil, false }

	tests := []struct {
		stamped string
		read    func() (*debug.BuildInfo, bool)
		want    string
	}{
		{"v1.4.0", withMain("v0.9.0"), "v1.4.0"},
		{"dev", withMain("v0.9.0"), "v0.9.0"},
		{"dev", withMain("(devel)"), "dev"},
		{"", missing, "dev"},
	}
	for _, tt := range tests {
		if got := toolVersion(tt.stamped, tt.read); got != tt.want {
			t.Fatalf("toolVersion(%q) = %q, want %q", tt.stamped, got, tt.want)
		}
	}
}
