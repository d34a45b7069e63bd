package cli

import (
	"testing"
)

func TestViewerCommandWaitBehavior(t *testing.T) {
	tests := []struct {
		goos     string
		wantBin  string
		wantWait bool
	}{
		{"darwin", "open", true},
		{"windows", "cmd", true},
		{"linux", "xdg-open", false},
		{"freebsd", "xdg-open", false},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			cmd, waits := viewerCommand(tt.goos, "/tmp/graph.svg")
			if waits != tt.wantWait {
				t.Errorf("waits = %v, want %v", waits, tt.wantWait)
			}
			if len(cmd.Args) == 0 || cmd.Args[0] != tt.wantBin {
				t.Errorf("args = %v, want %s first", cmd.Args, tt.wantBin)
			}
			found := false
			for _, a := range cmd.Args {
				if a == "/tmp/graph.svg" {
					found = true
				}
			}
			if !found {
				t.Errorf("path missing from args %v", cmd.Args)
			}
		})
	}
}
