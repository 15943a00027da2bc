package analyzer

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestParseListing(t *testing.T) {
	tests := []struct {
		name    string
		out     string
		wantBPM int
		wantErr bool
	}{
		{
			name:    "plain listing",
			out:     "song.mid;1;2;480;0;12.5;120.00,0.52;0",
			wantBPM: 120,
		},
		{
			name:    "multiple tempos keeps the first",
			out:     "song.mid;1;2;480;0;12.5;90.00,140.00,0.52;0",
			wantBPM: 90,
		},
		{
			name:    "integer tempo without decimals",
			out:     "song.mid;1;2;480;0;12.5;75;0",
			wantBPM: 75,
		},
		{
			name:    "too few fields",
			out:     "song.mid;1;2",
			wantErr: true,
		},
		{
			name:    "empty output",
			out:     "",
			wantErr: true,
		},
		{
			name:    "non-numeric tempo",
			out:     "song.mid;1;2;480;0;12.5;fast;0",
			wantErr: true,
		},
		{
			name:    "zero tempo",
			out:     "song.mid;1;2;480;0;12.5;0.00;0",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := ParseListing(tt.out)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseListing(%q) succeeded, want error", tt.out)
				}
				if !errors.Is(err, ErrMalformedOutput) {
					t.Errorf("error %v is not ErrMalformedOutput", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseListing(%q) failed: %v", tt.out, err)
			}
			if report.BPM != tt.wantBPM {
				t.Errorf("BPM = %d, want %d", report.BPM, tt.wantBPM)
			}
		})
	}
}

type cannedRunner struct {
	out      string
	err      error
	lastName string
	lastArgs []string
}

func (r *cannedRunner) Run(name string, args ...string) (string, error) {
	r.lastName = name
	r.lastArgs = args
	return r.out, r.err
}

func TestMetamidiAnalyze(t *testing.T) {
	runner := &cannedRunner{out: "x.mid;1;2;480;0;12.5;120.00,0.52;0"}
	m := NewMetamidiWithRunner("/opt/metamidi", runner)

	report, err := m.Analyze("/tracks/x.mid")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if report.BPM != 120 {
		t.Errorf("BPM = %d, want 120", report.BPM)
	}
	if runner.lastName != "/opt/metamidi" {
		t.Errorf("ran %q, want configured binary path", runner.lastName)
	}
	if want := []string{"-l", "/tracks/x.mid"}; strings.Join(runner.lastArgs, " ") != strings.Join(want, " ") {
		t.Errorf("args = %v, want %v", runner.lastArgs, want)
	}
}

func TestMetamidiAnalyzeRunnerFailure(t *testing.T) {
	runner := &cannedRunner{err: fmt.Errorf("exec failed")}
	m := NewMetamidiWithRunner("metamidi", runner)

	if _, err := m.Analyze("x.mid"); err == nil {
		t.Fatal("Analyze succeeded with a failing runner")
	}
}
