package monitor

import (
	"context"
	"testing"

	"github.com/matzehuels/rwpspread/pkg/errors"
)

func TestNew(t *testing.T) {
	m := New("DP-1", -1920, 0, 1920, 1080)
	if m.InitialWidth != 1920 || m.InitialHeight != 1080 {
		t.Errorf("initial size = %dx%d, want 1920x1080", m.InitialWidth, m.InitialHeight)
	}
	if got := m.String(); got != "DP-1: 1920x1080 at -1920:0" {
		t.Errorf("String() = %q", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		monitors []Monitor
		wantCode errors.Code
	}{
		{
			name:     "valid",
			monitors: []Monitor{New("A", 0, 0, 1920, 1080), New("B", 1920, 0, 1920, 1080)},
		},
		{
			name:     "empty",
			monitors: nil,
			wantCode: errors.ErrCodeInvalidMonitor,
		},
		{
			name:     "duplicate",
			monitors: []Monitor{New("A", 0, 0, 1920, 1080), New("A", 1920, 0, 1920, 1080)},
			wantCode: errors.ErrCodeInvalidMonitor,
		},
		{
			name:     "zero width",
			monitors: []Monitor{New("A", 0, 0, 0, 1080)},
			wantCode: errors.ErrCodeInvalidMonitor,
		},
		{
			name:     "no name",
			monitors: []Monitor{New("", 0, 0, 1920, 1080)},
			wantCode: errors.ErrCodeInvalidMonitor,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.monitors)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("Validate() error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestSorted(t *testing.T) {
	in := []Monitor{New("HDMI-A-1", 0, 0, 1, 1), New("DP-2", 0, 0, 1, 1), New("DP-1", 0, 0, 1, 1)}
	got := Names(Sorted(in))
	want := []string{"DP-1", "DP-2", "HDMI-A-1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Sorted() names = %v, want %v", got, want)
		}
	}
	if in[0].Name != "HDMI-A-1" {
		t.Error("Sorted() must not reorder its input")
	}
}

func TestStaticSource(t *testing.T) {
	src := StaticSource{New("A", 0, 0, 10, 10)}
	got, err := src.Monitors(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	got[0].Name = "changed"
	if src[0].Name != "A" {
		t.Error("Monitors() must return a copy")
	}
}
