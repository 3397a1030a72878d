package directory

import (
	"testing"
	"time"
)

func TestDebouncer(t *testing.T) {
	clk := &fakeClock{now: time.Unix(0, 0)}
	d := NewDebouncer(100*time.Millisecond, clk.Now)

	steps := []struct {
		advance time.Duration
		want    bool
	}{
		{0, true},
		{10 * time.Millisecond, false},
		{80 * time.Millisecond, false},
		// dropped events do not extend the cool-down
		{20 * time.Millisecond, true},
		{150 * time.Millisecond, true},
		{1 * time.Millisecond, false},
	}
	for i, s := range steps {
		clk.Advance(s.advance)
		if got := d.Accept(); got != s.want {
			t.Errorf("step %d: Accept() = %v, want %v", i, got, s.want)
		}
	}
}

func TestDebouncer_Disabled(t *testing.T) {
	d := NewDebouncer(0, nil)
	for range 5 {
		if !d.Accept() {
			t.Fatal("disabled debouncer must accept every event")
		}
	}
}
