package sizing

import "testing"

func TestTarget(t *testing.T) {
	tests := []struct {
		name     string
		measured float64
		density  float64
		step     int
		want     int
	}{
		{"rounds up to next step", 257, 1, 100, 300},
		{"exact multiple unchanged", 200, 1, 100, 200},
		{"zero measured is not ready", 0, 1.5, 100, 0},
		{"density scales before quantizing", 150, 2, 100, 300},
		{"small box still one full step", 1, 1, 100, 100},
		{"custom step", 130, 1, 50, 150},
		{"zero density falls back to 1", 257, 0, 100, 300},
		{"zero step falls back to default", 257, 1, 0, 300},
		{"negative measured is not ready", -10, 1, 100, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Target(tt.measured, tt.density, tt.step)
			if got != tt.want {
				t.Errorf("Target(%v, %v, %d) = %d, want %d",
					tt.measured, tt.density, tt.step, got, tt.want)
			}
		})
	}
}

func TestTarget_MultipleOfStep(t *testing.T) {
	for size := 0.0; size <= 2000; size += 7 {
		for _, density := range []float64{1, 1.5, 2, 3} {
			got := Target(size, density, 100)
			if got < 0 {
				t.Fatalf("Target(%v, %v, 100) = %d, negative", size, density, got)
			}
			if got%100 != 0 {
				t.Fatalf("Target(%v, %v, 100) = %d, not a multiple of 100", size, density, got)
			}
		}
	}
}

func TestTarget_Monotonic(t *testing.T) {
	prev := 0
	for size := 0.0; size <= 3000; size++ {
		got := Target(size, 1.5, 100)
		if got < prev {
			t.Fatalf("Target decreased: Target(%v) = %d after %d", size, got, prev)
		}
		prev = got
	}
}
