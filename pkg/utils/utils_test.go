package utils

import "testing"

func TestAverageFloat64(t *testing.T) {
	tests := []struct {
		name     string
		input    []float64
		expected float64
	}{
		{"normal case", []float64{1.0, 2.0, 3.0}, 2.0},
		{"single element", []float64{5.0}, 5.0},
		{"empty slice", []float64{}, 0.0},
		{"negative numbers", []float64{-1.0, 1.0}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := AverageFloat64(tt.input)
			if result != tt.expected {
				t.Errorf("expected %f, got %f", tt.expected, result)
			}
		})
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name            string
		v, low, high    int
		expected        int
	}{
		{"inside range", 3, 0, 5, 3},
		{"below range", -2, 0, 5, 0},
		{"above range", 9, 0, 5, 5},
		{"at lower bound", 0, 0, 5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.v, tt.low, tt.high); got != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got)
			}
		})
	}
}
