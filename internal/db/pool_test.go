package db

import "testing"

func TestClampPoolLimits(t *testing.T) {
	tests := []struct {
		maxIn, minIn   int32
		maxOut, minOut int32
	}{
		{maxIn: 10, minIn: 4, maxOut: 10, minOut: 4},
		{maxIn: 0, minIn: 0, maxOut: defaultMaxConns, minOut: defaultMinConns},
		{maxIn: -1, minIn: -1, maxOut: defaultMaxConns, minOut: defaultMinConns},
		{maxIn: 5, minIn: 8, maxOut: 5, minOut: defaultMinConns},
		{maxIn: 1, minIn: 3, maxOut: 1, minOut: 1},
	}
	for _, tc := range tests {
		gotMax, gotMin := clampPoolLimits(tc.maxIn, tc.minIn)
		if gotMax != tc.maxOut || gotMin != tc.minOut {
			t.Fatalf("clamp(%d,%d) = (%d,%d) want (%d,%d)", tc.maxIn, tc.minIn, gotMax, gotMin, tc.maxOut, tc.minOut)
		}
	}
}
