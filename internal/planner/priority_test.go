package planner

import (
	"reflect"
	"testing"
)

func TestPriorityForTenChores(t *testing.T) {
	want := []int{1, 1, 2, 2, 3, 3, 4, 4, 5, 5}
	for i, w := range want {
		if got := PriorityFor(i, 10); got != w {
			t.Errorf("PriorityFor(%d, 10) = %d, want %d", i, got, w)
		}
	}
}

func TestPriorityForSmallSets(t *testing.T) {
	tests := []struct {
		n    int
		want []int
	}{
		{1, []int{1}},
		{2, []int{1, 2}},
		{3, []int{1, 2, 3}},
		{4, []int{1, 2, 3, 4}},
		{5, []int{1, 2, 3, 4, 5}},
		{7, []int{1, 2, 3, 3, 4, 5, 5}},
	}

	for _, tt := range tests {
		got := make([]int, tt.n)
		for i := range tt.n {
			got[i] = PriorityFor(i, tt.n)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("n=%d: priorities = %v, want %v", tt.n, got, tt.want)
		}
	}
}

func TestPriorityForRangeAndMonotonic(t *testing.T) {
	for n := 1; n <= 40; n++ {
		prev := 0
		for i := range n {
			p := PriorityFor(i, n)
			if p < 1 || p > 5 {
				t.Fatalf("PriorityFor(%d, %d) = %d, out of range", i, n, p)
			}
			if p < prev {
				t.Fatalf("PriorityFor(%d, %d) = %d, less than previous %d", i, n, p, prev)
			}
			prev = p
		}
		if n >= 5 && PriorityFor(n-1, n) != 5 {
			t.Errorf("last of %d chores got %d, want 5", n, PriorityFor(n-1, n))
		}
	}
}

func TestMapPriorities(t *testing.T) {
	got := MapPriorities([]int64{30, 10, 20})
	want := []Assignment{{30, 1}, {10, 2}, {20, 3}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MapPriorities = %v, want %v", got, want)
	}

	if got := MapPriorities(nil); len(got) != 0 {
		t.Errorf("MapPriorities(nil) = %v, want empty", got)
	}
}

func TestNormalizeOrdering(t *testing.T) {
	input := []int64{1, 2, 3, 4}

	tests := []struct {
		name    string
		ordered []int64
		want    []int64
	}{
		{"permutation kept", []int64{4, 2, 1, 3}, []int64{4, 2, 1, 3}},
		{"unknown dropped", []int64{4, 99, 2, 1, 3}, []int64{4, 2, 1, 3}},
		{"duplicates keep first", []int64{2, 2, 1, 2, 4, 3}, []int64{2, 1, 4, 3}},
		{"missing appended", []int64{3}, []int64{3, 1, 2, 4}},
		{"empty keeps input", nil, []int64{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeOrdering(tt.ordered, input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("NormalizeOrdering = %v, want %v", got, tt.want)
			}
		})
	}
}
