package sliceutil

import (
	"reflect"
	"testing"
)

func TestDeduplicate(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"No duplicates", []string{"a", "b", "c"}, []string{"a", "b", "c"}},
		{"Duplicates removed", []string{"a", "b", "a", "c", "b"}, []string{"a", "b", "c"}},
		{"First occurrence kept", []string{"Smith, John", "Doe, Jane", "Smith, John"}, []string{"Smith, John", "Doe, Jane"}},
		{"Empty slice", []string{}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Deduplicate(tt.input, func(s string) string { return s })
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Deduplicate(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestDeduplicateByKey(t *testing.T) {
	type offering struct {
		Code string
		Year int
	}
	input := []offering{{"CSE 1310", 2023}, {"CSE 1310", 2024}, {"CSE 2320", 2024}}
	got := Deduplicate(input, func(o offering) string { return o.Code })
	if len(got) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got))
	}
	if got[0].Year != 2023 {
		t.Errorf("expected first occurrence to win, got year %d", got[0].Year)
	}
}
