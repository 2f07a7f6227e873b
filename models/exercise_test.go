package models

import "testing"

func TestLevelMetaFor(t *testing.T) {
	meta := LevelMetaFor(3)
	if meta.Name != "Complete Sentences" || meta.Color != "#ce3630" {
		t.Errorf("level 3 meta = %+v", meta)
	}

	unknown := LevelMetaFor(9)
	if unknown.Name != "Unknown Level" || unknown.Color != "#999999" {
		t.Errorf("unknown level meta = %+v", unknown)
	}
}

func TestBuildExerciseID(t *testing.T) {
	cases := []struct {
		exerciseType string
		order        int
		want         string
	}{
		{"controlled-breathing", 1, "breath-1"},
		{"short-phrase", 3, "phrase-3"},
		{"sentence", 2, "sentence-2"},
		{"reading-passage", 1, "exercise-1"},
		{"", 4, "exercise-4"},
	}
	for _, tc := range cases {
		if got := BuildExerciseID(tc.exerciseType, tc.order); got != tc.want {
			t.Errorf("BuildExerciseID(%q, %d) = %q, want %q", tc.exerciseType, tc.order, got, tc.want)
		}
	}
}
