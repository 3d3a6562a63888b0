package scene

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		folder string
		want   Category
	}{
		{"SM2", Comparison},
		{"dexycb_07", Comparison},
		{"mug_rotate", Rotate},
		{"SM2_retarget", Retarget},
		{"ABF12_retarget", Retarget},
		{"x_rotate_retarget", Rotate},
		{"x_retarget_rotate", Rotate},
		{"MUG_ROTATE", Comparison},
		{"rotate", Comparison},
		{"_Retarget", Comparison},
		{"", Comparison},
	}
	for _, tt := range tests {
		t.Run(tt.folder, func(t *testing.T) {
			if got := Classify(tt.folder); got != tt.want {
				t.Errorf("Classify(%q) = %v, want %v", tt.folder, got, tt.want)
			}
		})
	}
}

func TestStrategyFor(t *testing.T) {
	for _, c := range []Category{Comparison, Rotate, Retarget} {
		if got := StrategyFor(c).Category(); got != c {
			t.Errorf("StrategyFor(%v).Category() = %v", c, got)
		}
	}
	if StrategyFor(Retarget).CropsToWidth() {
		t.Error("retarget clips must never be cropped to width")
	}
	if !StrategyFor(Comparison).CropsToWidth() || !StrategyFor(Rotate).CropsToWidth() {
		t.Error("comparison and rotate clips are cropped to width")
	}
	if got := StrategyFor(Category(42)).Category(); got != Comparison {
		t.Errorf("unknown category falls back to comparison, got %v", got)
	}
}

func TestCategoryString(t *testing.T) {
	if Comparison.String() != "comparison" || Rotate.String() != "rotate" || Retarget.String() != "retarget" {
		t.Error("unexpected category names")
	}
}
