package fade

import "testing"

func TestTableFullOpacityAtFocus(t *testing.T) {
	table := New()
	if table.Alpha(0) != 255 {
		t.Errorf("alpha at distance 0 = %d, want 255", table.Alpha(0))
	}
}

func TestTableMonotonicallyNonIncreasing(t *testing.T) {
	table := New()
	for d := 1; d < Size; d++ {
		if table[d] > table[d-1] {
			t.Fatalf("alpha increased at distance %d: %d > %d", d, table[d], table[d-1])
		}
	}
}

func TestTableReachesZeroAt340(t *testing.T) {
	table := New()
	if table.Alpha(339) == 0 {
		t.Error("alpha should still be positive at distance 339")
	}
	for d := 340; d < Size; d++ {
		if table[d] != 0 {
			t.Fatalf("alpha at distance %d = %d, want 0", d, table[d])
		}
	}
}

func TestTableClampsBeyondSize(t *testing.T) {
	table := New()
	for _, d := range []int{Size, Size + 1, 10_000} {
		if table.Alpha(d) != table[Size-1] {
			t.Errorf("alpha at distance %d should clamp to last entry", d)
		}
	}
}

func TestTableNegativeDistance(t *testing.T) {
	table := New()
	if table.Alpha(-50) != table.Alpha(50) {
		t.Error("alpha should be symmetric in distance")
	}
}

func TestVisible(t *testing.T) {
	if Visible(SkipThreshold - 1) {
		t.Error("alpha below threshold should be skipped")
	}
	if !Visible(SkipThreshold) {
		t.Error("alpha at threshold should be drawn")
	}
}
