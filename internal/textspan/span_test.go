package textspan

import "testing"

func TestApply_MultiByteBoundaries(t *testing.T) {
	src := "café 🎉 done"
	// Replace "🎉" (4 bytes at offset 6: "café " is 6 bytes).
	out := Apply(src, []Splice{{Offset: 6, Length: 4, Text: "party"}})
	if out != "café party done" {
		t.Errorf("got %q", out)
	}
}

func TestApply_DescendingOrderKeepsOffsetsValid(t *testing.T) {
	src := "aaa bbb ccc"
	out := Apply(src, []Splice{
		{Offset: 0, Length: 3, Text: "xxxxxx"},
		{Offset: 8, Length: 3, Text: "y"},
		{Offset: 4, Length: 3, Text: "zz"},
	})
	if out != "xxxxxx zz y" {
		t.Errorf("got %q", out)
	}
}

func TestApply_ZeroLengthInserts(t *testing.T) {
	src := "<h2></h2>"
	out := Apply(src, []Splice{{Offset: 4, Length: 0, Text: "Title"}})
	if out != "<h2>Title</h2>" {
		t.Errorf("got %q", out)
	}
}

func TestApply_SkipsOverlaps(t *testing.T) {
	src := "0123456789"
	out := Apply(src, []Splice{
		{Offset: 4, Length: 4, Text: "X"},
		{Offset: 6, Length: 3, Text: "Y"}, // overlaps the splice above
	})
	// Higher offset applies first; the overlapping lower one is skipped.
	if out != "012345Y9" {
		t.Errorf("expected the higher-offset splice to win, got %q", out)
	}
}

func TestApply_OutOfRangeIgnored(t *testing.T) {
	src := "abc"
	if out := Apply(src, []Splice{{Offset: 10, Length: 1, Text: "x"}}); out != "abc" {
		t.Errorf("got %q", out)
	}
}

func TestFindNear(t *testing.T) {
	src := "prefix prefix TARGET suffix"
	if got := FindNear(src, "TARGET", 10, 20); got != 14 {
		t.Errorf("expected 14, got %d", got)
	}
	if got := FindNear(src, "TARGET", 10, 2); got != -1 {
		t.Errorf("expected -1 outside window, got %d", got)
	}
	if got := FindNear(src, "missing", 10, 200); got != -1 {
		t.Errorf("expected -1, got %d", got)
	}
	if got := FindNear(src, "", 10, 200); got != -1 {
		t.Errorf("expected -1 for empty needle, got %d", got)
	}
}

func TestSliceEquals(t *testing.T) {
	src := "héllo"
	if !SliceEquals(src, 0, "héllo") {
		t.Error("expected full match")
	}
	if SliceEquals(src, 0, "hello") {
		t.Error("expected mismatch")
	}
	if SliceEquals(src, 3, "lol") {
		// Offset 3 lands mid-rune; bytes simply do not match.
		t.Error("expected mismatch at mid-rune offset")
	}
	if SliceEquals(src, 4, "loX") {
		t.Error("expected mismatch")
	}
	if SliceEquals(src, 5, "loo") {
		t.Error("expected out-of-range to be false")
	}
}
