package xlsxtmpl

import "testing"

func TestAddGeneratedBy(t *testing.T) {
	f, _ := newTestTemplate(t)

	if err := AddGeneratedBy(f, "Sheet1", 50, "b.adeyemi"); err != nil {
		t.Fatalf("footer: %v", err)
	}

	if got := cellStr(t, f, "Sheet1", colOutput, 52); got != "Report Generated by: b.adeyemi" {
		t.Fatalf("footer text = %q", got)
	}
	if got := mergeCount(t, f, "Sheet1", 52); got != 1 {
		t.Fatalf("footer row merges = %d, want 1", got)
	}
	height, err := f.GetRowHeight("Sheet1", 52)
	if err != nil {
		t.Fatalf("row height: %v", err)
	}
	if height != footerRowHeight {
		t.Fatalf("footer height = %v", height)
	}
}
