package vcsdiff

import "testing"

func TestParseUnifiedDiffHunkRange(t *testing.T) {
	data := []byte(`diff --git a/src/app.ts b/src/app.ts
index 1111111..2222222 100644
--- a/src/app.ts
+++ b/src/app.ts
@@ -1,2 +1,3 @@
 line one
+line two
 line three
`)
	hunks, err := parseUnifiedDiff(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(hunks) != 1 {
		t.Fatalf("expected 1 hunk, got %d", len(hunks))
	}
	h := hunks[0]
	if h.FilePath != "src/app.ts" {
		t.Fatalf("unexpected file path %q", h.FilePath)
	}
	if h.Range.StartLine != 1 || h.Range.EndLine != 3 {
		t.Fatalf("unexpected range %+v", h.Range)
	}
}
