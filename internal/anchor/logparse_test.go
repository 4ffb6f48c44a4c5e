package anchor

import "testing"

func TestParseCompilerDiagnostic(t *testing.T) {
	got := ParseLogLines([]string{"src/app.ts:10:5 - error TS2345: nope"})
	if len(got) != 1 || got[0].FilePath != "src/app.ts" || got[0].Line != 10 {
		t.Fatalf("unexpected parse result: %+v", got)
	}
}

func TestParsePytest(t *testing.T) {
	got := ParseLogLines([]string{`File "pkg/mod.py", line 42, in run`})
	if len(got) != 1 || got[0].FilePath != "pkg/mod.py" || got[0].Line != 42 {
		t.Fatalf("unexpected parse result: %+v", got)
	}
}

func TestParseDeduplicatesSameLocation(t *testing.T) {
	got := ParseLogLines([]string{
		"src/app.ts:10:5 - error TS2345: nope",
		"src/app.ts:10:5 - error TS2345: nope again",
	})
	if len(got) != 1 {
		t.Fatalf("expected dedup to one anchor, got %d", len(got))
	}
}
