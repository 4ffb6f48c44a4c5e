package pathutil

import "testing"

func TestMatcherDirOnly(t *testing.T) {
	m := NewMatcher([]string{"node_modules/"})
	if !m.Match("node_modules", true) {
		t.Fatal("expected node_modules dir to be ignored")
	}
	if m.Match("node_modules", false) {
		t.Fatal("did not expect a file named node_modules to be ignored")
	}
}

func TestMatcherAnchored(t *testing.T) {
	m := NewMatcher([]string{"/src/generated"})
	if !m.Match("src/generated", true) {
		t.Fatal("expected anchored match")
	}
	if m.Match("lib/src/generated", true) {
		t.Fatal("anchored pattern must not match nested occurrence")
	}
}

func TestMatcherGlobSegment(t *testing.T) {
	m := NewMatcher([]string{"*.pyc"})
	if !m.Match("pkg/mod.pyc", false) {
		t.Fatal("expected glob segment match regardless of directory depth")
	}
}

func TestCanonicalizeIsIdempotent(t *testing.T) {
	a, err := Canonicalize(".")
	if err != nil {
		t.Fatal(err)
	}
	b, err := Canonicalize(a)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatalf("canonicalize not idempotent: %q vs %q", a, b)
	}
}
