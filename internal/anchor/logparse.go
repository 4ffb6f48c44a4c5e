package anchor

import (
	"regexp"
	"strconv"
)

var (
	reCompilerDiagnostic = regexp.MustCompile(`^(\S+):(\d+):(\d+)\s*-\s+\S`)
	reTypechecker        = regexp.MustCompile(`^(\S+):(\d+):\s`)
	reStackFrame         = regexp.MustCompile(`\((\S+):(\d+):(\d+)\)`)
	reTestHeader         = regexp.MustCompile(`^FAIL\s+(\S+)`)
	rePytest             = regexp.MustCompile(`File "([^"]+)", line (\d+)`)
	rePointer            = regexp.MustCompile(`❯\s*(\S+):(\d+):(\d+)`)
)

// ParseLogLines parses structured log lines in any of several common
// styles (compiler diagnostic, module-typechecker, test-framework stack
// frame, test header, pytest, pointer), deduplicating anchors at the
// same (file, line).
func ParseLogLines(lines []string) []LogAnchor {
	seen := make(map[string]bool)
	var out []LogAnchor
	add := func(path string, line int) {
		key := path + ":" + strconv.Itoa(line)
		if seen[key] {
			return
		}
		seen[key] = true
		out = append(out, LogAnchor{FilePath: path, Line: line})
	}

	for _, line := range lines {
		if m := reCompilerDiagnostic.FindStringSubmatch(line); m != nil {
			add(m[1], atoi(m[2]))
			continue
		}
		if m := rePointer.FindStringSubmatch(line); m != nil {
			add(m[1], atoi(m[2]))
			continue
		}
		if m := reStackFrame.FindStringSubmatch(line); m != nil {
			add(m[1], atoi(m[2]))
			continue
		}
		if m := rePytest.FindStringSubmatch(line); m != nil {
			add(m[1], atoi(m[2]))
			continue
		}
		if m := reTypechecker.FindStringSubmatch(line); m != nil {
			add(m[1], atoi(m[2]))
			continue
		}
		if m := reTestHeader.FindStringSubmatch(line); m != nil {
			add(m[1], 1)
			continue
		}
	}
	return out
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
