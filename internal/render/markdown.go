package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/better-vibe/repo-slice/internal/model"
)

// extensionLang maps a file extension to a fenced-code-block language tag.
var extensionLang = map[string]string{
	".ts": "typescript", ".tsx": "tsx", ".js": "javascript", ".jsx": "jsx",
	".py": "python", ".json": "json", ".md": "markdown",
}

// Markdown renders a Bundle as a preamble + index + fenced-code-block +
// omitted-list document.
func Markdown(b Bundle) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("- toolVersion: %s\n", b.Meta.ToolVersion))
	sb.WriteString(fmt.Sprintf("- depth: %d\n", b.Meta.Depth))
	sb.WriteString(fmt.Sprintf("- budgetChars: %d\n", b.Meta.Budget.BudgetChars))
	sb.WriteString(fmt.Sprintf("- usedChars: %d\n", b.Meta.Budget.UsedChars))
	if b.Meta.Budget.UsedTokens > 0 {
		sb.WriteString(fmt.Sprintf("- usedTokens: %d\n", b.Meta.Budget.UsedTokens))
	}
	if b.Meta.Timestamp != "" {
		sb.WriteString(fmt.Sprintf("- timestamp: %s\n", b.Meta.Timestamp))
	}
	if len(b.Meta.UnresolvedSymbols) > 0 {
		sb.WriteString(fmt.Sprintf("- unresolvedSymbols: %s\n", strings.Join(b.Meta.UnresolvedSymbols, ", ")))
	}
	sb.WriteString("\n## Index\n\n")
	for _, it := range b.Items {
		sb.WriteString(fmt.Sprintf("- %s%s — %s\n", it.FilePath, rangeSuffix(it.Range), strings.Join(it.Reasons, ", ")))
	}

	sb.WriteString("\n")
	for _, it := range b.Items {
		sb.WriteString(fmt.Sprintf("### %s%s\n\n", it.FilePath, rangeSuffix(it.Range)))
		sb.WriteString("```" + langTag(it.FilePath) + "\n")
		sb.WriteString(it.Content)
		if !strings.HasSuffix(it.Content, "\n") {
			sb.WriteString("\n")
		}
		sb.WriteString("```\n\n")
	}

	if len(b.Omitted) > 0 {
		sb.WriteString("## Omitted\n\n")
		for _, o := range b.Omitted {
			sb.WriteString(fmt.Sprintf("- %s%s — %s\n", o.FilePath, rangeSuffix(o.Range), o.Reason))
		}
	}

	return sb.String()
}

func rangeSuffix(r *model.Range) string {
	if r == nil {
		return ""
	}
	return ":" + strconv.Itoa(r.StartLine) + "-" + strconv.Itoa(r.EndLine)
}

func langTag(filePath string) string {
	for ext, tag := range extensionLang {
		if strings.HasSuffix(filePath, ext) {
			return tag
		}
	}
	return ""
}
