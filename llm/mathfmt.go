package llm

import (
	"regexp"
	"strings"
)

// Academic replies are post-processed so plain-text math renders as
// LaTeX even when the model ignores the prompt's formatting rules.

var (
	trigFuncRe     = regexp.MustCompile(`\b(arcsin|arccos|arctan|sin|cos|tan|sec|csc|cot)\b`)
	plainFracRe    = regexp.MustCompile(`\b(\d+)\s*/\s*(\d+)\b`)
	equationCharRe = regexp.MustCompile(`[/()+\-*^]`)
)

// ConvertMathToLaTeX rewrites plain-text math notation into LaTeX.
// Text that already carries substantial LaTeX is left untouched.
func ConvertMathToLaTeX(text string) string {
	if strings.Count(text, "$") > 5 {
		return text
	}

	result := text
	result = strings.ReplaceAll(result, "²", "^{2}")
	result = strings.ReplaceAll(result, "³", "^{3}")
	result = strings.ReplaceAll(result, "±", `\pm`)

	result = trigFuncRe.ReplaceAllString(result, `\$1`)

	// Lines that look like standalone equations go to display mode;
	// leading "label:" text stays outside the math block.
	lines := strings.Split(result, "\n")
	for i, line := range lines {
		if !strings.Contains(line, "=") || !equationCharRe.MatchString(line) {
			continue
		}
		if label, eq, ok := strings.Cut(line, ":"); ok {
			lines[i] = label + ":\n$$" + strings.TrimSpace(eq) + "$$"
		} else {
			lines[i] = "$$" + strings.TrimSpace(line) + "$$"
		}
	}
	result = strings.Join(lines, "\n")

	// Simple numeric fractions like 5/6 become inline math.
	result = plainFracRe.ReplaceAllString(result, `$$\frac{$1}{$2}$$`)

	return result
}
