package scientific

import (
	"fmt"
	"strings"
)

// Example is a sample expression shown in the help.
type Example struct {
	Expression  string `json:"expression"`
	Description string `json:"description"`
}

// ExampleGroup groups examples by topic.
type ExampleGroup struct {
	Category string    `json:"category"`
	Examples []Example `json:"examples"`
}

// Examples returns the sample expressions by topic.
func Examples() []ExampleGroup {
	return []ExampleGroup{
		{
			Category: "Trigonometry",
			Examples: []Example{
				{"sin(30)", "Sine of 30 degrees"},
				{"cos(pi/4)", "Cosine of π/4 radians"},
				{"tan(45)", "Tangent of 45 degrees"},
			},
		},
		{
			Category: "Logarithms",
			Examples: []Example{
				{"log(100)", "Base 10 logarithm of 100"},
				{"ln(e)", "Natural logarithm of e"},
				{"exp(1)", "Exponential of 1"},
			},
		},
		{
			Category: "Powers and roots",
			Examples: []Example{
				{"sqrt(16)", "Square root of 16"},
				{"2**8", "2 to the power 8"},
				{"3^4", "3 to the power 4"},
			},
		},
	}
}

// Help returns the expression help as plain text.
func Help() string {
	var b strings.Builder
	b.WriteString("Expression examples:\n\n")
	for _, g := range Examples() {
		fmt.Fprintf(&b, "%s:\n", g.Category)
		for _, e := range g.Examples {
			fmt.Fprintf(&b, "  %s - %s\n", e.Expression, e.Description)
		}
		b.WriteString("\n")
	}
	b.WriteString("Constants: pi, e\n")
	b.WriteString("Functions: sin, cos, tan, asin, acos, atan, log, ln, exp, sqrt, abs\n")
	b.WriteString("Operators: +, -, *, /, ^, **, %, (, )")
	return b.String()
}

// HelpMarkdown returns the same help as a Markdown document.
func HelpMarkdown() string {
	var b strings.Builder
	b.WriteString("# Scientific calculator\n\n")
	for _, g := range Examples() {
		fmt.Fprintf(&b, "## %s\n\n", g.Category)
		for _, e := range g.Examples {
			fmt.Fprintf(&b, "- `%s`: %s\n", e.Expression, e.Description)
		}
		b.WriteString("\n")
	}
	b.WriteString("## Reference\n\n")
	b.WriteString("- **Constants:** `pi`, `e`\n")
	b.WriteString("- **Functions:** `sin`, `cos`, `tan`, `asin`, `acos`, `atan`, `log`, `ln`, `exp`, `sqrt`, `abs`\n")
	b.WriteString("- **Operators:** `+` `-` `*` `/` `^` `**` `%` `(` `)`\n\n")
	b.WriteString("## Session example\n\n")
	b.WriteString("```python\n")
	b.WriteString("angle_mode DEG\n")
	b.WriteString("sin(30) + cos(60)   # = 1\n")
	b.WriteString("sqrt(16) * 2^3      # = 32\n")
	b.WriteString("```\n")
	return b.String()
}
