// internal/cli/parse.go
package gsmprompt

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mwiater/gsmprompt/internal/parser"
)

var parserSelfTest = []string{
	"The final answer is #### 1,234.50",
	"Result: #### $50",
	"Some text without the delimiter",
	"#### 42",
	"#### $",
}

// parseCmd runs the answer parser on its arguments, or on a built-in set of
// examples when called without any.
var parseCmd = &cobra.Command{
	Use:   "parse [text...]",
	Short: "Extract the final numeric answer from text using the #### convention",
	Run: func(cmd *cobra.Command, args []string) {
		inputs := args
		if len(inputs) == 0 {
			inputs = parserSelfTest
		}
		out := cmd.OutOrStdout()
		for _, text := range inputs {
			got := "None"
			if v := parser.ParsePtr(text); v != nil {
				got = parser.Format(v)
			}
			fmt.Fprintf(out, "Testing: %q -> Parsed: %s\n", strings.TrimSpace(text), got)
		}
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
