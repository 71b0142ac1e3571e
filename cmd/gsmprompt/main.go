// cmd/gsmprompt/main.go
package main

import (
	"os"

	cmd "github.com/mwiater/gsmprompt/internal/cli"
	"github.com/mwiater/gsmprompt/internal/logging"
)

var (
	executeCmd   = cmd.Execute
	closeLogging = logging.Close
	exit         = os.Exit
)

// main starts the gsmprompt CLI by delegating to the cobra root command and
// exits non-zero when the command fails.
func main() {
	err := executeCmd()
	_ = closeLogging()
	if err != nil {
		exit(1)
	}
}
