package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/yumyai/amrloc/cmd"
	"github.com/yumyai/amrloc/logger"
)

func main() {
	root := cmd.RootCommand()

	if err := root.ExecuteContext(context.Background()); err != nil {
		if logger.RunID == "" {
			// Failed before the logger was configured.
			fmt.Fprintln(os.Stderr, "Error:", err)
		} else {
			logger.Fatal("Error:", zap.Error(err))
		}
		os.Exit(1)
	}
}
