package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Dekendrabaduwal/College-course/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		// the result is already on stdout
		if !errors.Is(err, cli.ErrRunFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
