package main

import (
	"os"

	"github.com/Dekendrabaduwal/College-course/internal/cli"
	"github.com/Dekendrabaduwal/College-course/internal/logger"
)

func main() {
	if err := cli.NewServeCommand().Execute(); err != nil {
		logger.Error("server exited", "err", err)
		os.Exit(1)
	}
}
