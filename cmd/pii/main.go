package main

import (
	"os"

	"github.com/jeekim/advanced-pii-huggingface-sagemaker/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
