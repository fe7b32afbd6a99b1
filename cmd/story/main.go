package main

import (
	"fmt"
	"os"

	"github.com/smasher164/story/eval"
	"github.com/smasher164/story/run"
)

const (
	source   = "main.story"
	maxDepth = 100_000
)

func errExit(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

func main() {
	if err := run.Run(os.DirFS("."), source, os.Stdout, eval.WithMaxDepth(maxDepth)); err != nil {
		errExit(err)
	}
}
