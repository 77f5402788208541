package main

import (
	"fmt"
	"os"
)

// @title           blog-front API
// @version         1.0
// @description     JSON view models behind the server-rendered blog pages
// @BasePath        /
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
