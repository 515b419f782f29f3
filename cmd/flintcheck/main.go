package main

import (
	"os"

	"github.com/jorgito1167/flintcheck/internal/flintcheck"
)

func main() {
	os.Exit(flintcheck.Main())
}
