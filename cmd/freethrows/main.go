// Command freethrows plays Ten Free Throws in a desktop window or runs
// scripted shots headlessly.
package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
