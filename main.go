package main

import (
	"log"
	"os"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("quadsurf: ")
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
