// Package main provides the Dirac CLI.
package main

import (
	"log"
)

const version = "v0.1.0"

func main() {
	// Execute the root command. Cobra handles parsing the arguments.
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}
