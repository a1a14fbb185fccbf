// main package for the options command-line tool
// Package main is the entry point for the options CLI.
package main

import "github.com/breakerb0y/aaropa-calamares/cmd"

func main() {
	cmd.Execute()
}
