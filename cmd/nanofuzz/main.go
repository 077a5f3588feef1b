// Command nanofuzz is the CLI entry point over package nanofuzz: an
// external collaborator per spec.md §1, kept thin — everything it does is
// resolve input, call Open/Next, and print. It is not part of the core
// library's size budget.
package main

import "github.com/nanofuzz/nanofuzz/cmd/nanofuzz/cmd"

func main() {
	cmd.Execute()
}
