// Command kitcheck serves and runs kit color clash analyses.
package main

import "github.com/okian/kitcheck/internal/cli"

func main() {
	cli.Execute()
}
