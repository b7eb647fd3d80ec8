// Command invoicectl drives the invoices dashboard from a terminal: it lists
// invoices and changes their status through the same endpoint the page uses.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}
