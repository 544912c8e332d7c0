// logreport - NGINX access log report generator
//
// logreport reads access logs from local files or URLs, filters and
// aggregates the records, and prints a Markdown or AsciiDoc report.
package main

import (
	"os"

	"github.com/ccollicutt/logreport/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
