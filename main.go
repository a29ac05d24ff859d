// Command harvester crawls, filters, loads, and reconciles the faculty
// directory.
package main

import "github.com/facultydir/harvester/cmd"

func main() {
	cmd.Execute()
}
