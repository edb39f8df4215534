package main

import (
	_ "time/tzdata" // AYYA_TIMEZONE works without system zone files

	"github.com/ayyaapp/ayya/cmd"
)

func main() {
	cmd.Execute()
}
