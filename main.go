package main

import (
	"os"

	"github.com/charmbracelet/log"

	"github.com/vebulogmetra/pports/cmd"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	log.SetPrefix("pports")
	log.SetReportTimestamp(false)
	log.SetLevel(log.InfoLevel)

	cmd.SetVersionInfo(version, commit, date)
	os.Exit(cmd.Execute())
}
