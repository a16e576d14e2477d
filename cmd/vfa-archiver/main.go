// Command vfa-archiver reads a job list and builds one archive per job.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/vfarchive/vfa/builder"
	"github.com/vfarchive/vfa/config"
	"github.com/vfarchive/vfa/internal/xlog"
	"github.com/vfarchive/vfa/vfalite"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if vfalite.Enabled {
		vfalite.CheckTamper()
	}

	fs := pflag.NewFlagSet("vfa-archiver", pflag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return 2
	}

	configPath := "./config.json"
	if fs.NArg() > 0 {
		configPath = fs.Arg(0)
	}

	xlog.Initialize(os.Stderr)
	defer xlog.Finalize()

	jobs, err := config.Load(configPath)
	if err != nil {
		xlog.Crit("archiver: %v", err)
		return 1
	}

	if vfalite.Enabled {
		for i := range jobs {
			jobs[i].Key = nil
		}
	}

	xlog.Sys("archiver: building %d job(s) from %s", len(jobs), configPath)

	if err := builder.Build(context.Background(), jobs); err != nil {
		xlog.Crit("archiver: %v", err)
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	return 0
}
