// cmd/dredd/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Nuolong/dredd/internal/judge"
	"github.com/Nuolong/dredd/internal/util"
)

const usageText = `Usage: dredd [options] source input output

Judges a submission: compiles source if needed, runs it with input as stdin
under a wall-clock deadline, compares the captured output against output,
and prints a single JSON verdict object on stdout.

Options:

    -t SECONDS  Timeout duration before killing the submission (default is 30 seconds)
    -v          Display verbose debugging output
    -d DIR      Working directory for the capture file and executable (default ".")
    -l NAME     Explicit language name, overrides extension matching
    -c FILE     YAML config file
`

var (
	timeoutSec = flag.Int("t", judge.DefaultTimeoutSec, "timeout in seconds")
	verbose    = flag.Bool("v", false, "verbose debugging output")
	workDir    = flag.String("d", "", "working directory")
	langName   = flag.String("l", "", "explicit language name")
	configPath = flag.String("c", "", "YAML config file")
)

func main() {
	flag.Usage = usage
	_ = godotenv.Load()
	flag.Parse()

	args := flag.Args()
	if len(args) != 3 {
		usage()
		os.Exit(2)
	}

	cfg := judge.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = judge.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "dredd: %v\n", err)
			os.Exit(2)
		}
	}
	if *workDir != "" {
		cfg.WorkDir = *workDir
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}
	if err := util.InitLogging(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "dredd: %v\n", err)
		os.Exit(2)
	}

	verdict := judge.New(cfg).Run(context.Background(), judge.Request{
		SourcePath:   args[0],
		InputPath:    args[1],
		ExpectedPath: args[2],
		Timeout:      time.Duration(*timeoutSec) * time.Second,
		Language:     *langName,
	})

	if err := verdict.Emit(os.Stdout); err != nil {
		util.Error("emit verdict", zap.Error(err))
	}
	util.Sync()
	os.Exit(verdict.ExitStatus)
}

func usage() {
	fmt.Fprint(os.Stderr, usageText)
}
