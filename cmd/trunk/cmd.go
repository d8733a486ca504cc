package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
)

var (
	cfgFile      string
	debug        bool
	metricsAddr  string
	printVersion bool
)

func init() {
	flag.StringVar(&cfgFile, "C", "", "configuration file")
	flag.BoolVar(&debug, "D", false, "enable debug log")
	flag.StringVar(&metricsAddr, "metrics", "", "metrics service address")
	flag.BoolVar(&printVersion, "V", false, "print version")
	flag.Parse()

	if printVersion {
		fmt.Fprintf(os.Stdout, "trunk %s (%s %s/%s)\n",
			version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		os.Exit(0)
	}
}
