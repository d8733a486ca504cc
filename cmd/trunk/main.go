package main

import (
	"github.com/judwhite/go-svc"

	"github.com/go-trunk/trunk/pkg/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	prg := &program{}
	if err := svc.Run(prg); err != nil {
		logger.Default().Fatal(err)
	}
}
