package main

import (
	"os"

	"github.com/Anthya1104/striped-blockdev/internal/cli"
	"github.com/Anthya1104/striped-blockdev/internal/logger"
	"github.com/sirupsen/logrus"
)

func main() {

	if err := logger.Init(logger.LevelInfo); err != nil {
		logrus.Fatalf("Error initializing logger: %v", err)
	}

	if err := cli.Execute(); err != nil {
		logrus.Errorf("%v", err)
		os.Exit(1)
	}

}
