// main is the entry point for the estimation-reporter CLI.
package main

import (
	"github.com/huangsam/estimation-reporter/cmd"
	"github.com/huangsam/estimation-reporter/internal/contract"
)

func main() {
	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Estimation failed", err)
	}
}
