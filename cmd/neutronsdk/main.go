package main

import (
	"os"

	"github.com/neutron-org/neutron-sdk-sub001/cmd/neutronsdk/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
