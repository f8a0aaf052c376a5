package main

import (
	"github.com/Sushant-Chavan/kelojson/cmd/kelojson/cli"
	"github.com/Sushant-Chavan/kelojson/log"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
