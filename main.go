package main

import (
	"log"

	"github.com/barefootnomad/api/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
