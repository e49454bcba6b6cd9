package main

import "github.com/mchmarny/drafttag/pkg/cli"

func main() {
	cli.Execute()
}
