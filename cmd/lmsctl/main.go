package main

import "github.com/iliyamo/learning-platform/internal/cli"

func main() {
	cli.Execute()
}
