package main

import "github.com/mselser95/predictmarket-mcp/cmd"

func main() {
	cmd.Execute()
}
