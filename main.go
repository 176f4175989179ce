package main

import "github.com/blockscope/blockscope/cmd"

func main() {
	cmd.Execute()
}
