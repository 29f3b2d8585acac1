package main

import "github.com/nderitu/tma/cmd"

func main() {
	cmd.Execute()
}
