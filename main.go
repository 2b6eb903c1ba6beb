package main

import "github.com/notargets/tetroi/cmd"

func main() {
	cmd.Execute()
}
