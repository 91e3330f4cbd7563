package main

import "github.com/savantlab/padlab/cmd"

func main() {
	cmd.Execute()
}
