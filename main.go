package main

import "github.com/baselinescan/baselinescan/cmd"

func main() {
	cmd.Execute()
}
