package main

import "github.com/hmans/msgboard/cmd"

func main() {
	cmd.Execute()
}
