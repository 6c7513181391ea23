package main

import "github.com/chriserin/espec/cmd"

func main() {
	cmd.Execute()
}
