package main

import "github.com/princinho/catalogsite/cmd"

func main() {
	cmd.Execute()
}
