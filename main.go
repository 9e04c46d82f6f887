package main

import "github.com/Oloruntobi1/flametop/cmd"

func main() {
	cmd.Execute()
}
