package main

import "conni/cmd"

func main() {
	cmd.Execute()
}
