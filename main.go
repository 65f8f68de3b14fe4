package main

import "github.com/mateconpizza/browserdb/cmd"

func main() {
	cmd.Execute()
}
