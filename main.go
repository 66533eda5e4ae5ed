package main

import "github.com/tonimelisma/sheets-client/cmd"

func main() {
	cmd.Execute()
}
