package main

import "github.com/mawicks/gaspra/cmd/gaspra/cmd"

func main() {
	cmd.Execute()
}
