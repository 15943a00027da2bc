package main

import (
	"mpfm/cmd"
)

func main() {
	cmd.Execute()
}
