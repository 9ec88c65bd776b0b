package main

import "github.com/meysamhadeli/amalgam/cmd"

func main() {
	cmd.Execute()
}
