package main

import "github.com/MOYARU/normalizeurl/cmd"

func main() {
	cmd.Execute()
}
