package main

import "github.com/Ramsey-B/mint/cmd"

func main() {
	cmd.Execute()
}
