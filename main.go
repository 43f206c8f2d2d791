package main

import "github.com/mj1618/owl-recorder/cmd"

func main() {
	cmd.Execute()
}
