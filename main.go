package main

import "github.com/KaramelBytes/solardash/cmd"

func main() {
	cmd.Execute()
}
