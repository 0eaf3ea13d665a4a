package main

import "github.com/nextlevelbuilder/bountyclaw/cmd"

func main() {
	cmd.Execute()
}
