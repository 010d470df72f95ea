package main

import "github.com/nextlevelbuilder/talkbridge/cmd"

func main() {
	cmd.Execute()
}
