package main

import "github.com/recordbook/apiserver/cmd"

func main() {
	cmd.Execute()
}
