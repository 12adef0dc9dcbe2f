package main

import "github.com/Vishnukant2275/easyorderin/cmd"

func main() {
	cmd.Execute()
}
