package main

import "github.com/chrisdamba/foodstore/cmd"

func main() {
	cmd.Execute()
}
