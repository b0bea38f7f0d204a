package main

import "github.com/chrisdamba/comanda/cmd"

func main() {
	cmd.Execute()
}
