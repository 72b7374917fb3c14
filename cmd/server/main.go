package main

import "github.com/nguyentranbao-ct/catalog/cmd"

func main() {
	cmd.Execute()
}
