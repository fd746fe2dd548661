package main

import (
	"github.com/Hakuto4838/Treap.git/cmd/treapbench/cmd"
)

func main() {
	cmd.Execute()
}
