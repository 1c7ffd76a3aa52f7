package main

import (
	"github.com/Rakhulsr/supplierhub/app/cmd"
)

func main() {
	cmd.RunCli()
}
