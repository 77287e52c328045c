package main

import (
	"github.com/kubeext/extverify/cmd/ext-verify/cmd"
)

func main() {
	cmd.Execute()
}
