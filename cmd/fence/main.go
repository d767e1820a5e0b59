// # cmd/fence/main.go
package main

import (
	"os"

	"fence/internal/ui/cli"
)

func main() {
	os.Exit(cli.Execute())
}
