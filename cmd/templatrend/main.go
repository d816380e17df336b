// main is the entry point for the templatrend CLI.
package main

import (
	"github.com/modelbay/templatrend/cmd"
	"github.com/modelbay/templatrend/internal/contract"
	"github.com/modelbay/templatrend/internal/iostore"
)

func main() {
	defer iostore.CloseStores()

	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Command failed", err)
	}
}
