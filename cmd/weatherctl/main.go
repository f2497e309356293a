// Command weatherctl exercises the geocoding and forecast providers from
// the terminal, using the same configuration as the server.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
