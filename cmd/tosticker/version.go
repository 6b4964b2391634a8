package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the client version and the backend status",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("tosticker %s\n", version)

		health, err := CheckHealth()
		if health == nil {
			fmt.Printf("backend:  unreachable (%v)\n", err)
			return
		}
		status := "ok"
		if err != nil {
			status = "unhealthy, db: " + health.DB
		}
		fmt.Printf("backend:  %s (%s)\n", health.Version, status)
	},
}
