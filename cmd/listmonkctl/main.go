// listmonkctl is a small operator CLI for poking a Listmonk instance
// through the client library: health checks, list and subscriber
// inspection, and transactional test sends.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	listmonk "github.com/listmonk-client/client-go"
)

func main() {
	var settingsPath string

	rootCmd := &cobra.Command{
		Use:           "listmonkctl",
		Short:         "Inspect and exercise a Listmonk instance",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&settingsPath, "settings", "s", "", "path to a YAML settings file")

	newClient := func() (*listmonk.Client, error) {
		cfg, err := LoadConfig(settingsPath)
		if err != nil {
			return nil, err
		}
		return listmonk.New(cfg.URL, cfg.Username, cfg.Password,
			listmonk.WithTimeout(cfg.Timeout))
	}

	rootCmd.AddCommand(newHealthCommand(newClient))
	rootCmd.AddCommand(newListsCommand(newClient))
	rootCmd.AddCommand(newSubscriberCommand(newClient))
	rootCmd.AddCommand(newSendCommand(newClient))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
