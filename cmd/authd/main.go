// Command authd is the composition root for the authorization server: it
// wires configuration, logging, keys, storage, the domain engines, and the
// HTTP surface together, grounded on the teacher's
// services/identify/main.go composition. The order here is: load env, load
// config, load keys, run migrations, connect database, build dependencies,
// set gin mode, start server, wait on signal, shut down.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "authd",
		Short: "authd is an OAuth2/OIDC-adjacent authorization server",
	}
	root.AddCommand(newServeCommand())
	root.AddCommand(newSeedCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
