package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"authd/internal/admin"
)

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed <email> <password>",
		Short: "Create the first admin user and its Admin Dashboard application, or promote an existing user to admin",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), args[0], args[1])
		},
	}
}

func runSeed(ctx context.Context, email, password string) error {
	a, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer a.Store.Close()
	defer a.Log.Sync()

	result, err := admin.Seed(ctx, a.Repos, email, password)
	if err != nil {
		return err
	}
	fmt.Println(result.Summary())
	return nil
}
