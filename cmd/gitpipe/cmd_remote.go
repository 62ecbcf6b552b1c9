package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/utkarsh5026/gitpipe/cmd/ui"
)

func newRemoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Manage the set of tracked remote repositories",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemoteList(cmd)
		},
	}

	cmd.AddCommand(
		newRemoteListCmd(),
		newRemoteAddCmd(),
		newRemoteRemoveCmd(),
	)

	return cmd
}

func newRemoteListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List remotes with their fetch and push URLs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemoteList(cmd)
		},
	}
}

func runRemoteList(cmd *cobra.Command) error {
	repo, err := openRepository()
	if err != nil {
		return err
	}
	defer repo.Close()

	remotes, rerr := repo.Remotes(cmd.Context())
	if rerr != nil {
		return rerr
	}

	out := cmd.OutOrStdout()
	if len(remotes) == 0 {
		fmt.Fprintln(out, ui.Yellow("No remotes configured"))
		return nil
	}

	table := ui.NewTable(out, "Remote", "Fetch URL", "Push URL")
	for _, remote := range remotes {
		table.Append(remote.Name, remote.FetchURL, remote.PushURL)
	}
	table.Render()
	return nil
}

func newRemoteAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <url>",
		Short: "Register a remote",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepository()
			if err != nil {
				return err
			}
			defer repo.Close()

			if aerr := repo.AddRemote(cmd.Context(), args[0], args[1]); aerr != nil {
				return aerr
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.SuccessMessage("added remote", args[0]+" ("+args[1]+")"))
			return nil
		},
	}
}

func newRemoteRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Delete a remote and its tracking refs",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := confirm(fmt.Sprintf("Remove remote %q and its tracking refs", args[0])); err != nil {
				return err
			}

			repo, err := openRepository()
			if err != nil {
				return err
			}
			defer repo.Close()

			if rerr := repo.RemoveRemote(cmd.Context(), args[0]); rerr != nil {
				return rerr
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.SuccessMessage("removed remote", args[0]))
			return nil
		},
	}
}
