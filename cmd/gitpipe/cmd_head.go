package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/utkarsh5026/gitpipe/cmd/ui"
)

func newHeadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "head <object>...",
		Short: "Probe object headers without reading payloads",
		Long: `Report id, type, and size for each object. Headers come from a
separate headers-only engine session, so even huge blobs cost nothing
to probe.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := openRepository()
			if err != nil {
				return err
			}
			defer repo.Close()

			client, err := repo.Objects()
			if err != nil {
				return err
			}

			table := ui.NewTable(cmd.OutOrStdout(), "Object", "Type", "Size")
			for _, spec := range args {
				hdr, herr := client.ReadHeader(cmd.Context(), spec)
				if herr != nil {
					return herr
				}
				table.Append(hdr.Id.Short(), hdr.Type.String(), strconv.FormatInt(hdr.Size, 10))
			}
			table.Render()
			return nil
		},
	}

	return cmd
}
