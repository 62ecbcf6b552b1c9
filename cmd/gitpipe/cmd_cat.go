package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/utkarsh5026/gitpipe/cmd/ui"
	"github.com/utkarsh5026/gitpipe/pkg/catfile"
	"github.com/utkarsh5026/gitpipe/pkg/objects"
)

func newCatCmd() *cobra.Command {
	var showType bool
	var showSize bool
	var raw bool

	cmd := &cobra.Command{
		Use:   "cat <object>...",
		Short: "Show objects from the object database",
		Long: `Print the content of blobs, commits, trees, and tags.
All arguments are read over one long-lived engine session, so many
objects cost one subprocess.`,
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

			out := cmd.OutOrStdout()
			for _, spec := range args {
				if err := catOne(cmd.Context(), out, client, spec, showType, showSize, raw); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showType, "type", "t", false, "Show only the object type")
	cmd.Flags().BoolVarP(&showSize, "size", "s", false, "Show only the object size")
	cmd.Flags().BoolVar(&raw, "raw", false, "Write blob payloads verbatim, even binary ones")

	return cmd
}

func catOne(ctx context.Context, out io.Writer, client *catfile.Client, spec string, showType, showSize, raw bool) error {
	hdr, err := client.ReadHeader(ctx, spec)
	if err != nil {
		return err
	}

	switch {
	case showType:
		fmt.Fprintln(out, hdr.Type)
		return nil
	case showSize:
		fmt.Fprintln(out, hdr.Size)
		return nil
	}

	switch hdr.Type {
	case objects.BlobType:
		return catBlob(ctx, out, client, spec, hdr, raw)
	case objects.TreeType:
		tree, terr := client.ReadTree(ctx, spec)
		if terr != nil {
			return terr
		}
		for _, entry := range tree.Entries {
			fmt.Fprintf(out, "%s %s %s\t%s\n",
				entry.Mode.ToOctalString(), entry.Type(), entry.Id, entry.Name)
		}
		return nil
	default:
		_, payload, rerr := client.ReadObject(ctx, spec)
		if rerr != nil {
			return rerr
		}
		if _, werr := out.Write(payload); werr != nil {
			return werr
		}
		if len(payload) > 0 && payload[len(payload)-1] != '\n' {
			fmt.Fprintln(out)
		}
		return nil
	}
}

// catBlob materializes small blobs and streams anything over the
// configured cap, which also keeps the engine session's own payload
// ceiling out of reach.
func catBlob(ctx context.Context, out io.Writer, client *catfile.Client, spec string, hdr objects.ObjectHeader, raw bool) error {
	threshold := settings.Objects.MaxBytes
	if threshold > catfile.ObjectSizeMaximum {
		threshold = catfile.ObjectSizeMaximum
	}

	if hdr.Size > threshold {
		br, serr := client.StreamBlob(ctx, spec)
		if serr != nil {
			return serr
		}
		defer br.Close()
		_, cerr := io.Copy(out, br)
		return cerr
	}

	blob, berr := client.ReadBlob(ctx, spec)
	if berr != nil {
		return berr
	}
	if !raw && blob.IsBinary() {
		fmt.Fprintln(out, ui.WarningMessage(fmt.Sprintf(
			"binary blob %s (%d bytes), use --raw to write it", hdr.Id.Short(), hdr.Size)))
		return nil
	}
	_, werr := out.Write(blob.Content())
	return werr
}
