package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	apperrors "github.com/sifan077/shortlink/internal/errors"
	"github.com/sifan077/shortlink/internal/http/view"
	"github.com/spf13/cobra"
)

func newCreateCmd(opts *rootOptions) *cobra.Command {
	var owner, target string

	cmd := &cobra.Command{
		Use:     "create",
		Short:   "Create a short link for a URL.",
		Example: `  shortlink create --owner user_123 --url "https://example.com/some/long/path"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			link, err := opts.env.service.CreateLink(cmd.Context(), owner, target)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Code: %s\n", link.ShortCode)
			fmt.Fprintf(out, "Short URL: %s\n", view.ShortURL(opts.env.cfg.App.BaseURL, link.ShortCode))
			return nil
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "owner id the link belongs to (required)")
	cmd.Flags().StringVarP(&target, "url", "u", "", "URL to shorten (required)")
	_ = cmd.MarkFlagRequired("owner")
	_ = cmd.MarkFlagRequired("url")
	return cmd
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List an owner's links, oldest first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			links, err := opts.env.service.ListForOwner(cmd.Context(), owner)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(links) == 0 {
				fmt.Fprintln(out, "No shortened links yet.")
				return nil
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tURL\tCREATED")
			for _, l := range links {
				fmt.Fprintf(w, "%s\t%s\t%s\n", l.ShortCode, l.TargetURL, l.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "owner id (required)")
	_ = cmd.MarkFlagRequired("owner")
	return cmd
}

func newResolveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve CODE",
		Short: "Print the target URL of a short code.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := opts.env.service.Resolve(cmd.Context(), args[0])
			if errors.Is(err, apperrors.ErrLinkNotFound) {
				return fmt.Errorf("no link for code %q", args[0])
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), target)
			return nil
		},
	}
}

// newMigrateCmd only needs the pre-run hook, which migrates on open.
func newMigrateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the links table.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), "Migrations applied.")
			return nil
		},
	}
}
