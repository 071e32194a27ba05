package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/sundayezeilo/toolbench/internal/shortener"
)

// openLinks opens the local link store and a service over it.
func (a *app) openLinks() (shortener.Service, func() error, error) {
	repo, err := shortener.OpenBunt(a.cfg.Store)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open link store %s: %w", a.cfg.Store, err)
	}
	svc := shortener.NewService(repo, &shortener.ServiceConfig{BaseURL: a.cfg.BaseURL})
	return svc, repo.Close, nil
}

func (a *app) shortenCmd() *cobra.Command {
	var (
		code   string
		qrPath string
	)

	cmd := &cobra.Command{
		Use:   "shorten <url>",
		Short: "Create a short link in the local link store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := a.openLinks()
			if err != nil {
				return err
			}
			defer closeStore()

			link, err := svc.Shorten(cmd.Context(), shortener.ShortenRequest{URL: args[0], CustomCode: code})
			if err != nil {
				return userError(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, successStyle.Render(link.ShortURL))
			fmt.Fprintln(out, subtleStyle.Render("→ "+link.OriginalURL))

			if qrPath != "" {
				png, err := shortener.QRCodePNG(link.ShortURL, shortener.DefaultQRSize)
				if err != nil {
					return userError(err)
				}
				if err := os.WriteFile(qrPath, png, 0o644); err != nil {
					return fmt.Errorf("failed to write QR code: %w", err)
				}
				fmt.Fprintln(out, subtleStyle.Render("QR code written to "+qrPath))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&code, "code", "c", "", "custom short code")
	cmd.Flags().StringVar(&qrPath, "qr", "", "write a PNG QR code of the short link to this file")
	return cmd
}

func (a *app) linksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "links",
		Short: "List the links in the local link store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, closeStore, err := a.openLinks()
			if err != nil {
				return err
			}
			defer closeStore()

			links, err := svc.List(cmd.Context())
			if err != nil {
				return userError(err)
			}
			if len(links) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), subtleStyle.Render("no links yet"))
				return nil
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "CODE\tCLICKS\tCREATED\tURL")
			for _, l := range links {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", l.ShortCode, l.Clicks, l.CreatedAt.Local().Format(time.DateTime), l.OriginalURL)
			}
			return tw.Flush()
		},
	}
}
