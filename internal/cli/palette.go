package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sundayezeilo/toolbench/internal/palette"
)

func (a *app) paletteCmd() *cobra.Command {
	var (
		base    string
		scheme  string
		count   int
		asJSON  bool
		hexOnly bool
	)

	cmd := &cobra.Command{
		Use:   "palette",
		Short: "Generate a color palette",
		Long: fmt.Sprintf(`Generate a color palette from a base color.

Schemes: %s. Without --base a random happy color is used.`, schemeList()),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := palette.ParseScheme(scheme)
			if err != nil {
				return userError(err)
			}
			p, err := palette.Generate(base, s, count)
			if err != nil {
				return userError(err)
			}

			if hexOnly {
				for _, hex := range p.Hexes() {
					fmt.Fprintln(cmd.OutOrStdout(), hex)
				}
				return nil
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(p)
			}
			printPalette(cmd.OutOrStdout(), p)
			return nil
		},
	}
	cmd.Flags().StringVarP(&base, "base", "b", "", "base color as #rrggbb")
	cmd.Flags().StringVarP(&scheme, "scheme", "s", string(palette.Analogous), "color scheme")
	cmd.Flags().IntVarP(&count, "count", "n", 0, fmt.Sprintf("number of colors, up to %d (default: scheme size)", palette.MaxCount))
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	cmd.Flags().BoolVar(&hexOnly, "hex", false, "print one hex code per line")
	cmd.MarkFlagsMutuallyExclusive("json", "hex")
	_ = cmd.RegisterFlagCompletionFunc("scheme", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return strings.Split(schemeList(), ", "), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func schemeList() string {
	names := make([]string, 0, len(palette.Schemes()))
	for _, s := range palette.Schemes() {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

func printPalette(w io.Writer, p palette.Palette) {
	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s palette", p.Scheme))+subtleStyle.Render(" from "+p.Base))
	for _, s := range p.Swatches {
		fmt.Fprintf(w, "%s  %s  %s  %s\n", swatchBlock(s.Hex), s.Hex, subtleStyle.Render(s.RGB), subtleStyle.Render(s.HSL))
	}
}
