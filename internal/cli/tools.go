package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/sundayezeilo/toolbench/internal/errx"
	"github.com/sundayezeilo/toolbench/internal/form"
	"github.com/sundayezeilo/toolbench/internal/render"
	"github.com/sundayezeilo/toolbench/internal/tool"
	"github.com/sundayezeilo/toolbench/internal/tool/catalog"
)

// userError strips op prefixes from domain errors.
func userError(err error) error {
	if err == nil || errx.KindOf(err) == errx.Unknown {
		return err
	}
	return errors.New(errx.Message(err))
}

func (a *app) listCmd() *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the generator tools",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tools := a.registry.List()
			if search != "" {
				tools = a.registry.Search(search)
				if len(tools) == 0 {
					return fmt.Errorf("no tool matches %q", search)
				}
			}
			printTools(cmd.OutOrStdout(), tools, search == "")
			return nil
		},
	}
	cmd.Flags().StringVarP(&search, "search", "s", "", "fuzzy search on id and name")
	return cmd
}

// printTools writes one line per tool. Grouped output keeps registry order
// under category headings; search results keep their rank.
func printTools(w io.Writer, tools []*tool.Tool, grouped bool) {
	category := ""
	for _, t := range tools {
		if grouped && t.Category != category {
			category = t.Category
			fmt.Fprintln(w, categoryStyle.Render(strings.ToUpper(category)))
		}
		fmt.Fprintf(w, "  %s %s\n", idStyle.Render(t.ID()), t.Name)
	}
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <tool>",
		Short: "Describe a tool and its form fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.registry.LookupID(args[0])
			if err != nil {
				return userError(err)
			}
			printTool(cmd.OutOrStdout(), t)
			return nil
		},
		ValidArgsFunction: completeTools,
	}
}

func printTool(w io.Writer, t *tool.Tool) {
	header := titleStyle.Render(t.Name) + "\n" + subtleStyle.Render(t.ID()+" · "+string(t.Format))
	if t.Description != "" {
		header += "\n" + t.Description
	}
	fmt.Fprintln(w, boxStyle.Render(header))

	for _, f := range t.Schema.Fields() {
		fmt.Fprintf(w, "  %s %s  %s\n", idStyle.Render(f.Name), subtleStyle.Render(f.Kind.String()), f.Label)
		fmt.Fprintf(w, "      default: %v\n", describeDefault(f.Default))
		if f.Section != "" {
			fmt.Fprintf(w, "      section: %s\n", f.Section)
		}
		if len(f.Options) > 0 {
			vals := make([]string, len(f.Options))
			for i, o := range f.Options {
				vals[i] = o.Value
			}
			fmt.Fprintf(w, "      options: %s\n", strings.Join(vals, ", "))
		}
	}

	if flags := t.Schema.FieldsOf(form.Bool); len(flags) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, subtleStyle.Render("Optional sections:"))
		for _, f := range flags {
			fmt.Fprintf(w, "  %s  (%s)\n", f.Section, f.Name)
		}
	}
}

func describeDefault(v any) string {
	switch d := v.(type) {
	case []string:
		return "[" + strings.Join(d, ", ") + "]"
	case string:
		return fmt.Sprintf("%q", d)
	default:
		return fmt.Sprint(d)
	}
}

func (a *app) renderCmd() *cobra.Command {
	var (
		sets   []string
		input  string
		format string
	)

	cmd := &cobra.Command{
		Use:   "render <tool>",
		Short: "Render a tool immediately",
		Long: `Render a tool from its defaults overlaid by values from --input
(a YAML mapping of field names) and then --set flags.

Multi-select values in --set are comma separated:
  toolgen render email-marketing --set brandName=Acme --set emailTypes=welcome,newsletter`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.registry.LookupID(args[0])
			if err != nil {
				return userError(err)
			}
			f, err := a.format(format)
			if err != nil {
				return userError(err)
			}
			vals, err := values(input, sets)
			if err != nil {
				return err
			}
			st, err := t.NewState(vals)
			if err != nil {
				return userError(err)
			}

			out, err := t.Render(st, a.deco)
			if err != nil {
				return userError(err)
			}
			return a.write(cmd.OutOrStdout(), t, out, f)
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "field value as name=value (repeatable)")
	cmd.Flags().StringVarP(&input, "input", "i", "", "YAML file of field values")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: text, terminal or html")
	cmd.ValidArgsFunction = completeTools
	_ = cmd.RegisterFlagCompletionFunc("set", completeFields)
	return cmd
}

// values merges an optional YAML file and --set pairs, applied in that order.
func values(input string, sets []string) (map[string]any, error) {
	vals := map[string]any{}

	if input != "" {
		fileValues, err := readValues(input)
		if err != nil {
			return nil, err
		}
		vals = fileValues
	}

	for _, kv := range sets {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid --set %q, want name=value", kv)
		}
		vals[strings.TrimSpace(name)] = value
	}
	return vals, nil
}

// readValues decodes a YAML mapping of field values.
func readValues(path string) (map[string]any, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	values := make(map[string]any, len(raw))
	for k, v := range raw {
		values[k] = normalize(v)
	}
	return values, nil
}

// normalize turns YAML scalars into the strings, bools and string lists
// form fields accept.
func normalize(v any) any {
	switch x := v.(type) {
	case nil, string, bool:
		return x
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = fmt.Sprint(item)
		}
		return out
	default:
		return fmt.Sprint(x)
	}
}

// write converts a result to f and prints it.
func (a *app) write(w io.Writer, t *tool.Tool, result string, f render.Format) error {
	out, err := a.renderer.Render(result, t.Format, t.Language, f)
	if err != nil {
		return userError(err)
	}
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	_, err = io.WriteString(w, out)
	return err
}

func completeTools(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	registry, err := catalog.New()
	if err != nil || len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	ids := make([]string, 0)
	for _, t := range registry.List() {
		ids = append(ids, t.ID())
	}
	return ids, cobra.ShellCompDirectiveNoFileComp
}

func completeFields(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	registry, err := catalog.New()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	t, err := registry.LookupID(args[0])
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return fieldNames(t), cobra.ShellCompDirectiveNoSpace | cobra.ShellCompDirectiveNoFileComp
}

// fieldNames lists the field names of t for shell completion.
func fieldNames(t *tool.Tool) []string {
	names := make([]string, 0, len(t.Schema.Fields()))
	for _, f := range t.Schema.Fields() {
		names = append(names, f.Name+"=")
	}
	slices.Sort(names)
	return names
}
