package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/sundayezeilo/toolbench/internal/generation"
)

var errCancelled = errors.New("generation cancelled")

func (a *app) generateCmd() *cobra.Command {
	var (
		sets   []string
		input  string
		format string
		quiet  bool
	)

	cmd := &cobra.Command{
		Use:   "generate <tool>",
		Short: "Generate a tool result with the simulated delay",
		Long: `Generate runs a tool the way the web page does: the result appears
after a 2-4 second "thinking" delay. Press q or ctrl+c to cancel.`,
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

			sessions := generation.NewManager(generation.Config{
				MinDelay: a.cfg.MinDelay,
				MaxDelay: a.cfg.MaxDelay,
				Decor:    a.deco,
			})
			defer sessions.Shutdown()

			snap, err := sessions.Open(t, vals)
			if err != nil {
				return userError(err)
			}
			if _, err := sessions.Generate(snap.ID); err != nil {
				return userError(err)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if quiet {
				snap, err = sessions.Wait(ctx, snap.ID)
			} else {
				snap, err = a.spin(ctx, cmd, sessions, snap.ID, t.Name)
			}
			if err != nil {
				return userError(err)
			}
			if snap.Error != "" {
				return errors.New(snap.Error)
			}
			return a.write(cmd.OutOrStdout(), t, snap.Result, f)
		},
		ValidArgsFunction: completeTools,
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "field value as name=value (repeatable)")
	cmd.Flags().StringVarP(&input, "input", "i", "", "YAML file of field values")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: text, terminal or html")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "wait without the spinner")
	_ = cmd.RegisterFlagCompletionFunc("set", completeFields)
	return cmd
}

// spin shows a spinner on stderr until the generation finishes or the user
// cancels it.
func (a *app) spin(ctx context.Context, cmd *cobra.Command, sessions *generation.Manager, id uuid.UUID, label string) (generation.Snapshot, error) {
	m := newGenerateModel(label, func() tea.Msg {
		snap, err := sessions.Wait(ctx, id)
		return generatedMsg{snap: snap, err: err}
	})

	p := tea.NewProgram(m,
		tea.WithContext(ctx),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.ErrOrStderr()),
	)
	final, err := p.Run()
	if err != nil {
		_, _ = sessions.Cancel(id)
		return generation.Snapshot{}, fmt.Errorf("spinner: %w", err)
	}

	done := final.(generateModel)
	if done.cancelled {
		_, _ = sessions.Cancel(id)
		return generation.Snapshot{}, errCancelled
	}
	return done.snap, done.err
}

type generatedMsg struct {
	snap generation.Snapshot
	err  error
}

type generateModel struct {
	spinner spinner.Model
	label   string
	wait    tea.Cmd

	snap      generation.Snapshot
	err       error
	finished  bool
	cancelled bool
}

func newGenerateModel(label string, wait tea.Cmd) generateModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = titleStyle
	return generateModel{spinner: s, label: label, wait: wait}
}

func (m generateModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.wait)
}

func (m generateModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.cancelled = true
			return m, tea.Quit
		}
	case generatedMsg:
		m.snap, m.err, m.finished = msg.snap, msg.err, true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m generateModel) View() string {
	switch {
	case m.cancelled:
		return subtleStyle.Render("generation cancelled") + "\n"
	case m.finished:
		return ""
	default:
		return fmt.Sprintf("%s Generating %s... %s\n", m.spinner.View(), m.label, subtleStyle.Render("(q to cancel)"))
	}
}
