// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ik5/audibites/edit"
	"github.com/ik5/audibites/library"
	"github.com/ik5/audibites/session"
)

type editStep struct {
	op     edit.Op
	region edit.Region
}

// parseStep parses "trim=START:END" or "cut=START:END", times in seconds.
func parseStep(s string) (editStep, error) {
	op, span, ok := strings.Cut(s, "=")
	if !ok {
		return editStep{}, fmt.Errorf("edit %q: want op=START:END", s)
	}

	step := editStep{op: edit.Op(op)}
	if step.op != edit.OpTrim && step.op != edit.OpCut {
		return editStep{}, fmt.Errorf("edit %q: unknown op %q", s, op)
	}

	from, to, ok := strings.Cut(span, ":")
	if !ok {
		return editStep{}, fmt.Errorf("edit %q: want START:END", s)
	}

	var err error
	if step.region.Start, err = strconv.ParseFloat(from, 64); err != nil {
		return editStep{}, fmt.Errorf("edit %q: start: %w", s, err)
	}
	if step.region.End, err = strconv.ParseFloat(to, 64); err != nil {
		return editStep{}, fmt.Errorf("edit %q: end: %w", s, err)
	}

	return step, nil
}

func newEditCmd(a *app) *cobra.Command {
	var (
		ops    []string
		name   string
		output string
		noSave bool
	)

	cmd := &cobra.Command{
		Use:   "edit <file|track-id> --op trim=S:E [--op cut=S:E ...]",
		Short: "Trim or cut a track and save the result",
		Long: `Apply edits in order. Each edit's times refer to the audio as left by the
previous edit, the same way they would be selected on screen.

  trim=S:E   keep only [S, E)
  cut=S:E    remove [S, E)

The result is saved to the library as an edited track unless --no-save is
given, and written to -o when set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if len(ops) == 0 {
				return fmt.Errorf("at least one --op is required")
			}
			steps := make([]editStep, 0, len(ops))
			for _, op := range ops {
				step, err := parseStep(op)
				if err != nil {
					return err
				}
				steps = append(steps, step)
			}

			in, err := a.load(ctx, args[0])
			if err != nil {
				return err
			}
			if name == "" {
				name = in.name
			}

			wf := newHeadlessWaveform(a.reg)
			sess, err := session.Open(session.Config{
				Registry: a.reg,
				Waveform: wf,
				Logger:   a.log.With("component", "session"),
			}, in.data, name)
			if err != nil {
				return err
			}
			defer sess.Close()

			if err := sess.Await(ctx, wf.events); err != nil {
				return err
			}

			for _, step := range steps {
				if err := step.region.Validate(sess.Duration()); err != nil {
					return fmt.Errorf("%s: %w", step.op, err)
				}

				sess.Handle(session.RegionCreated{Start: step.region.Start, End: step.region.End})

				apply := sess.Trim
				if step.op == edit.OpCut {
					apply = sess.Cut
				}
				if err := apply(); err != nil {
					return err
				}
				if err := sess.Await(ctx, wf.events); err != nil {
					return err
				}
			}

			exp, err := sess.Save()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if output != "" {
				if err := os.WriteFile(output, exp.Data, 0o644); err != nil {
					return err
				}
				fmt.Fprintln(out, "Wrote:", output)
			}

			if noSave {
				return nil
			}

			lib, err := a.openLibrary()
			if err != nil {
				return err
			}
			defer lib.Close()

			t, err := lib.Add(ctx, exp.Name, exp.Data, library.SourceEdited)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s\t%s\t%.3fs\n", t.ID, t.Name, exp.Duration)

			return nil
		},
	}

	cmd.Flags().StringArrayVar(&ops, "op", nil, "edit to apply, trim=S:E or cut=S:E (repeatable)")
	cmd.Flags().StringVar(&name, "name", "", "name of the saved track")
	cmd.Flags().StringVarP(&output, "output", "o", "", "also write the WAV to this path")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not add the result to the library")

	return cmd
}
