// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ik5/audibites"
	"github.com/ik5/audibites/capture"
	"github.com/ik5/audibites/library"
)

func newRecordCmd(a *app) *cobra.Command {
	var (
		inputPath string
		shared    bool
		name      string
	)

	cmd := &cobra.Command{
		Use:   "record [--input -|file] [--shared]",
		Short: "Record encoded audio from stdin or a file",
		Long: `Record audio produced by an external capture tool and add it to the
library. Recording stops when the input ends or on interrupt.

Examples:
  ffmpeg -f pulse -i default -f wav - | audibites record
  audibites record --input tab.ogg --shared`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			var in io.Reader = cmd.InOrStdin()
			if inputPath != "-" {
				f, err := os.Open(inputPath)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			mode := capture.ModeLocal
			dev := capture.NewReaderDevice(in, nil, a.cfg.Capture.ChunkSize)
			if shared {
				mode = capture.ModeShared
				dev = capture.NewReaderDevice(nil, in, a.cfg.Capture.ChunkSize)
			}

			stderr := cmd.ErrOrStderr()
			rec := capture.NewRecorder(dev,
				capture.WithLogger(a.log.With("component", "capture")),
				capture.WithTick(a.cfg.Capture.TickInterval(), func(elapsed time.Duration) {
					fmt.Fprintf(stderr, "\rrecording %s", audibites.FormatTime(elapsed.Seconds()))
				}),
			)

			if err := rec.Start(ctx, mode); err != nil {
				return err
			}

			select {
			case <-rec.Done():
			case <-ctx.Done():
				if err := rec.Stop(); err != nil && !errors.Is(err, capture.ErrNotRecording) {
					return err
				}
			}

			if a.cfg.Capture.TickInterval() > 0 {
				fmt.Fprintln(stderr)
			}

			got, err := rec.Result()
			if err != nil {
				return err
			}
			if name != "" {
				got.Name = name
			}

			lib, err := a.openLibrary()
			if err != nil {
				return err
			}
			defer lib.Close()

			// the interrupt that stopped the recording must not abort the save
			t, err := lib.Add(context.WithoutCancel(ctx), got.Name, got.Data, library.SourceRecording)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", t.ID, t.Name, audibites.FormatTime(got.Elapsed.Seconds()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "-", "encoded audio source, - for stdin")
	cmd.Flags().BoolVar(&shared, "shared", false, "record as a shared source instead of a local input")
	cmd.Flags().StringVar(&name, "name", "", "track name, defaults to Recording_<time>")

	return cmd
}
