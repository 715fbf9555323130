// SPDX-License-Identifier: EPL-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ik5/audibites"
	"github.com/ik5/audibites/library"
)

func newImportCmd(a *app) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Add an audio file to the library",
		Long: `Add an audio file to the library as an upload. The track name is the
file name without its extension unless --name is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			if name == "" {
				name = library.UploadName(args[0])
			}

			lib, err := a.openLibrary()
			if err != nil {
				return err
			}
			defer lib.Close()

			t, err := lib.Add(cmd.Context(), name, data, library.SourceUpload)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", t.ID, t.Name, audibites.FormatTime(t.Duration))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "track name")

	return cmd
}

func newListCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List library tracks, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			lib, err := a.openLibrary()
			if err != nil {
				return err
			}
			defer lib.Close()

			tracks, err := lib.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return printJSON(out, tracks)
			}
			if len(tracks) == 0 {
				fmt.Fprintln(out, "No tracks found.")
				return nil
			}

			w := newTabWriter(out)
			fmt.Fprintln(w, "ID\tNAME\tSOURCE\tDURATION\tCREATED")
			for _, t := range tracks {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					t.ID, t.Name, t.Source, audibites.FormatTime(t.Duration),
					t.CreatedAt.Local().Format(time.DateTime))
			}
			w.Flush()
			fmt.Fprintf(out, "(%d tracks)\n", len(tracks))

			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <track-id>",
		Short: "Remove a track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := a.openLibrary()
			if err != nil {
				return err
			}
			defer lib.Close()

			if err := lib.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}

func newInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "info <file|track-id>",
		Short: "Show the decoded format of a file or track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			format, _, _ := a.reg.Detect(in.data)
			buf, err := a.reg.Decode(in.data)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "name:        %s\n", in.name)
			fmt.Fprintf(out, "format:      %s\n", format)
			fmt.Fprintf(out, "sample rate: %d Hz\n", buf.SampleRate())
			fmt.Fprintf(out, "channels:    %d\n", buf.Channels())
			fmt.Fprintf(out, "frames:      %d\n", buf.Frames())
			fmt.Fprintf(out, "duration:    %s\n", audibites.FormatTimePrecise(buf.Duration()))

			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var (
		output string
		rate   int
		mono   bool
	)

	cmd := &cobra.Command{
		Use:   "export <file|track-id> -o <out.wav>",
		Short: "Write a track as 16-bit PCM WAV",
		Long: `Decode a track or file and write it as 16-bit PCM WAV, optionally
resampled and mixed down. --rate and --mono default to the export section of
the config.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				return errors.New("-o is required")
			}

			opts := audibites.ConvertOptions{SampleRate: a.cfg.Export.SampleRate, Mono: a.cfg.Export.Mono}
			if cmd.Flags().Changed("rate") {
				opts.SampleRate = rate
			}
			if cmd.Flags().Changed("mono") {
				opts.Mono = mono
			}

			in, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			buf, err := a.reg.Decode(in.data)
			if err != nil {
				return err
			}

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := audibites.ExportWAV(f, buf, opts); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			a.log.Info("exported", "name", in.name, "path", output, "rate", opts.SampleRate, "mono", opts.Mono)
			fmt.Fprintln(cmd.OutOrStdout(), "Wrote:", output)

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output WAV path")
	cmd.Flags().IntVar(&rate, "rate", 0, "output sample rate in Hz, 0 keeps the source rate")
	cmd.Flags().BoolVar(&mono, "mono", false, "mix down to one channel")

	return cmd
}

// input is audio loaded from a file or the library.
type input struct {
	data []byte
	name string
}

// load reads ref as a file path, falling back to a library track id.
func (a *app) load(ctx context.Context, ref string) (input, error) {
	data, err := os.ReadFile(ref)
	if err == nil {
		return input{data: data, name: library.UploadName(ref)}, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return input{}, err
	}

	lib, err := a.openLibrary()
	if err != nil {
		return input{}, err
	}
	defer lib.Close()

	t, err := lib.Get(ctx, ref)
	if err != nil {
		return input{}, fmt.Errorf("%s: %w", ref, err)
	}
	data, err = lib.Data(ctx, ref)
	if err != nil {
		return input{}, err
	}

	return input{data: data, name: t.Name}, nil
}
