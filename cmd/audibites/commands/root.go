// SPDX-License-Identifier: EPL-2.0

// Package commands implements the audibites command tree.
package commands

import (
	"encoding/json"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ik5/audibites"
	"github.com/ik5/audibites/audio"
	"github.com/ik5/audibites/internal/config"
	"github.com/ik5/audibites/library"
)

// app carries the state shared by every subcommand of one invocation.
type app struct {
	configPath string
	libraryDir string
	verbose    bool

	cfg *config.Config
	log *slog.Logger
	reg *audio.Registry
}

func NewRootCmd() *cobra.Command {
	a := &app{reg: audibites.DefaultRegistry()}

	root := &cobra.Command{
		Use:   "audibites",
		Short: "Record, trim and export audio clips",
		Long: `audibites keeps a library of audio tracks and edits them.

Commands:
  import    Add an audio file to the library
  record    Record encoded audio from stdin or a file
  edit      Trim or cut a track and save the result
  export    Write a track as 16-bit PCM WAV
  list      List library tracks, newest first
  delete    Remove a track
  info      Show the decoded format of a file or track

Examples:
  audibites import interview.mp3
  audibites edit 5f0c... --op trim=12.5:48 --op cut=3:4.25 -o clip.wav
  audibites export 5f0c... -o clip.wav --rate 16000 --mono`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (yaml)")
	root.PersistentFlags().StringVar(&a.libraryDir, "library", "", "library directory, overrides the config")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newImportCmd(a),
		newRecordCmd(a),
		newEditCmd(a),
		newExportCmd(a),
		newListCmd(a),
		newDeleteCmd(a),
		newInfoCmd(a),
	)

	return root
}

func (a *app) setup(stderr io.Writer) error {
	cfg := config.Default()
	if a.configPath != "" {
		var err error
		if cfg, err = config.Load(a.configPath); err != nil {
			return err
		}
	}
	if a.libraryDir != "" {
		cfg.Library.Dir = a.libraryDir
		cfg.Library.InMemory = false
	}
	a.cfg = cfg

	level, err := cfg.Logging.SlogLevel()
	if err != nil {
		return err
	}
	if a.verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(stderr, opts)
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(stderr, opts)
	}
	a.log = slog.New(handler)

	return nil
}

func (a *app) openLibrary() (*library.Library, error) {
	return library.Open(library.Options{
		Dir:      a.cfg.Library.Dir,
		InMemory: a.cfg.Library.InMemory,
		Registry: a.reg,
		Logger:   a.log.With("component", "library"),
	})
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}
