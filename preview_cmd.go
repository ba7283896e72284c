package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"karaoke-lyrics-go/engine"
	"karaoke-lyrics-go/lyrics"
	"karaoke-lyrics-go/parser"
	"karaoke-lyrics-go/preview"
	"karaoke-lyrics-go/style"
	"karaoke-lyrics-go/utils"
)

// runPreview renders frames of a lyrics file to out. With -until it steps
// from -at to -until every -step milliseconds; otherwise it draws one frame.
func runPreview(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("preview", flag.ContinueOnError)
	fs.SetOutput(out)
	file := fs.String("file", "", "lyrics file (.ttml, .lrc)")
	at := fs.String("at", "0", "start time in milliseconds")
	until := fs.String("until", "", "end time in milliseconds")
	step := fs.String("step", "500", "frame interval in milliseconds")
	preset := fs.String("preset", "default", "style preset")
	styleFile := fs.String("style", "", "style file (.yaml, .toml, .json)")
	formatName := fs.String("format", "", "force a format: ttml, lrc, enhanced_lrc")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *file == "" {
		return errors.New("-file is required")
	}

	start, err := utils.ParseMillis(*at)
	if err != nil {
		return fmt.Errorf("-at: %w", err)
	}
	end := start
	if *until != "" {
		if end, err = utils.ParseMillis(*until); err != nil {
			return fmt.Errorf("-until: %w", err)
		}
	}
	if end < start {
		return fmt.Errorf("-until (%d) is before -at (%d)", end, start)
	}
	interval, err := utils.ParseMillis(*step)
	if err != nil {
		return fmt.Errorf("-step: %w", err)
	}
	if interval <= 0 {
		return errors.New("-step must be positive")
	}

	cfg, err := style.Resolve(*styleFile, *preset)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		return err
	}
	doc, err := parsePreviewFile(string(raw), *file, *formatName)
	if err != nil {
		return err
	}

	holder := engine.NewStateHolder(doc.Lines, cfg)
	renderer := preview.New(cfg, out)
	for t := start; t <= end; t += interval {
		state := holder.UpdateTime(t)
		if _, err := fmt.Fprintf(out, "@ %dms\n%s\n", t, renderFrame(renderer, doc.Metadata, state)); err != nil {
			return err
		}
	}
	return nil
}

func parsePreviewFile(content, filename, formatName string) (lyrics.Document, error) {
	format := requestFormat(ParseRequest{Filename: filename, Format: formatName}, content)
	switch res := parser.ParseWithOptions(content, parseOptions(format)).(type) {
	case parser.Success:
		return res.Document, nil
	case parser.Failure:
		return lyrics.Document{}, res
	}
	return lyrics.Document{}, errors.New("unexpected parse result")
}
