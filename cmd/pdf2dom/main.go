// seehuhn.de/go/pdf2dom - convert PDF drawing events into styled box trees
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.


// Pdf2dom converts a trace of PDF drawing events into an HTML document.
//
// The input is a sequence of JSON objects, one per drawing event, as
// produced by a PDF content stream decoder.  The trace may be compressed
// using gzip or zstd.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"golang.org/x/term"

	"seehuhn.de/go/pdf2dom/boxtree"
	"seehuhn.de/go/pdf2dom/convert"
	"seehuhn.de/go/pdf2dom/internal/buildinfo"
	"seehuhn.de/go/pdf2dom/internal/profile"
	"seehuhn.de/go/pdf2dom/resource"
)

var (
	fontMode  = resource.ModeEmbed
	imageMode = resource.ModeEmbed

	outArg     = flag.String("o", "", "write HTML to `file` (default: standard output)")
	dirArg     = flag.String("dir", "", "directory for saved resources (default: \""+resource.DefaultDir+"\" next to the output)")
	startArg   = flag.Int("start", 0, "first page to convert")
	endArg     = flag.Int("end", 0, "last page to convert")
	noGraphics = flag.Bool("nographics", false, "omit rectangles, lines and paths")
	noImages   = flag.Bool("noimages", false, "omit images")
	verbose    = flag.Bool("v", false, "log debug messages")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to `file`")
	memprofile = flag.String("memprofile", "", "write memory profile to `file`")
)

func main() {
	flag.Var(&fontMode, "fonts", "font handling: embed, save or ignore")
	flag.Var(&imageMode, "images", "image handling: embed, save or ignore")
	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintf(out, "pdf2dom - convert PDF drawing events to HTML\n")
		fmt.Fprintf(out, "%s\n\n", buildinfo.Short("pdf2dom"))
		fmt.Fprintf(out, "Usage:\n")
		fmt.Fprintf(out, "  pdf2dom [options] [trace.jsonl]\n\n")
		fmt.Fprintf(out, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(out, "\nExamples:\n")
		fmt.Fprintf(out, "  pdf2dom -o doc.html doc.jsonl.zst\n")
		fmt.Fprintf(out, "  pdf2dom -fonts save -images ignore -start 2 -end 5 -o out.html doc.jsonl\n")
	}
	flag.Parse()

	if flag.NArg() > 1 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "pdf2dom:", err)
		os.Exit(1)
	}
}

func run() error {
	stop, err := profile.Start(*cpuprofile, *memprofile)
	if err != nil {
		return err
	}
	defer stop()

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var in io.Reader = os.Stdin
	if flag.NArg() == 1 {
		fd, err := os.Open(flag.Arg(0))
		if err != nil {
			return err
		}
		defer fd.Close()
		in = fd
	}

	fonts, images := resourceHandlers(*outArg, *dirArg, fontMode, imageMode)
	opt := &convert.Options{
		StartPage:       *startArg,
		EndPage:         *endArg,
		DisableGraphics: *noGraphics,
		DisableImages:   *noImages,
		FontHandler:     fonts,
		ImageHandler:    images,
		Logger:          logger,
	}

	var hook pageHook
	if term.IsTerminal(int(os.Stderr.Fd())) {
		hook = func(pageNo int) {
			fmt.Fprintf(os.Stderr, "\rpage %d", pageNo)
		}
		defer fmt.Fprintln(os.Stderr)
	}

	return convertTrace(in, *outArg, opt, hook)
}

// convertTrace converts the event trace read from in and writes the HTML
// document to the file out.  If out is empty, the document is written to
// standard output.
func convertTrace(in io.Reader, out string, opt *convert.Options, hook pageHook) error {
	tree := boxtree.NewBuilder(opt.Logger)
	e := convert.New(tree, opt)

	info, err := replay(e, in, opt.Logger, hook)
	if err != nil {
		return err
	}
	e.Finish(info)

	doc := tree.Document()
	if out == "" {
		return doc.WriteHTML(os.Stdout)
	}
	fd, err := os.Create(out)
	if err != nil {
		return err
	}
	err = doc.WriteHTML(fd)
	if err2 := fd.Close(); err == nil {
		err = err2
	}
	return err
}

// resourceHandlers returns the handlers for fonts and images.  Saved
// resources go to dir, or to [resource.DefaultDir] next to the output file
// if dir is empty.  The URLs of saved resources are relative to the
// directory of the output file.  Both handlers share one directory, so
// that file names do not collide.
func resourceHandlers(out, dir string, fontMode, imageMode resource.Mode) (fonts, images resource.Handler) {
	var save *resource.SaveToDir
	handler := func(m resource.Mode) resource.Handler {
		if m != resource.ModeSave {
			return resource.NewHandler(m, "")
		}
		if save == nil {
			fsDir, prefix := resourceDir(out, dir)
			save = resource.NewSaveToDir(fsDir)
			save.URLPrefix = prefix
		}
		return save
	}
	return handler(fontMode), handler(imageMode)
}

// resourceDir returns the directory for saved resources and the path of
// this directory relative to the output file.  The relative path is empty
// if the resources can be referred to by dir itself.
func resourceDir(out, dir string) (fsDir, prefix string) {
	if out == "" {
		if dir == "" {
			dir = resource.DefaultDir
		}
		return dir, ""
	}

	outDir := filepath.Dir(out)
	if dir == "" {
		return filepath.Join(outDir, resource.DefaultDir), resource.DefaultDir
	}

	absOut, err1 := filepath.Abs(outDir)
	absDir, err2 := filepath.Abs(dir)
	if err1 != nil || err2 != nil {
		return dir, ""
	}
	rel, err := filepath.Rel(absOut, absDir)
	if err != nil {
		return dir, absDir
	}
	return dir, rel
}
