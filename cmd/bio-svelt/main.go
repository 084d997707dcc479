// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

/*
bio-svelt merges structural-variant calls from one or more VCF files into
a single deduplicated callset, matching near-identical and reoriented
breakend records across callers.
*/

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/svelt/classify"
	"github.com/grailbio/svelt/mergetable"
	"github.com/grailbio/svelt/reference"
	"github.com/grailbio/svelt/svelt"
	"github.com/grailbio/svelt/vcf"
	"github.com/grailbio/svelt/vcfio"
)

var (
	out             = flag.String("out", "", "Output VCF path; defaults to stdout")
	referencePath   = flag.String("reference", "", "Reference FASTA path; enables flipped-BND matching (rule 3)")
	positionWindow  = flag.Int("position-window", 0, "Maximum position delta for near matching; 0 selects the default (25)")
	farWindow       = flag.Int("far-window", 0, "Maximum far-side delta for BND near/flipped matching; 0 selects the default (150)")
	lengthRatio     = flag.Float64("length-ratio", 0, "Length ratio that near matching must exceed; 0 selects the default (0.9)")
	writeMergeTable = flag.String("write-merge-table", "", "Optional path to write the merge-table TSV")
	forceAltTags    = flag.Bool("force-alt-tags", false, "Always emit a symbolic ALT tag when a merged record carries a literal sequence, moving literal sequences to SVELT_ALT_SEQ")
	dropInfo        = flag.String("drop-info", "", "Comma-separated INFO keys to drop from the representative record before SVELT_* fields are added")
	seedPanelPath   = flag.String("seed-panel", "", "Optional labelled FASTA panel for classifying novel insertion/duplication sequences")
	parallelism     = flag.Int("parallelism", 0, "Nonzero merges all partitions concurrently; 0 runs sequentially")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s merge [OPTIONS] INPUT...\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	shutdown := grail.Init()
	defer shutdown()

	args := flag.Args()
	if len(args) < 1 || args[0] != "merge" {
		log.Fatalf("expected subcommand 'merge'; usage: %s merge [OPTIONS] INPUT...", os.Args[0])
	}
	// Options may also follow the subcommand, as the usage line shows.
	flag.CommandLine.Parse(args[1:])
	inputPaths := flag.Args()
	if len(inputPaths) == 0 {
		log.Fatalf("at least one INPUT VCF path is required")
	}

	ctx := vcontext.Background()
	opts := svelt.DefaultOptions()
	if *positionWindow != 0 {
		opts.PositionWindow = *positionWindow
	}
	if *farWindow != 0 {
		opts.FarWindow = *farWindow
	}
	if *lengthRatio != 0 {
		opts.LengthRatio = *lengthRatio
	}
	opts.ForceAltTags = *forceAltTags
	if *dropInfo != "" {
		opts.DropInfo = strings.Split(*dropInfo, ",")
	}

	driver := &svelt.Driver{Options: opts, Parallelism: *parallelism}

	if *referencePath != "" {
		f, err := loadFasta(*referencePath)
		if err != nil {
			log.Fatalf("loading reference: %v", err)
		}
		driver.Reference = reference.NewCached(reference.FromFasta(f))
	}
	if *seedPanelPath != "" {
		f, err := loadFasta(*seedPanelPath)
		if err != nil {
			log.Fatalf("loading seed panel: %v", err)
		}
		c, err := classify.NewSeedClassifier(f, classify.DefaultK, 0.5)
		if err != nil {
			log.Fatalf("building seed classifier: %v", err)
		}
		driver.Classifier = c
	}

	inputs := make([]vcf.Reader, len(inputPaths))
	for i, p := range inputPaths {
		r, err := vcfio.Open(p)
		if err != nil {
			exitf(3, "opening %s: %v", p, err)
		}
		inputs[i] = r
	}
	defer func() {
		for _, r := range inputs {
			r.Close()
		}
	}()

	outPath := *out
	var writer vcf.Writer
	if outPath == "" {
		writer = vcfio.NewStdoutWriter()
	} else {
		w, err := vcfio.Create(outPath)
		if err != nil {
			exitf(3, "creating %s: %v", outPath, err)
		}
		writer = w
	}

	var mt *mergetable.Writer
	if *writeMergeTable != "" {
		f, err := file.Create(ctx, *writeMergeTable)
		if err != nil {
			exitf(3, "creating %s: %v", *writeMergeTable, err)
		}
		defer f.Close(ctx)
		w, err := mergetable.NewWriter(f.Writer(ctx))
		if err != nil {
			exitf(3, "writing merge table header: %v", err)
		}
		mt = w
		defer func() {
			if err := mt.Close(); err != nil {
				log.Error.Printf("closing merge table: %v", err)
			}
		}()
	}

	diags, err := driver.Merge(inputs, writer, mt)
	for _, d := range diags {
		log.Error.Printf("%s", d)
	}
	if err != nil {
		if fe, ok := err.(*svelt.FatalError); ok {
			exitf(exitCode(fe.Kind), "%v", fe.Err)
		}
		exitf(3, "%v", err)
	}
	if err := writer.Close(); err != nil {
		exitf(3, "closing output: %v", err)
	}
	log.Debug.Printf("exiting")
}

func loadFasta(path string) (reference.Fasta, error) {
	ctx := vcontext.Background()
	f, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	defer f.Close(ctx)
	return reference.New(f.Reader(ctx))
}

func exitCode(kind svelt.FatalKind) int {
	switch kind {
	case svelt.FatalMalformedInput:
		return 2
	case svelt.FatalIO:
		return 3
	case svelt.FatalSampleCollision, svelt.FatalInvariant:
		return 4
	default:
		return 1
	}
}

func exitf(code int, format string, args ...interface{}) {
	log.Error.Printf(format, args...)
	os.Exit(code)
}
