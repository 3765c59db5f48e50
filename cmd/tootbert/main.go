// Command tootbert classifies the protein sequences in a FASTA file as
// transporters or non-transporters, writing predictions to the output file
// and failed records to a problem file.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/schollz/progressbar/v2"

	"github.com/ramou/TooT-BERT-T/internal/app"
	"github.com/ramou/TooT-BERT-T/internal/classify"
	"github.com/ramou/TooT-BERT-T/internal/config"
	"github.com/ramou/TooT-BERT-T/internal/fasta"
	"github.com/ramou/TooT-BERT-T/internal/output"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return runWithContext(ctx, os.Args[1:], os.Stderr)
}

func runWithContext(ctx context.Context, args []string, errOut io.Writer) int {
	fs := flag.NewFlagSet("tootbert", flag.ContinueOnError)
	fs.SetOutput(errOut)
	configPath := fs.String("config", "", "path to optional config file")
	maxSeqLen := fs.Int("max-seq-len", 0, "maximum token count per sequence")
	classifierPath := fs.String("classifier", "", "path to the logistic regression weights")
	tokenizerPath := fs.String("tokenizer", "", "path to tokenizer.json")
	modelPath := fs.String("model", "", "path to the ONNX embedding model")
	problemPath := fs.String("problem-file", "", "file for problem sequences (default <output>.problem-sequences)")
	device := fs.String("device", "", "inference device: cpu or cuda")
	showProgress := fs.Bool("progress", false, "render a progress bar on stderr")
	verbose := fs.Bool("verbose", false, "enable verbose logging")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 2 {
		fmt.Fprintln(errOut, "usage: tootbert [flags] <input.fasta> <output file>")
		return 2
	}
	inputPath, outputPath := fs.Arg(0), fs.Arg(1)

	if *verbose {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(errOut, "failed to load config: %v\n", err)
			return 1
		}
		cfg = config.WithDefaults(loaded)
	}
	if *maxSeqLen > 0 {
		cfg.Model.MaxSeqLen = *maxSeqLen
	}
	if *classifierPath != "" {
		cfg.Classifier.Path = *classifierPath
	}
	if *tokenizerPath != "" {
		cfg.Model.TokenizerPath = *tokenizerPath
	}
	if *modelPath != "" {
		cfg.Model.ModelPath = *modelPath
	}
	if *device != "" {
		cfg.Model.Device = *device
	}

	records, err := fasta.ReadFile(inputPath)
	if err != nil {
		fmt.Fprintf(errOut, "failed to read input: %v\n", err)
		return 1
	}

	log.Printf("Loading BERT model and tokenizer...")
	pipeline, cleanup, err := app.BuildPipeline(ctx, cfg)
	if err != nil {
		fmt.Fprintf(errOut, "setup failed: %v\n", err)
		return 1
	}
	defer cleanup()

	outFile, err := os.Create(outputPath)
	if err != nil {
		fmt.Fprintf(errOut, "failed to create output file: %v\n", err)
		return 1
	}
	defer outFile.Close()

	probPath := *problemPath
	if probPath == "" {
		probPath = output.DefaultProblemPath(outputPath)
	}
	probFile, err := os.Create(probPath)
	if err != nil {
		fmt.Fprintf(errOut, "failed to create problem file: %v\n", err)
		return 1
	}
	defer probFile.Close()

	results := output.NewResultWriter(outFile)
	problems := output.NewProblemWriter(probFile)

	runID := uuid.NewString()
	log.Printf("run %s: classifying %s sequences from %s",
		runID, humanize.Comma(int64(len(records))), inputPath)

	var bar *progressbar.ProgressBar
	if *showProgress {
		bar = progressbar.NewOptions(len(records), progressbar.OptionSetWriter(errOut))
	}

	fmt.Println("Sequence ID\t\tPredicted label")
	fmt.Println("------------\t\t---------------")

	start := time.Now()
	var predicted, failed int
	err = pipeline.Run(ctx, toRecords(records), func(res classify.Result) {
		if res.Err != nil {
			failed++
			if werr := problems.Write(res.ID, res.Err.Error()); werr != nil {
				log.Printf("failed to write problem entry: %v", werr)
			}
			fmt.Printf("Problem with sequence %s, skipping to the next one.\n", res.ID)
		} else {
			predicted++
			if werr := results.Write(res.ID, res.Label); werr != nil {
				log.Printf("failed to write result: %v", werr)
			}
			fmt.Printf("%s\t%s\n", res.ID, res.Label)
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	})
	if err != nil {
		fmt.Fprintf(errOut, "run aborted: %v\n", err)
		return 1
	}

	fmt.Println("Finished.")
	log.Printf("run %s: %s predictions, %s problems in %s",
		runID, humanize.Comma(int64(predicted)), humanize.Comma(int64(failed)),
		time.Since(start).Round(time.Millisecond))
	return 0
}

func toRecords(in []fasta.Record) []classify.Record {
	out := make([]classify.Record, 0, len(in))
	for _, r := range in {
		out = append(out, classify.Record{ID: r.ID, Sequence: r.Sequence})
	}
	return out
}
