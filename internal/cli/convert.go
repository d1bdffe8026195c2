package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"nbserve/internal/exporters"
	"nbserve/internal/nbformat"
	"nbserve/internal/utils"
)

// ConvertCommand converts a notebook file to another format without a server.
type ConvertCommand struct {
	InputPath     string
	Format        string
	OutputDir     string
	ExtractImages bool
	ExcludeInput  bool
	Verbose       bool
}

func NewConvertCommand() *ConvertCommand {
	return &ConvertCommand{}
}

func (cmd *ConvertCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)

	fs.StringVar(&cmd.InputPath, "file", "", "Path to the notebook file to convert (required)")
	fs.StringVar(&cmd.Format, "format", "html", "Target format (html, markdown, latex, script, notebook)")
	fs.StringVar(&cmd.OutputDir, "output", ".", "Directory to write the converted document into")
	fs.BoolVar(&cmd.ExtractImages, "extract-images", true, "Write image outputs as separate files")
	fs.BoolVar(&cmd.ExcludeInput, "exclude-input", false, "Omit code cell sources from the output")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s convert -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Convert a notebook file to another format.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Convert a notebook to markdown next to it:\n")
		fmt.Fprintf(os.Stderr, "  %s convert -file analysis.ipynb -format markdown\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Render an HTML report into a directory:\n")
		fmt.Fprintf(os.Stderr, "  %s convert -file analysis.ipynb -format html -output ./reports\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.InputPath == "" {
		return fmt.Errorf("required flag -file not provided")
	}

	return nil
}

func (cmd *ConvertCommand) Run() error {
	data, err := os.ReadFile(cmd.InputPath)
	if err != nil {
		return fmt.Errorf("failed to read notebook: %w", err)
	}

	nb, err := nbformat.Reads(data)
	if err != nil {
		return fmt.Errorf("failed to parse notebook: %w", err)
	}

	info, err := os.Stat(cmd.InputPath)
	if err != nil {
		return fmt.Errorf("failed to stat notebook: %w", err)
	}

	opts := exporters.Options{
		ExtractImages: cmd.ExtractImages,
		ExcludeInput:  cmd.ExcludeInput,
	}
	exporter, err := exporters.Get(cmd.Format, opts)
	if err != nil {
		return err
	}

	title := utils.TitleFromName(filepath.Base(cmd.InputPath))
	res := exporters.BuildResources(
		title,
		info.ModTime().Format(exporters.ModifiedDateFormat),
		filepath.Dir(cmd.InputPath),
		"",
	)

	start := time.Now()
	output, res, err := exporter.FromNotebook(nb, res)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}

	if err := os.MkdirAll(cmd.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	outputPath := filepath.Join(cmd.OutputDir, title+res.OutputExtension)
	if err := os.WriteFile(outputPath, output, 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	fmt.Printf("Wrote %s\n", outputPath)

	// Auxiliary files land next to the document, preserving the
	// <title>_files directory the output references.
	for name, content := range res.Outputs {
		auxPath := filepath.Join(cmd.OutputDir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(auxPath), 0o755); err != nil {
			return fmt.Errorf("failed to create output files directory: %w", err)
		}
		if err := os.WriteFile(auxPath, content, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		if cmd.Verbose {
			fmt.Printf("Wrote %s\n", auxPath)
		}
	}

	if cmd.Verbose {
		fmt.Printf("Converted %s to %s in %v\n", cmd.InputPath, cmd.Format, time.Since(start).Round(time.Millisecond))
	}

	return nil
}
