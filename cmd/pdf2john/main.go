// Command pdf2john prints $pdf$ hash descriptors for encrypted PDF files,
// in the format consumed by John the Ripper.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/ali-raheem/pdf2john"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: pdf2john [-s|--show-filename] <pdf_files>...")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Extract password hashes from encrypted PDFs for John the Ripper")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Options:")
	fmt.Fprintln(os.Stderr, "  -s, --show-filename  Prefix output with the filename")
	fmt.Fprintln(os.Stderr, "  -h, --help           Print this help message")
}

func main() {
	showFilename := false
	var files []string

	for _, arg := range os.Args[1:] {
		switch {
		case arg == "-s" || arg == "--show-filename":
			showFilename = true
		case arg == "-h" || arg == "--help":
			usage()
			os.Exit(0)
		case strings.HasPrefix(arg, "-"):
			fmt.Fprintf(os.Stderr, "Unknown option: %s\n\n", arg)
			usage()
			os.Exit(1)
		default:
			files = append(files, arg)
		}
	}

	if len(files) == 0 {
		usage()
		os.Exit(1)
	}

	hadError := false
	for _, result := range pdf2john.ExtractFiles(files) {
		if result.Err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", result.Name, result.Err)
			hadError = true
			continue
		}
		if showFilename {
			fmt.Printf("%s:%s\n", result.Name, result.Hash)
		} else {
			fmt.Println(result.Hash)
		}
	}

	if hadError {
		os.Exit(1)
	}
}
