// #############################################################################
// This file is part of the "lepton" project.
// It is distributed under the MIT License. Refer to the LICENSE file for more
// information.
// #############################################################################

// Command lepton parses, reconstructs and scans a possibly-damaged ELF file.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/xyproto/env/v2"

	"github.com/nikhilh-20/lepton/clap"
	"github.com/nikhilh-20/lepton/elf"
)

// Exit codes: 0 success, 1 the input could not be parsed at all, 2 usage
// error (bad flags, unreadable input file).
const (
	exitOK         = 0
	exitParseError = 1
	exitUsageError = 2
)

func main() {
	os.Exit(run(os.Args))
}

func run(argv []string) int {
	configureLogging()

	args := clap.NewArgSet("lepton", "Forensic ELF parser and reconstructor.")

	var inPath string
	var outPath string
	var rebuild bool
	var findEmbedded bool

	args.AddStringArg("in", "i", &inPath, "", true, "Path to the input file.")
	args.AddStringArg("out", "o", &outPath, "", false,
		"Path to write the reconstructed file. If empty, no file is written.")
	args.AddBoolArg("rebuild", "r", &rebuild, false, false,
		"Rebuild header, program and section tables from canonical values\ninstead of cloning them from the input.")
	args.AddBoolArg("find-embedded", "e", &findEmbedded, false, false,
		"Report ELF-shaped regions embedded inside the input.")

	if _, err := args.Parse(argv[1:]); err != nil {
		logrus.Errorf("argument parsing failed: %s", err.Error())
		return exitUsageError
	}
	if args.ShouldRenderHelp() {
		return exitOK
	}

	data, err := os.ReadFile(inPath)
	if err != nil {
		logrus.Errorf("reading %q: %s", inPath, err.Error())
		return exitUsageError
	}

	file, err := elf.Open(data, rebuild)
	if err != nil {
		logrus.Errorf("parsing %q: %s", inPath, err.Error())
		return exitParseError
	}

	h := file.Header()
	logrus.Infof("class=%d endian=%d machine=0x%02x phnum=%d shnum=%d shstrndx=%d",
		h.Class, h.Endian, h.EMachine, h.EPhnum, h.EShnum, h.EShstrndx)

	if findEmbedded {
		reportEmbedded(file.Embedded())
	}

	if outPath != "" {
		if err := os.WriteFile(outPath, file.Reconstruct(), 0644); err != nil {
			logrus.Errorf("writing %q: %s", outPath, err.Error())
			return exitUsageError
		}
		logrus.Infof("reconstructed file written to %q", outPath)
	}

	return exitOK
}

func reportEmbedded(candidates []elf.EmbeddedELF) {
	if len(candidates) == 0 {
		fmt.Println("no embedded ELF candidates found")
		return
	}
	for _, c := range candidates {
		fmt.Printf("embedded ELF at offset 0x%x, upper-bound size %d bytes\n", c.Offset, len(c.Data))
	}
}

// configureLogging reads LEPTON_LOG_LEVEL (debug/info/warn/error, default
// info) as the process's one runtime configuration knob.
func configureLogging() {
	level := strings.ToLower(env.Str("LEPTON_LOG_LEVEL", "info"))

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logrus.SetLevel(parsed)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}
