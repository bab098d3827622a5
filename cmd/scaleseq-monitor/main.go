package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/scaleseq/scaleseq/cmd"
	"github.com/scaleseq/scaleseq/mts"
	"github.com/scaleseq/scaleseq/sequencer"
	"github.com/scaleseq/scaleseq/version"
	"github.com/sirupsen/logrus"
)

func main() {
	preset := flag.String("preset", "", "Load a sequencer preset (.yml) at start.")
	slots := cmd.SlotFlags(flag.CommandLine)
	save := flag.String("save", "", "Where the s key saves the preset. Defaults to the -preset file, or scaleseq.yml.")
	bpm := flag.Float64("bpm", sequencer.DefaultBPM, "Initial tempo.")
	sampleRate := flag.Float64("rate", 48000, "Sample rate of the internal clock.")
	block := flag.Int("block", 256, "Frames per processing block.")
	midiOut := flag.String("midi-out", "", "Send the tuning as MIDI Tuning Standard messages to the first MIDI output whose name starts with this.")
	listPorts := flag.Bool("list-ports", false, "List the MIDI outputs and exit.")
	logFile := flag.String("log", "", "Write the log to this file. By default, nothing is logged.")
	verbose := flag.Bool("d", false, "Log debug messages.")
	help := flag.Bool("h", false, "Show help.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	if *help || flag.NArg() > 0 {
		flag.Usage()
		os.Exit(0)
	}
	if *listPorts {
		for _, name := range cmd.MIDIPortNames() {
			fmt.Println(name)
		}
		os.Exit(0)
	}
	var logOut io.Writer = io.Discard
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	cmd.LogTo(logOut, *verbose)
	if *block <= 0 || *sampleRate <= 0 {
		fmt.Fprintf(os.Stderr, "block size and sample rate must be positive\n")
		os.Exit(1)
	}
	savePath := *save
	if savePath == "" {
		savePath = *preset
	}
	if savePath == "" {
		savePath = "scaleseq.yml"
	}

	seq := sequencer.New(mts.Default.NewClient())
	if *preset != "" {
		data, err := os.ReadFile(*preset)
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not read preset: %v\n", err)
			os.Exit(1)
		}
		// load errors also arrive as alerts, shown once the monitor starts
		if err := seq.UnmarshalState(data); err != nil {
			logrus.WithError(err).Warn("preset loaded with errors")
		}
	}
	if err := slots.Apply(seq); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	outputName := ""
	if *midiOut != "" {
		out, err := cmd.NewTuningOutput(*midiOut, logrus.StandardLogger())
		if err != nil {
			fmt.Fprintf(os.Stderr, "could not open MIDI output: %v\n", err)
			os.Exit(1)
		}
		defer out.Close()
		mts.Default.SetOutput(out)
		defer mts.Default.SetOutput(nil)
		go out.Run(ctx)
		outputName = out.String()
	}
	e := newEngine(seq, *bpm, *sampleRate, *block)
	go e.Run()
	p := tea.NewProgram(NewModel(seq, e, outputName, savePath), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logrus.WithError(err).Error("monitor failed")
	}
	sequencer.TrySend(seq.Broker().CloseEngine, struct{}{})
	select {
	case <-seq.Broker().FinishedEngine:
	case <-time.After(3 * time.Second):
		logrus.Warn("engine did not stop in time")
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Runs a scale sequencer on an internal clock and shows its steps.\nUsage: %s [flags]\n", os.Args[0])
	flag.PrintDefaults()
}
