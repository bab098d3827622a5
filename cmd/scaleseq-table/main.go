package main

import (
	"embed"
	"flag"
	"fmt"
	"os"
	"text/template"

	"github.com/Masterminds/sprig"
	"github.com/scaleseq/scaleseq"
	"github.com/scaleseq/scaleseq/cmd"
	"github.com/scaleseq/scaleseq/mts"
	"github.com/scaleseq/scaleseq/sequencer"
	"github.com/scaleseq/scaleseq/version"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

func main() {
	sclPath := flag.String("scl", "", "Scale file (.scl) to print the frequency table of.")
	kbmPath := flag.String("kbm", "", "Keyboard mapping file (.kbm) to print the frequency table of.")
	preset := flag.String("preset", "", "Simulate a sequencer preset (.yml) instead of printing a table.")
	slots := cmd.SlotFlags(flag.CommandLine)
	bars := flag.Int("bars", 4, "Number of bars to simulate.")
	bpm := flag.Float64("bpm", sequencer.DefaultBPM, "Tempo of the simulation.")
	sampleRate := flag.Float64("rate", 48000, "Sample rate of the simulation.")
	block := flag.Int("block", 256, "Frames per processing block in the simulation.")
	note := flag.Int("note", 69, "MIDI note whose frequency is shown in the simulation.")
	tmplPath := flag.String("t", "", "Use the templates in this file instead of the built-in ones. It must define \"table\" and \"simulate\".")
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
	cmd.InitLogging(*verbose)
	tmpl, err := loadTemplates(*tmplPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not load templates: %v\n", err)
		os.Exit(1)
	}
	if *preset != "" || slots.Any() {
		if *block <= 0 || *sampleRate <= 0 {
			fmt.Fprintf(os.Stderr, "block size and sample rate must be positive\n")
			os.Exit(1)
		}
		report, err := simulatePreset(*preset, slots, simulation{
			bpm:        *bpm,
			sampleRate: *sampleRate,
			block:      *block,
			bars:       *bars,
			note:       max(min(*note, scaleseq.NumNotes-1), 0),
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		if err := tmpl.ExecuteTemplate(os.Stdout, "simulate", report); err != nil {
			fmt.Fprintf(os.Stderr, "could not write report: %v\n", err)
			os.Exit(1)
		}
		return
	}
	tuning, err := loadTuning(*sclPath, *kbmPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if err := tmpl.ExecuteTemplate(os.Stdout, "table", tableReport(tuning)); err != nil {
		fmt.Fprintf(os.Stderr, "could not write table: %v\n", err)
		os.Exit(1)
	}
}

func loadTemplates(path string) (*template.Template, error) {
	base := template.New("base").Funcs(sprig.TxtFuncMap())
	if path != "" {
		return base.ParseFiles(path)
	}
	return base.ParseFS(templateFS, "templates/*.tmpl")
}

// loadTuning loads the files the way a slot of the sequencer would, except
// that a file that cannot be read is an error.
func loadTuning(sclPath, kbmPath string) (*scaleseq.Tuning, error) {
	loader := sequencer.NewLoader(logrus.StandardLogger())
	tuning := scaleseq.DefaultTuning()
	for _, f := range []struct {
		path string
		load func(*scaleseq.Tuning, string) (*scaleseq.Tuning, sequencer.LoadOutcome, error)
	}{{sclPath, loader.LoadScale}, {kbmPath, loader.LoadMapping}} {
		if f.path == "" {
			continue
		}
		t, outcome, err := f.load(tuning, f.path)
		if err != nil {
			return nil, err
		}
		switch outcome {
		case sequencer.LoadSkipped:
			return nil, fmt.Errorf("could not read %v", f.path)
		case sequencer.LoadCleared:
			logrus.WithField("path", f.path).Warn("unexpected file extension, using the default")
		}
		tuning = t
	}
	return tuning, nil
}

// simulatePreset runs a sequencer restored from the preset at path, if any,
// with the slot files of the flags loaded on top.
func simulatePreset(path string, slots *cmd.SlotFiles, sim simulation) (SimulationReport, error) {
	var state sequencer.State
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return SimulationReport{}, fmt.Errorf("could not read preset: %w", err)
		}
		if err := yaml.Unmarshal(data, &state); err != nil {
			return SimulationReport{}, fmt.Errorf("could not parse preset %v: %w", path, err)
		}
	}
	reg := mts.NewRegistry()
	seq := sequencer.New(reg.NewClient())
	if err := seq.Restore(state); err != nil {
		// the slots that failed are at the default tuning; keep going
		logrus.WithError(err).Warn("preset loaded with errors")
	}
	if err := slots.Apply(seq); err != nil {
		return SimulationReport{}, err
	}
	seq.Activate()
	defer seq.Deactivate()
	return sim.run(seq, reg), nil
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Prints the frequency table of a tuning, or simulates a scale sequencer with a preset or slot files (-scl1, -kbm2, ...).\nUsage: %s [flags]\n", os.Args[0])
	flag.PrintDefaults()
}
