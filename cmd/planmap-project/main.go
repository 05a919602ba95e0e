package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/supergeri/workout-content-transformation-sub001/internal/document"
	"github.com/supergeri/workout-content-transformation-sub001/internal/models"
	"github.com/supergeri/workout-content-transformation-sub001/internal/project"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	workoutPath := flag.String("workout", "", "path to the workout document JSON (required)")
	mappingsPath := flag.String("mappings", "", "path to the confirmed mappings JSON, an object of original -> canonical names (required)")
	device := flag.String("device", "garmin", "export target: garmin, zwift, or apple")
	outPath := flag.String("out", "", "output path; defaults to stdout")
	version := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *version {
		fmt.Println("planmap-project", Version)
		return
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if !models.Device(*device).Valid() {
		log.Error("unknown device", "device", *device)
		os.Exit(1)
	}

	if *workoutPath == "" || *mappingsPath == "" {
		fmt.Fprintf(os.Stderr, "Usage: planmap-project -workout workout.json -mappings mappings.json [-device garmin] [-out projected.json]\n\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	doc, err := readWorkout(*workoutPath)
	if err != nil {
		log.Error("failed to read workout", "error", err)
		os.Exit(1)
	}

	mappings, err := readMappings(*mappingsPath)
	if err != nil {
		log.Error("failed to read mappings", "error", err)
		os.Exit(1)
	}

	projected := project.Project(document.EnsureIDs(doc), mappings, models.Device(*device))
	log.Info("projected workout",
		"exercises", document.CountExercises(projected),
		"mappings", len(mappings),
		"device", *device,
	)

	out := os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			log.Error("failed to create output file", "path", *outPath, "error", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(projected); err != nil {
		log.Error("failed to write projected workout", "error", err)
		os.Exit(1)
	}
}

func readWorkout(path string) (*models.WorkoutStructure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc models.WorkoutStructure
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &doc, nil
}

func readMappings(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var mappings map[string]string
	if err := json.Unmarshal(data, &mappings); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return mappings, nil
}
