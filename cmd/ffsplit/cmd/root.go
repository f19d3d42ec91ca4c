/*
Copyright (c) Facebook, Inc. and its affiliates.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/facebook/flatfile/fftime"
	"github.com/facebook/flatfile/flatfile"
	"github.com/facebook/flatfile/leaptable"
)

// RootCmd is ffsplit's entry point. It's exported so ffsplit could be
// easily extended without touching core functionality.
var RootCmd = &cobra.Command{
	Use:   "ffsplit <basename>",
	Short: "Split a flat file into fixed-width time chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runSplit,
}

var verbose bool
var leapTablePath string
var configPath string

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	RootCmd.Flags().StringVar(&leapTablePath, "leap-table", "", "path to an IANA leap-seconds.list file, needed for a leap-aware epoch")
	RootCmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a YAML config overriding the chunk width and output directory")
}

// ConfigureVerbosity configures log verbosity based on parsed flags.
func ConfigureVerbosity() {
	log.SetLevel(log.InfoLevel)
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
}

func runSplit(c *cobra.Command, args []string) error {
	ConfigureVerbosity()

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	var table *leaptable.Table
	if leapTablePath != "" {
		t, err := leaptable.Load(leapTablePath)
		if err != nil {
			return fmt.Errorf("loading leap table: %w", err)
		}
		table = t
	}

	basename := strings.TrimSuffix(strings.TrimSuffix(args[0], ".ffh"), ".ffd")
	r, err := flatfile.Open(basename, table)
	if err != nil {
		return fmt.Errorf("opening %s: %w", basename, err)
	}

	chunks, err := flatfile.Split(r, cfg.ChunkWidth())
	if err != nil {
		return fmt.Errorf("splitting %s: %w", basename, err)
	}

	outDir := cfg.OutputDir
	if outDir == "" {
		outDir = filepath.Dir(basename)
	}

	timeLabel, timeUnits, names, units, sources := r.ColumnLabels()

	for _, chunk := range chunks {
		times, columns, err := r.Slice(chunk.FirstIndex, chunk.LastIndex)
		if err != nil {
			return fmt.Errorf("slicing chunk %s: %w", chunk.Name(), err)
		}

		chunkPath := filepath.Join(outDir, chunk.Name())
		w := flatfile.NewWriter(chunkPath, fftime.Epoch(r.Header.Epoch), table)
		w.Header.ErrorFlag = r.Header.ErrorFlag
		w.Header.Abstract = r.Header.Abstract
		if err := w.SetLabels(timeLabel, names); err != nil {
			return err
		}
		if err := w.SetUnits(timeUnits, units); err != nil {
			return err
		}
		if err := w.SetSources(sources); err != nil {
			return err
		}
		if err := w.SetData(times, columns); err != nil {
			return fmt.Errorf("setting data for chunk %s: %w", chunk.Name(), err)
		}
		if err := w.Write(); err != nil {
			return fmt.Errorf("writing chunk %s: %w", chunk.Name(), err)
		}
		log.Infof("wrote %s: %d rows", chunkPath, len(times))
	}

	return nil
}

// Execute is the main entry point for ffsplit.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
