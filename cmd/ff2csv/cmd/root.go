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
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/facebook/flatfile/flatfile"
	"github.com/facebook/flatfile/leaptable"
)

// RootCmd is ff2csv's entry point.
var RootCmd = &cobra.Command{
	Use:   "ff2csv <basename>",
	Short: "Convert a flat file's record table to CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

var verbose bool
var leapTablePath string
var precision int
var outPath string

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	RootCmd.Flags().StringVar(&leapTablePath, "leap-table", "", "path to an IANA leap-seconds.list file, needed for a leap-aware epoch")
	RootCmd.Flags().IntVarP(&precision, "precision", "p", flatfile.DefaultPrecision, "digits after the decimal point for data columns")
	RootCmd.Flags().StringVarP(&outPath, "output", "o", "", "output path, defaults to stdout")
}

// ConfigureVerbosity configures log verbosity based on parsed flags.
func ConfigureVerbosity() {
	log.SetLevel(log.InfoLevel)
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
}

func runConvert(c *cobra.Command, args []string) error {
	ConfigureVerbosity()

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

	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}
		defer f.Close()
		out = f
	}

	return r.ToCSV(out, precision)
}

// Execute is the main entry point for ff2csv.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
