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

// RootCmd is fflist's entry point. It's exported so fflist could be
// easily extended without touching core functionality.
var RootCmd = &cobra.Command{
	Use:   "fflist [basename...]",
	Short: "Print the header summary of one or more flat files",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runList,
}

var verbose bool
var leapTablePath string

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	RootCmd.Flags().StringVar(&leapTablePath, "leap-table", "", "path to an IANA leap-seconds.list file; the header summary does not use leap data")
}

// ConfigureVerbosity configures log verbosity based on parsed flags.
func ConfigureVerbosity() {
	log.SetLevel(log.InfoLevel)
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
}

func loadLeapTable() (*leaptable.Table, error) {
	if leapTablePath == "" {
		return nil, nil
	}
	return leaptable.Load(leapTablePath)
}

func runList(c *cobra.Command, args []string) error {
	ConfigureVerbosity()

	table, err := loadLeapTable()
	if err != nil {
		return fmt.Errorf("loading leap table: %w", err)
	}

	for i, a := range args {
		basename := strings.TrimSuffix(strings.TrimSuffix(a, ".ffh"), ".ffd")
		r, err := flatfile.Open(basename, table)
		if err != nil {
			log.Errorf("opening %s: %v", basename, err)
			continue
		}
		if i > 0 {
			fmt.Println()
		}
		if err := r.ListHeader(os.Stdout); err != nil {
			log.Errorf("listing %s: %v", basename, err)
		}
	}
	return nil
}

// Execute is the main entry point for fflist.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
