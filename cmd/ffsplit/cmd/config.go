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
	"time"

	"gopkg.in/yaml.v2"

	"github.com/facebook/flatfile/flatfile"
)

// Config is ffsplit's optional YAML configuration file. Absent a
// --config flag, the chunk width defaults to flatfile.DefaultChunkWidth.
type Config struct {
	ChunkWidthSeconds int    `yaml:"chunk_width_seconds"`
	OutputDir         string `yaml:"output_dir"`
}

// ChunkWidth returns the configured chunk width, or
// flatfile.DefaultChunkWidth if unset.
func (c Config) ChunkWidth() time.Duration {
	if c.ChunkWidthSeconds <= 0 {
		return flatfile.DefaultChunkWidth
	}
	return time.Duration(c.ChunkWidthSeconds) * time.Second
}

// loadConfig reads and parses a YAML config file. An empty path returns
// the zero Config (all defaults).
func loadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
