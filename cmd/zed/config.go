package main

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"

	internalstore "github.com/zfsoci/zedstore/internal/store"
	"github.com/zfsoci/zedstore/pkg/archive"
)

// config is the shape of zedstore.yaml, per SPEC_FULL.md §4.0.c. CLI flags
// take precedence over file values; file values take precedence over these
// defaults.
type config struct {
	Root       string `yaml:"root"`
	DatasetBin string `yaml:"dataset_bin"`
	DatasetZFS string `yaml:"dataset_zfs"`
	RuncBin    string `yaml:"runc_bin"`
	Codec      string `yaml:"codec"`
}

func defaultConfig() config {
	return config{
		Root:       internalstore.DefaultRoot,
		DatasetBin: internalstore.DefaultDatasetBin,
		DatasetZFS: "rpool/zedstore",
		RuncBin:    internalstore.DefaultRuncBin,
		Codec:      string(archive.CodecGzip),
	}
}

// loadConfig reads path as a zedstore.yaml document, tolerating a missing
// file by returning defaultConfig().
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return config{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return config{}, err
	}
	return cfg, nil
}
