// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces the process environment variables, e.g.
// RECOMMENDIT_LISTEN or RECOMMENDIT_EMBEDDING_HOST.
const envPrefix = "RECOMMENDIT_"

// Config is the server process configuration.
type Config struct {
	Listen         string        `koanf:"listen" validate:"required"`
	ArtifactDir    string        `koanf:"artifact_dir" validate:"required"`
	EmbeddingHost  string        `koanf:"embedding_host" validate:"required"`
	EmbeddingModel string        `koanf:"embedding_model" validate:"required"`
	FetchTimeout   time.Duration `koanf:"fetch_timeout" validate:"gt=0"`
	ReadTimeout    time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout   time.Duration `koanf:"write_timeout" validate:"gt=0"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Listen:         ":8080",
		ArtifactDir:    "artifacts",
		EmbeddingHost:  "http://localhost:11434/v1",
		EmbeddingModel: "embeddinggemma",
		FetchTimeout:   20 * time.Second,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   30 * time.Second,
	}
}

// LoadConfig loads configuration in layers with clear precedence:
// environment variables over the optional YAML file at configPath over
// built-in defaults.
func LoadConfig(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Config keys are flat, so RECOMMENDIT_ARTIFACT_DIR lowercases
	// straight to artifact_dir.
	envProvider := env.Provider(envPrefix, ".", func(key string) string {
		return strings.ToLower(strings.TrimPrefix(key, envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
