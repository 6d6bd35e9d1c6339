// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	_ "embed"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
)

// FileExt is the extension LoadDir looks for.
const FileExt = ".termbar.yaml"

var (
	// ErrInvalidYaml is returned when a profile file cannot be decoded.
	ErrInvalidYaml = errors.New("invalid YAML")
	// ErrNoProfiles is returned when a file defines no profiles.
	ErrNoProfiles = errors.New("no profiles defined")
	// ErrReadFile is returned when a profile file cannot be read.
	ErrReadFile = errors.New("failed to read profile file")
	// ErrNoProfileFile is returned when a directory holds no profile files.
	ErrNoProfileFile = errors.New("no `" + FileExt + "` file found in the specified directory")
	// ErrDuplicateProfile is returned when two files define the same profile.
	ErrDuplicateProfile = errors.New("duplicate profile")
)

//go:embed builtin.yaml
var builtinYAML []byte

// Builtin returns the profiles shipped with the binary.
func Builtin() *Definition {
	def, err := Parse(builtinYAML)
	if err != nil {
		panic(err)
	}

	return def
}

// Parse decodes and validates a profile file. Unknown fields are rejected.
func Parse(data []byte) (*Definition, error) {
	var def Definition

	if err := yaml.UnmarshalWithOptions(data, &def, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidYaml, yaml.FormatError(err, false, true))
	}

	if len(def.Profiles) == 0 {
		return nil, ErrNoProfiles
	}

	if err := def.Validate(); err != nil {
		return nil, err
	}

	return &def, nil
}

// Load reads and parses one profile file.
func Load(path string) (*Definition, error) {
	content, err := afero.ReadFile(FsFactory(), path)
	if err != nil {
		return nil, errors.Join(ErrReadFile, err)
	}

	def, err := Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return def, nil
}

// LoadDir merges every profile file in dir. A profile name may only be defined once.
func LoadDir(dir string) (*Definition, error) {
	matches, err := afero.Glob(FsFactory(), filepath.Join(dir, "*"+FileExt))
	if err != nil {
		// the only error we expect here is ErrBadPattern, which should never happen as it is a constant.
		panic(err)
	}

	if len(matches) == 0 {
		return nil, ErrNoProfileFile
	}

	var (
		result *multierror.Error
		from   = make(map[string]string)
	)

	merged := &Definition{
		Name:     filepath.Base(dir),
		Profiles: make(map[string]Profile),
	}

	for _, filename := range matches {
		def, err := Load(filename)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}

		for _, name := range def.Names() {
			if prev, ok := from[name]; ok {
				result = multierror.Append(result,
					fmt.Errorf("%w: %q in %s and %s", ErrDuplicateProfile, name, prev, filename))

				continue
			}

			from[name] = filename
			merged.Profiles[name] = def.Profiles[name]
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}

	return merged, nil
}

// Resolve loads path as a directory of profile files or as a single file.
// An empty path selects the builtin profiles.
func Resolve(path string) (*Definition, error) {
	if path == "" {
		return Builtin(), nil
	}

	info, err := FsFactory().Stat(path)
	if err != nil {
		return nil, errors.Join(ErrReadFile, err)
	}

	if info.IsDir() {
		return LoadDir(path)
	}

	return Load(path)
}
