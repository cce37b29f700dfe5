//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Builds the meshlens CLI into bin/.
func (Build) CLI() error {
	_, err := executeCmd("go", withArgs("build", "-o", filepath.Join("bin", "meshlens"), "./cmd/meshlens"), withStream())
	return err
}

// Builds the desktop app with the wails toolchain.
func (Build) App() error {
	_, err := executeCmd("wails", withArgs("build", "-clean"), withStream())
	return err
}

// Writes every reference solid to samples/ as binary STL.
func (Build) Samples() error {
	mg.Deps(Build.CLI)
	if err := os.MkdirAll("samples", 0o755); err != nil {
		return err
	}
	for _, name := range []string{"box", "cylinder", "bracket"} {
		out := filepath.Join("samples", name+".stl")
		if _, err := executeCmd(filepath.Join("bin", "meshlens"), withArgs("sample", name, "-o", out)); err != nil {
			return fmt.Errorf("sample %s: %w", name, err)
		}
	}
	return nil
}
