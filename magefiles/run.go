//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Opens the window with the bundled configuration.
func (Run) Engine() error {
	mg.Deps(Build.Binary)
	fmt.Println("Run engine...")
	_, err := executeCmd(binary, withArgs("--config", "resources/config.toml"), withStream())
	return err
}

// Checks the bundled geometry and shader without opening a window.
func (Run) Validate() error {
	_, err := executeCmd("go", withArgs("run", "./cmd/oxy-lite", "validate", "--config", "resources/config.toml"), withStream())
	return err
}
