//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

const binary = "bin/oxy-lite"

type Build mg.Namespace

// Tidies modules and builds the oxy-lite binary into bin/.
func (Build) Binary() error {
	if _, err := executeCmd("go", withArgs("mod", "tidy")); err != nil {
		return err
	}
	_, err := executeCmd("go", withArgs("build", "-o", binary, "./cmd/oxy-lite"), withStream())
	return err
}

// Runs go vet over every package.
func (Build) Vet() error {
	_, err := executeCmd("go", withArgs("vet", "./..."), withStream())
	return err
}

type Test mg.Namespace

// Runs the unit tests. None of them need a GPU or a display.
func (Test) Unit() error {
	_, err := executeCmd("go", withArgs("test", "./..."), withStream())
	return err
}

// Runs the unit tests with the race detector.
func (Test) Race() error {
	_, err := executeCmd("go", withArgs("test", "-race", "./..."), withStream(), withEnv("CGO_ENABLED=1"))
	return err
}
