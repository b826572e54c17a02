//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
)

type Build mg.Namespace

// Builds the gamesystem binary with the GLFW platform.
func (Build) Binary() error {
	if _, err := executeCmd("go", withArgs("build", "-o", "bin/gamesystem", "."), withStream()); err != nil {
		return err
	}
	return nil
}

// Builds the gamesystem binary with the SDL2 platform.
func (Build) SDL() error {
	if _, err := executeCmd("go", withArgs("build", "-tags", "sdl", "-o", "bin/gamesystem-sdl", "."), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs go mod tidy and the unit tests.
func Test() error {
	if err := goTidy(); err != nil {
		return err
	}
	if _, err := executeCmd("go", withArgs("test", "./..."), withStream()); err != nil {
		return err
	}
	return nil
}
