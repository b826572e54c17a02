//go:build mage

package main

import (
	"fmt"

	"github.com/magefile/mage/mg"
)

type Run mg.Namespace

// Runs the testbed game in a window.
func (Run) Testbed() error {
	fmt.Println("Run testbed...")
	if _, err := executeCmd("go", withArgs("run", ".", "--windowed"), withStream()); err != nil {
		return err
	}
	return nil
}

// Runs the testbed game and reloads ./gamesystem.toml when it changes.
func (Run) Watch() error {
	mg.Deps(Build.Binary)
	if _, err := executeCmd("bin/gamesystem", withArgs("--config", "gamesystem.toml", "--watch"), withStream()); err != nil {
		return err
	}
	return nil
}
