package main

import (
	"fmt"
	"os"

	"github.com/phil-mansfield/multiphase/lib"
	"github.com/phil-mansfield/multiphase/lib/config"
	"github.com/phil-mansfield/multiphase/lib/error"
	"github.com/phil-mansfield/multiphase/lib/restart"
	"github.com/phil-mansfield/multiphase/lib/thread"
)

const helpText = `multiphase runs multiphase particle (SPH) simulations.

Usage:
    multiphase <mode> <config file> [--<Arg1> <Value1>] [--<Arg2> <Value2>]

Modes:
    help     Prints this message.
    example  Prints an example config file with every variable documented.
    check    Checks a config file for errors without running it.
    run      Runs the simulation described by a config file.
    info     Prints the header of a restart file (given in place of the
             config file).

Arguments override config variables. --Key sets a [Simulation] variable,
--Section.Key sets a variable in another section, and
--Section.Subsection.Key sets a variable in a named section, e.g.
--Body.water.Density 1000.
`

func main() {
	// Parse arguments.
	mode, configFile, overrides, err := lib.ParseCommandLine(os.Args[1:])
	if err != nil {
		error.External("%s", err.Error())
	}

	// Run the chosen mode.
	switch mode {
	case "help":
		fmt.Print(helpText)
	case "example":
		fmt.Print(config.ExampleConfig)
	case "check":
		Check(readConfig(configFile, overrides))
	case "run":
		Run(readConfig(configFile, overrides))
	case "info":
		Info(configFile)
	default:
		error.External(
			"You attempted to run multiphase in the mode '%s', but the "+
				"only valid modes are 'help', 'example', 'check', 'run', "+
				"and 'info'.", mode,
		)
	}
}

func readConfig(fname string, overrides []config.Override) *config.Config {
	if fname == "" {
		error.External("No config file was given.")
	}
	c, err := config.ReadFile(fname)
	if err != nil {
		error.External("Could not read config file %s: %s", fname, err.Error())
	}
	if err := c.Apply(overrides); err != nil {
		error.External("%s", err.Error())
	}
	return c
}

// Check runs multiphase's "check" mode which tests for errors in the
// configuration.
func Check(c *config.Config) {
	strictness := lib.CrashOnError
	if !c.Simulation.Crash() {
		strictness = lib.WarnOnError
	}
	if lib.Check(c, strictness) {
		fmt.Println("No errors detected.")
	}
}

// Run runs multiphase's "run" mode, which runs a simulation to its end time.
func Run(c *config.Config) {
	lib.Check(c, lib.CrashOnError)
	thread.Set(c.Simulation.Threads)

	s, err := lib.NewSystem(c)
	if err != nil {
		error.External("%s", err.Error())
	}
	if err := s.Run(); err != nil {
		s.Close()
		error.External("%s", err.Error())
	}
	if err := s.Close(); err != nil {
		error.External("%s", err.Error())
	}
}

// Info runs multiphase's "info" mode, which prints the contents of a restart
// file's header.
func Info(fname string) {
	if fname == "" {
		error.External("No restart file was given.")
	}
	hd, err := restart.ReadHeaderFile(fname)
	if err != nil {
		error.External("Could not read restart file %s: %s", fname, err.Error())
	}

	fmt.Printf("Iterations:   %d\n", hd.Iterations)
	fmt.Printf("PhysicalTime: %g\n", hd.PhysicalTime)
	fmt.Printf("Particles:    %d\n", hd.N)
	fmt.Println("Fields:")
	for i, name := range hd.Names {
		fmt.Printf("    %-24s %s\n", name, hd.Categories[i])
	}
}
