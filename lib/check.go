package lib

/* check.go contains the core functions of multiphase's "check" mode. */

import (
	"fmt"
	"os"

	"github.com/phil-mansfield/multiphase/lib/config"
	m_error "github.com/phil-mansfield/multiphase/lib/error"
	"github.com/phil-mansfield/multiphase/lib/restart"
)

// Check runs the "check" command on a config. It validates the config and
// then confirms that every file and directory it refers to exists. This
// function will either crash upon encountering an error or will print a
// warning, depending on strictness. If Check completes, it returns true if
// all tests passed and false otherwise.
func Check(c *config.Config, strictness CheckStrictness) bool {
	errs := []error{}
	if err := c.CheckInit(); err != nil {
		errs = append(errs, err)
	} else {
		errs = append(errs, checkFiles(c)...)
	}

	for _, err := range errs {
		if strictness == CrashOnError {
			m_error.External("%s", err.Error())
		}
		m_error.Warning("%s", err.Error())
	}
	return len(errs) == 0
}

// checkFiles returns an error for every missing file. c must already have
// been initialized.
func checkFiles(c *config.Config) []error {
	errs := []error{}

	if info, err := os.Stat(c.Simulation.Output); err != nil {
		errs = append(errs, fmt.Errorf("The Output directory '%s' cannot "+
			"be opened: %w.", c.Simulation.Output, err))
	} else if !info.IsDir() {
		errs = append(errs, fmt.Errorf("The Output '%s' is not a directory.",
			c.Simulation.Output))
	}

	for _, name := range c.BodyNames() {
		fname := c.Body[name].PositionFile
		if fname == "" {
			continue
		}
		if _, err := os.Stat(fname); err != nil {
			errs = append(errs, fmt.Errorf("The PositionFile of Body '%s' "+
				"cannot be opened: %w.", name, err))
		}
	}

	if step := c.Simulation.RestartStep; step > 0 {
		names := append(c.BodyNames(), c.ObserverNames()...)
		for _, name := range names {
			fname := restart.FileName(c.Simulation.Output, name, step)
			if _, err := os.Stat(fname); err != nil {
				errs = append(errs, fmt.Errorf("RestartStep = %d, but the "+
					"restart file of '%s' cannot be opened: %w.",
					step, name, err))
			}
		}
	}

	return errs
}
