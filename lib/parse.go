package lib

import (
	"fmt"
	"strings"

	"github.com/phil-mansfield/multiphase/lib/config"
)

// ParseCommandLine parses the command line arguments (without the program
// name) and returns the mode multiphase is being run in, the name of the
// config file, and any variables which were overridden. Expects that the
// arguments are presented in the order:
// $ multiphase <mode> <config file> [--<Arg1> <Value1>] [--<Arg2> <Value2>]
//
// Arguments name Simulation variables by default. Other sections are named
// with dots: --Gravity.Y -9.81 or --Body.water.Density 1000.
func ParseCommandLine(args []string) (mode, configFile string, overrides []config.Override, err error) {
	if len(args) == 0 {
		return "", "", nil, fmt.Errorf("No mode was given. Run " +
			"'multiphase help' for usage.")
	}
	mode = args[0]
	if len(args) == 1 {
		return mode, "", nil, nil
	}
	configFile = args[1]

	rest := args[2:]
	for i := 0; i < len(rest); i += 2 {
		if !strings.HasPrefix(rest[i], "--") {
			return "", "", nil, fmt.Errorf("Expected an argument of the "+
				"form --<name>, but got '%s'.", rest[i])
		} else if i+1 >= len(rest) {
			return "", "", nil, fmt.Errorf("The argument '%s' has no value.",
				rest[i])
		}

		o, err := parseOverride(strings.TrimPrefix(rest[i], "--"), rest[i+1])
		if err != nil {
			return "", "", nil, err
		}
		overrides = append(overrides, o)
	}

	return mode, configFile, overrides, nil
}

func parseOverride(name, value string) (config.Override, error) {
	tok := strings.Split(name, ".")
	switch len(tok) {
	case 1:
		return config.Override{Key: tok[0], Value: value}, nil
	case 2:
		return config.Override{Section: tok[0], Key: tok[1], Value: value}, nil
	case 3:
		return config.Override{
			Section: tok[0], Subsection: tok[1], Key: tok[2], Value: value,
		}, nil
	}
	return config.Override{}, fmt.Errorf("The argument '--%s' has too many "+
		"dots. It must look like --Key, --Section.Key or "+
		"--Section.Subsection.Key.", name)
}
