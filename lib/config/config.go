/*package config contains the structs which multiphase configuration files
are read into, along with their default values and validation. Configuration
files use the gcfg (INI-like) format. See ExampleConfig for every supported
variable.*/
package config

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/gcfg.v1"

	"github.com/phil-mansfield/multiphase/lib/body"
	"github.com/phil-mansfield/multiphase/lib/geom"
)

// Config is the full contents of a configuration file. Body and Observer map
// subsection names to their sections.
type Config struct {
	Simulation SimulationConfig
	Domain     BoxConfig
	Gravity    GravityConfig

	Body     map[string]*BodyConfig
	Observer map[string]*ObserverConfig
}

type SimulationConfig struct {
	// Required
	Dim                    int
	Spacing, EndTime, UMax float64
	Output                 string

	// Optional
	OutputInterval       float64
	ScreenInterval       int
	RestartInterval      int
	RestartStep          int
	SortPeriod           int
	Threads              int
	SmoothingLengthRatio float64
	TabulatedKernel      bool
	KernelCorrection     bool
	TransportCorrection  bool
	MaxNeighbors         int
	Strictness           string
}

// BoxConfig describes an axis-aligned box by its lower corner and widths.
type BoxConfig struct {
	X, Y, Z                float64
	XWidth, YWidth, ZWidth float64
}

type GravityConfig struct {
	// Uniform gravitational acceleration.
	X, Y, Z float64
	// Constant and Softening are used when measuring self-gravity.
	Constant, Softening float64
}

type BodyConfig struct {
	BoxConfig

	// Required
	Role    string
	Density float64

	// Optional
	SoundSpeed    float64
	WallThickness float64
	PositionFile  string
	Exclude       []string
	FreeSurface   bool
	Energy        bool
	SelfGravity   bool

	// Set by CheckInit
	Name string
	Type body.Role
}

type ObserverConfig struct {
	// Required
	Target  []string
	X, Y, Z []float64

	// Optional
	Quantity string

	// Set by CheckInit
	Name string
}

// Default returns a Config with every optional variable set to its default.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Dim:                  2,
			OutputInterval:       0,
			ScreenInterval:       100,
			RestartInterval:      0,
			RestartStep:          0,
			SortPeriod:           100,
			Threads:              -1,
			SmoothingLengthRatio: 1.3,
			Strictness:           "Crash",
		},
	}
}

// ReadFile reads a configuration file on top of the defaults. The result
// has not been validated.
func ReadFile(fname string) (*Config, error) {
	c := Default()
	if err := gcfg.ReadFileInto(c, fname); err != nil {
		return nil, err
	}
	return c, nil
}

// ReadString is identical to ReadFile, but reads from a string.
func ReadString(text string) (*Config, error) {
	c := Default()
	if err := gcfg.ReadStringInto(c, text); err != nil {
		return nil, err
	}
	return c, nil
}

// Override is a single variable set outside of the config file, e.g. on the
// command line. An empty Section means Simulation.
type Override struct {
	Section, Subsection, Key, Value string
}

// Apply sets the overridden variables.
func (c *Config) Apply(overrides []Override) error {
	if len(overrides) == 0 {
		return nil
	}
	sb := &strings.Builder{}
	for _, o := range overrides {
		sec := o.Section
		if sec == "" {
			sec = "Simulation"
		}
		if o.Subsection == "" {
			fmt.Fprintf(sb, "[%s]\n", sec)
		} else {
			fmt.Fprintf(sb, "[%s %q]\n", sec, o.Subsection)
		}
		fmt.Fprintf(sb, "%s = %s\n", o.Key, o.Value)
	}
	if err := gcfg.ReadStringInto(c, sb.String()); err != nil {
		return fmt.Errorf("applying overrides: %w", err)
	}
	return nil
}

// Box returns the box as a geom.Box.
func (box *BoxConfig) Box() geom.Box {
	lo := geom.Vec{X: box.X, Y: box.Y, Z: box.Z}
	return geom.Box{
		Lower: lo,
		Upper: lo.Add(geom.Vec{X: box.XWidth, Y: box.YWidth, Z: box.ZWidth}),
	}
}

func (box *BoxConfig) CheckInit(name string, dim int) error {
	w := [3]float64{box.XWidth, box.YWidth, box.ZWidth}
	for k := 0; k < dim; k++ {
		if w[k] <= 0 {
			return fmt.Errorf("Need to specify a positive %cWidth for %s.",
				"XYZ"[k], name)
		}
	}
	return nil
}

func (sim *SimulationConfig) CheckInit() error {
	switch {
	case sim.Dim != 2 && sim.Dim != 3:
		return fmt.Errorf("Dim must be 2 or 3, but is %d.", sim.Dim)
	case sim.Spacing <= 0:
		return fmt.Errorf("Need to specify a positive Spacing.")
	case sim.EndTime <= 0:
		return fmt.Errorf("Need to specify a positive EndTime.")
	case sim.UMax <= 0:
		return fmt.Errorf("Need to specify a positive UMax, the largest " +
			"expected flow speed.")
	case sim.Output == "":
		return fmt.Errorf("Need to specify an Output directory.")
	case sim.OutputInterval < 0:
		return fmt.Errorf("OutputInterval must be non-negative, but is %g.",
			sim.OutputInterval)
	case sim.ScreenInterval < 0:
		return fmt.Errorf("ScreenInterval must be non-negative, but is %d.",
			sim.ScreenInterval)
	case sim.RestartInterval < 0:
		return fmt.Errorf("RestartInterval must be non-negative, but is %d.",
			sim.RestartInterval)
	case sim.RestartStep < 0:
		return fmt.Errorf("RestartStep must be non-negative, but is %d.",
			sim.RestartStep)
	case sim.Threads == 0 || sim.Threads < -1:
		return fmt.Errorf("Threads must be positive or -1, but is %d.",
			sim.Threads)
	case sim.SmoothingLengthRatio <= 0:
		return fmt.Errorf("SmoothingLengthRatio must be positive, but is %g.",
			sim.SmoothingLengthRatio)
	case sim.MaxNeighbors < 0:
		return fmt.Errorf("MaxNeighbors must be non-negative, but is %d.",
			sim.MaxNeighbors)
	}

	s := strings.ToLower(strings.TrimSpace(sim.Strictness))
	if s != "crash" && s != "warn" {
		return fmt.Errorf("Strictness must be one of [Crash | Warn]. '%s' "+
			"is not recognized.", sim.Strictness)
	}
	return nil
}

// Crash returns true if the Strictness is Crash.
func (sim *SimulationConfig) Crash() bool {
	return strings.ToLower(strings.TrimSpace(sim.Strictness)) == "crash"
}

func (b *BodyConfig) CheckInit(name string, dim int) error {
	role, err := body.ParseRole(b.Role)
	if err != nil {
		return fmt.Errorf("Body '%s': %w.", name, err)
	} else if role == body.Observer {
		return fmt.Errorf("Body '%s' has Role = Observer. Observers are "+
			"declared in [Observer] sections.", name)
	}
	b.Name, b.Type = name, role

	if b.Density <= 0 {
		return fmt.Errorf("Need to specify a positive Density for Body '%s'.",
			name)
	} else if b.SoundSpeed < 0 {
		return fmt.Errorf("Body '%s' given a negative SoundSpeed, %g.",
			name, b.SoundSpeed)
	} else if b.WallThickness < 0 {
		return fmt.Errorf("Body '%s' given a negative WallThickness, %g.",
			name, b.WallThickness)
	}

	if b.PositionFile == "" {
		return b.BoxConfig.CheckInit(fmt.Sprintf("Body '%s'", name), dim)
	}
	return nil
}

func (obs *ObserverConfig) CheckInit(name string, dim int) error {
	obs.Name = name
	if len(obs.Target) == 0 {
		return fmt.Errorf("Need to specify at least one Target for "+
			"Observer '%s'.", name)
	}
	if obs.Quantity == "" {
		obs.Quantity = body.PressureName
	}
	switch obs.Quantity {
	case body.DensityName, body.PressureName, body.MassName,
		body.VolumeName, body.DensityChangeRateName:
	default:
		return fmt.Errorf("Quantity of Observer '%s' must be one of [ %s | "+
			"%s | %s | %s | %s ]. '%s' is not recognized.", name,
			body.DensityName, body.PressureName, body.MassName,
			body.VolumeName, body.DensityChangeRateName, obs.Quantity)
	}

	n := len(obs.X)
	if n == 0 {
		return fmt.Errorf("Need to specify at least one point for "+
			"Observer '%s'.", name)
	} else if len(obs.Y) != n || (dim == 3 && len(obs.Z) != n) {
		return fmt.Errorf("Observer '%s' has %d X values, %d Y values and "+
			"%d Z values.", name, len(obs.X), len(obs.Y), len(obs.Z))
	}
	return nil
}

// Points returns the positions of an observer's particles.
func (obs *ObserverConfig) Points() []geom.Vec {
	xs := make([]geom.Vec, len(obs.X))
	for i := range xs {
		xs[i] = geom.Vec{X: obs.X[i], Y: obs.Y[i]}
		if i < len(obs.Z) {
			xs[i].Z = obs.Z[i]
		}
	}
	return xs
}

// CheckInit validates every section and fills in values which depend on
// other sections.
func (c *Config) CheckInit() error {
	if err := c.Simulation.CheckInit(); err != nil {
		return err
	}
	dim := c.Simulation.Dim
	if err := c.Domain.CheckInit("the Domain", dim); err != nil {
		return err
	}

	if len(c.Body) == 0 {
		return fmt.Errorf("Need to specify at least one [Body] section.")
	}
	nFluid := 0
	for _, name := range c.BodyNames() {
		b := c.Body[name]
		if err := b.CheckInit(name, dim); err != nil {
			return err
		}
		if b.Type == body.Fluid {
			nFluid++
		}
	}
	if nFluid == 0 {
		return fmt.Errorf("Need to specify at least one Body with " +
			"Role = Fluid.")
	}

	for _, name := range c.BodyNames() {
		for _, ex := range c.Body[name].Exclude {
			other, ok := c.Body[ex]
			if !ok {
				return fmt.Errorf("Body '%s' excludes '%s', which is not a "+
					"Body.", name, ex)
			} else if other.PositionFile != "" {
				return fmt.Errorf("Body '%s' excludes '%s', which is read "+
					"from a PositionFile instead of filling a box.", name, ex)
			}
		}
	}

	for _, name := range c.ObserverNames() {
		obs := c.Observer[name]
		if _, ok := c.Body[name]; ok {
			return fmt.Errorf("Observer '%s' has the same name as a Body.",
				name)
		}
		if err := obs.CheckInit(name, dim); err != nil {
			return err
		}
		for _, target := range obs.Target {
			if _, ok := c.Body[target]; !ok {
				return fmt.Errorf("Observer '%s' targets '%s', which is not "+
					"a Body.", name, target)
			}
		}
	}

	if c.Gravity.Softening < 0 {
		return fmt.Errorf("Gravity Softening must be non-negative, but "+
			"is %g.", c.Gravity.Softening)
	}
	return nil
}

// BodyNames returns the names of every Body section in sorted order.
func (c *Config) BodyNames() []string { return sortedKeys(c.Body) }

// ObserverNames returns the names of every Observer section in sorted order.
func (c *Config) ObserverNames() []string { return sortedKeys(c.Observer) }

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
