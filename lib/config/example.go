package config

// ExampleConfig is a complete configuration file for a two-dimensional dam
// break: a column of water and the air above it, in a tank with solid walls,
// with a pressure probe on the right wall.
const ExampleConfig = `[Simulation]

#######################
# Required Parameters #
#######################

# Number of spatial dimensions. Must be 2 or 3.
Dim = 2
# Initial particle spacing, shared by every body.
Spacing = 0.05
# Physical time at which the simulation stops.
EndTime = 20
# The largest flow speed you expect. It sets the artificial sound speed of
# every fluid (10 * UMax, unless a body sets SoundSpeed) and bounds the
# advection time step.
UMax = 3.8
# Directory which restart files and time series are written to.
Output = path/to/output/dir

#######################
# Optional Parameters #
#######################

# Physical time between calls to the output recorders (observers, energies).
# Zero writes output after every step.
# OutputInterval = 0.1

# Steps between status lines. Zero turns them off.
# ScreenInterval = 100

# Steps between restart files. Zero turns them off.
# RestartInterval = 1000
# Resume from the restart files written at this step.
# RestartStep = 0

# Rebuilds of the cell-linked lists between reorderings of particles by cell.
# Zero never reorders.
# SortPeriod = 100

# Number of threads. -1 uses every core.
# Threads = -1

# Smoothing length as a multiple of Spacing.
# SmoothingLengthRatio = 1.3
# Replaces the Wendland kernel with a spline table of it.
# TabulatedKernel = false
# Corrects pressure gradients with the inverse kernel moment matrix.
# KernelCorrection = false
# Shifts particles away from clumps with the transport velocity correction.
# TransportCorrection = false

# Neighbor count which is treated as a sign of particle clumping. Zero turns
# the check off.
# MaxNeighbors = 0
# What happens when a check fails. Must be one of [ Crash | Warn ].
# Strictness = Crash

[Domain]
# The region which particles are expected to stay in. Particles can leave,
# but neighbor searches become slower.
X = -0.2
Y = -0.2
XWidth = 5.766
YWidth = 5.766

[Gravity]
X = 0
Y = -9.81
# Used when a body has SelfGravity = true.
# Constant = 6.674e-11
# Softening = 0.01

[Body "water"]
# Must be one of [ Fluid | Solid ].
Role = Fluid
Density = 1000
# Particles fill this box on a lattice...
X = 0
Y = 0
XWidth = 2
YWidth = 1
# ...unless a text file with one position per line is given instead.
# PositionFile = path/to/positions.txt
# Never let density summation fall below Density, for fluids with a free
# surface.
FreeSurface = true
# Record the total mechanical energy of the body.
Energy = true
# SelfGravity = false
# SoundSpeed = 38

[Body "air"]
Role = Fluid
Density = 1
X = 0
Y = 0
XWidth = 5.366
YWidth = 5.366
# Leaves out the lattice points inside other bodies' boxes. Repeat the line
# to exclude more bodies.
Exclude = water

[Body "wall"]
Role = Solid
Density = 1000
X = 0
Y = 0
XWidth = 5.366
YWidth = 5.366
# Solid bodies with a WallThickness are hollow: particles fill a shell of
# this thickness around the box.
WallThickness = 0.2

[Observer "probe"]
# Bodies which are sampled. Repeat the line to add more.
Target = water
Target = air
# One line per probe point.
X = 5.366
Y = 0.2
# Field which is sampled.
# Quantity = Pressure
`
