/*package lib contains the functions which turn a configuration file into a
running multiphase simulation: command line parsing, configuration checking
and the assembly of bodies, relations, operators and recorders into a
System. Almost all of the heavy lifting is done by lib/'s subpackages.
*/
package lib

var (
	// Version is the version of the software. Restart files carry their own
	// format version, see lib/restart.
	Version uint64 = 0x1
)
