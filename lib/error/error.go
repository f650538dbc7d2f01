/*package error contains simple functions for reporting multiphase errors.

There are two kinds of fatal errors. External errors are things a user could
reasonably be expected to fix by changing a configuration file or the data on
disk. Internal errors are invariant violations that require a code dive: a
field array with the wrong length, a relation read after its cell list was
rebuilt, and so on.
*/
package error

import (
	"fmt"
	"log"
	"os"
)

// InternalError is the value that Internal panics with.
type InternalError struct {
	Msg string
}

func (e *InternalError) Error() string {
	return "multiphase internal error: " + e.Msg
}

// External reports an error to stderr and kills the program. It should be used
// when an error is something a user could reasonbly be expected to fix through
// changes in configuration/data/environment. It has the same signature as the
// standard fmt.*printf() functions.
func External(format string, a ...interface{}) {
	log.Printf("multiphase exited early with the following error:\n"+format, a...)
	os.Exit(1)
}

// Internal reports an invariant violation. It panics with an *InternalError so
// that the runtime prints a stack trace, which is what you want for an error
// that needs a code dive to fix. It has the same signature as the standard
// fmt.*printf() functions.
func Internal(format string, a ...interface{}) {
	panic(&InternalError{fmt.Sprintf(format, a...)})
}

// Warning reports a recoverable problem and keeps going.
func Warning(format string, a ...interface{}) {
	log.Printf("Warning: "+format, a...)
}
