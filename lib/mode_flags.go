package lib

// CheckStrictness indicates how functions related to the "check" mode should
// behave when they encounter an error.
type CheckStrictness int

const (
	CrashOnError CheckStrictness = iota
	WarnOnError
)
