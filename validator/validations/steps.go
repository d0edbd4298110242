package validations

// Steps holds the check steps that were attempted, they do not signify validity. Comparing Steps with Validations
// tells at which step a check stopped.
type Steps uint8

// String lists the names of the attempted steps, e.g. "syntax,lookup"
func (v Steps) String() string {
	return Flag(v).String()
}

// HasBeenValidated returns true if any step was attempted
func (v Steps) HasBeenValidated() bool {
	return v > 0
}

// SetFlag marks a step as attempted and returns a copy
func (v *Steps) SetFlag(new Flag) Steps {
	*v |= Steps(new)

	return *v
}

// HasFlag returns true if the step (or all of the steps) specified were attempted
func (v Steps) HasFlag(f Flag) bool {
	return f != 0 && v&Steps(f) == Steps(f)
}

// FailedAt returns the first attempted step that didn't pass, or 0 when every attempted step passed
func (v Steps) FailedAt(passed Validations) Flag {
	failed := Flag(v) &^ Flag(passed)
	return failed & -failed
}
