package validations

// Validations holds the check steps that passed, plus FValid once the recipient was accepted
type Validations uint8

// String lists the names of the passed steps, e.g. "valid,syntax,lookup,connect,rcpt"
func (v Validations) String() string {
	return Flag(v).String()
}

// IsValid returns true if the Validations are considered successful
func (v Validations) IsValid() bool {
	return Flag(v)&FValid == FValid
}

// MarkAsInvalid clears the FValid bit and marks the Validations as invalid
func (v *Validations) MarkAsInvalid() {
	*v &^= Validations(FValid)
}

// MarkAsValid sets the FValid bit and marks the Validations as valid
func (v *Validations) MarkAsValid() {
	*v |= Validations(FValid)
}

// SetFlag defines a flag on the type and returns a copy
func (v *Validations) SetFlag(new Flag) Validations {
	*v |= Validations(new)

	return *v
}

// HasFlag returns true if the type has the flag (or flags) specified
func (v Validations) HasFlag(f Flag) bool {
	return v&Validations(f) != 0
}

// RemoveFlag returns a copy without the flag (or flags) specified
func (v Validations) RemoveFlag(f Flag) Validations {
	return v &^ Validations(f)
}
