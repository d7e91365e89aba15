package lease

// Runway summarizes how much lease term remains, counting renewal options.
type Runway struct {
	CurrentTermRemaining int
	OptionsUsed          int
	OptionsRemaining     int
	MaxTotalRunway       int
}

// ComputeRunway derives the runway when the tenant is still inside the
// original term.
func ComputeRunway(currentTermRemaining, totalOptions, optionTerm int) Runway {
	return Runway{
		CurrentTermRemaining: currentTermRemaining,
		OptionsUsed:          0,
		OptionsRemaining:     totalOptions,
		MaxTotalRunway:       currentTermRemaining + totalOptions*optionTerm,
	}
}

// ComputeRunwayInOption derives the runway when the tenant is already inside
// its Nth renewal option (1-indexed). yearsElapsed counts from the original
// commencement and originalTerm is the initial term length.
func ComputeRunwayInOption(yearsElapsed, originalTerm, optionNumber, totalOptions, optionTerm int) Runway {
	if optionNumber < 1 {
		optionNumber = 1
	}
	yearsIntoOption := yearsElapsed - originalTerm - (optionNumber-1)*optionTerm
	remaining := optionTerm - yearsIntoOption
	optionsRemaining := totalOptions - optionNumber
	return Runway{
		CurrentTermRemaining: remaining,
		OptionsUsed:          optionNumber,
		OptionsRemaining:     optionsRemaining,
		MaxTotalRunway:       remaining + optionsRemaining*optionTerm,
	}
}
