package quiz

// RevealFlags tells presentation code how to highlight one option.
type RevealFlags struct {
	ShowGreen bool `json:"showGreen"`
	ShowRed   bool `json:"showRed"`
	ShowBlue  bool `json:"showBlue"`
}

// DeriveRevealFlags computes the highlight for optionIndex from the question state.
// Nothing is revealed until the question is locked; an unlocked timesUp frame stays blank.
func DeriveRevealFlags(optionIndex, answerIndex int, selectedIndex *int, locked, timesUp bool) RevealFlags {
	if !locked {
		return RevealFlags{}
	}
	if timesUp {
		return RevealFlags{ShowBlue: optionIndex == answerIndex}
	}
	if selectedIndex == nil {
		return RevealFlags{}
	}
	return RevealFlags{
		ShowGreen: optionIndex == answerIndex,
		ShowRed:   optionIndex == *selectedIndex && *selectedIndex != answerIndex,
	}
}
