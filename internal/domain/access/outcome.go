package access

// Outcome is what one evaluation step produces: either a decisive result that ends
// evaluation, or a soft result that lets the next step run. The carried decision of a
// Continue outcome is kept for logging; it is never returned to callers directly.
type Outcome struct {
	decision Decision
	decisive bool
}

// Decisive ends evaluation with d.
func Decisive(d Decision) Outcome {
	return Outcome{decision: d, decisive: true}
}

// Continue passes control to the next step, remembering why this step did not decide.
func Continue(reason Reason) Outcome {
	return Outcome{decision: Deny(reason)}
}

func (o Outcome) IsDecisive() bool {
	return o.decisive
}

func (o Outcome) Decision() Decision {
	return o.decision
}
