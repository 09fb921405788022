package race

// Entrant is a single horse. ID is the creation index and the only identity
// used for membership checks.
type Entrant struct {
	ID           int
	Name         string
	Speed        int
	Distance     int
	Disqualified bool
	// FinishedRound is the 1-based round the entrant crossed the line, 0 if it
	// has not finished.
	FinishedRound int
}

func (e Entrant) Finished() bool {
	return e.FinishedRound > 0
}

// Active reports whether the entrant still rolls each round.
func (e Entrant) Active() bool {
	return !e.Disqualified && !e.Finished()
}
