package race

import "errors"

// ErrInvalidConfiguration indicates a race could not be created from the given config.
var ErrInvalidConfiguration = errors.New("invalid race configuration")

// ErrDeadRace indicates too few entrants remain to ever fill the winner list.
var ErrDeadRace = errors.New("race can no longer complete")

// ErrRaceComplete indicates the winner list is already full.
var ErrRaceComplete = errors.New("race is already complete")

// ErrInvalidRoll indicates a random source produced a value outside 1-6.
var ErrInvalidRoll = errors.New("roll must be between 1 and 6")

// ErrRoundLimit indicates Run gave up before the race completed.
var ErrRoundLimit = errors.New("round limit reached")
