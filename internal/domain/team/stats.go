package team

// CareerStats is the cumulative per-player tally across all finalized matches.
type CareerStats struct {
	Goals         int
	Assists       int
	YellowCards   int
	RedCards      int
	Fouls         int
	Corners       int
	ThrowIns      int
	MatchesPlayed int
}

// StatsDelta is an additive change to CareerStats. MatchID identifies the
// finalized match that produced it; a store applies a given MatchID at most
// once per player.
type StatsDelta struct {
	MatchID       string
	Goals         int
	Assists       int
	YellowCards   int
	RedCards      int
	Fouls         int
	Corners       int
	ThrowIns      int
	MatchesPlayed int
}

func (d StatsDelta) IsZero() bool {
	return d.Goals == 0 &&
		d.Assists == 0 &&
		d.YellowCards == 0 &&
		d.RedCards == 0 &&
		d.Fouls == 0 &&
		d.Corners == 0 &&
		d.ThrowIns == 0 &&
		d.MatchesPlayed == 0
}

func (d StatsDelta) Validate() error {
	if d.Goals < 0 || d.Assists < 0 || d.YellowCards < 0 || d.RedCards < 0 ||
		d.Fouls < 0 || d.Corners < 0 || d.ThrowIns < 0 || d.MatchesPlayed < 0 {
		return ErrNegativeDelta
	}
	return nil
}

// ApplyTo returns s with the delta added.
func (d StatsDelta) ApplyTo(s CareerStats) CareerStats {
	return CareerStats{
		Goals:         s.Goals + d.Goals,
		Assists:       s.Assists + d.Assists,
		YellowCards:   s.YellowCards + d.YellowCards,
		RedCards:      s.RedCards + d.RedCards,
		Fouls:         s.Fouls + d.Fouls,
		Corners:       s.Corners + d.Corners,
		ThrowIns:      s.ThrowIns + d.ThrowIns,
		MatchesPlayed: s.MatchesPlayed + d.MatchesPlayed,
	}
}
