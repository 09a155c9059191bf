package processor

import (
	"errors"
	"fmt"
	"sync"

	"github.com/XavierBriggs/fortuna/services/scoreboard-broadcaster/internal/commands"
	"github.com/XavierBriggs/fortuna/services/scoreboard-broadcaster/internal/history"
	"github.com/XavierBriggs/fortuna/services/scoreboard-broadcaster/internal/state"
	"github.com/XavierBriggs/fortuna/services/scoreboard-broadcaster/pkg/models"
)

const (
	// T20 innings length in legal deliveries
	inningsBalls = 120

	ballsPerOver = 6

	// Buffer size for queued commands
	inboxSize = 256
)

// Broadcaster receives every new scoreboard after a mutation
type Broadcaster interface {
	Broadcast(state models.MatchState)
}

// Stats holds processor counters
type Stats struct {
	Applied      int64 `json:"commands_applied"`
	NoOps        int64 `json:"commands_noop"`
	Malformed    int64 `json:"commands_malformed"`
	HistoryDepth int   `json:"history_depth"`
}

// Processor owns the live scoreboard and its undo history
type Processor struct {
	store       *state.Store
	history     *history.Stack
	broadcaster Broadcaster

	// Guards snapshot -> mutate -> broadcast
	mu sync.Mutex

	inbox chan commands.Command

	stats   Stats
	statsMu sync.Mutex
}

// New creates a processor seeded with initial
func New(initial models.MatchState, broadcaster Broadcaster) *Processor {
	return &Processor{
		store:       state.New(initial),
		history:     history.NewStack(),
		broadcaster: broadcaster,
		inbox:       make(chan commands.Command, inboxSize),
	}
}

// Current returns a copy of the live scoreboard
func (p *Processor) Current() models.MatchState {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.store.Current()
}

// Apply executes one command and reports whether the scoreboard changed.
// Every command except Undo records a snapshot first; Undo on an empty
// history does nothing and broadcasts nothing.
func (p *Processor) Apply(cmd commands.Command) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := cmd.(commands.Undo); ok {
		return p.undo()
	}

	p.history.Snapshot(p.store.Current())
	p.store.Mutate(func(s *models.MatchState) {
		mutate(s, cmd)
	})

	p.recordApplied()
	p.broadcast()
	return true
}

// RecordMalformed counts a message rejected before reaching Apply
func (p *Processor) RecordMalformed() {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	p.stats.Malformed++
}

// Stats returns a copy of the processor counters
func (p *Processor) Stats() Stats {
	p.mu.Lock()
	depth := p.history.Len()
	p.mu.Unlock()

	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	stats := p.stats
	stats.HistoryDepth = depth
	return stats
}

func (p *Processor) undo() bool {
	previous, err := p.history.Pop()
	if err != nil {
		if errors.Is(err, history.ErrEmptyHistory) {
			p.recordNoOp()
			return false
		}
		panic(fmt.Sprintf("history pop: %v", err))
	}

	p.store.Replace(previous)
	p.recordApplied()
	p.broadcast()
	return true
}

func (p *Processor) broadcast() {
	if p.broadcaster == nil {
		return
	}
	p.broadcaster.Broadcast(p.store.Current())
}

func (p *Processor) recordApplied() {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	p.stats.Applied++
}

func (p *Processor) recordNoOp() {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	p.stats.NoOps++
}

// mutate applies every command except Undo to s in place
func mutate(s *models.MatchState, cmd commands.Command) {
	switch c := cmd.(type) {
	case commands.Runs:
		addRuns(s, c.Value)
	case commands.Wicket:
		addWicket(s)
	case commands.Extras:
		addExtras(s, c.Kind)
	case commands.Rotate:
		rotateStrike(s)
	case commands.CompleteOver:
		completeOver(s)
	case commands.UpdateTeams:
		updateTeams(s, c)
	case commands.UpdatePlayers:
		updatePlayers(s, c)
	case commands.SetTarget:
		setTarget(s, c.Value)
	default:
		panic(fmt.Sprintf("unhandled command %T", cmd))
	}
}

func addRuns(s *models.MatchState, runs int) {
	s.BattingTeam.Runs += runs

	striker := &s.Batsmen[s.StrikerIndex()]
	striker.Runs += runs
	striker.Balls++

	switch runs {
	case 4:
		striker.Fours++
	case 6:
		striker.Sixes++
	}

	s.Bowler.Runs += runs
	s.Bowler.Balls++
	s.BattingTeam.Balls++

	s.CurrentOver = append(s.CurrentOver, models.RunsBall(runs))

	// Negative odd values rotate as well
	if runs%2 != 0 {
		rotateStrike(s)
	}
}

func addWicket(s *models.MatchState) {
	s.BattingTeam.Wickets++
	s.Batsmen[s.StrikerIndex()].Balls++
	s.Bowler.Wickets++
	s.Bowler.Balls++
	s.BattingTeam.Balls++

	s.CurrentOver = append(s.CurrentOver, models.WicketBall())
}

// addExtras concedes a single run. No ball count moves for any kind.
func addExtras(s *models.MatchState, kind models.ExtraKind) {
	const extraRuns = 1

	s.BattingTeam.Runs += extraRuns
	s.Bowler.Runs += extraRuns

	s.CurrentOver = append(s.CurrentOver, models.ExtraBall(kind))
}

func rotateStrike(s *models.MatchState) {
	s.Batsmen[0].OnStrike = !s.Batsmen[0].OnStrike
	s.Batsmen[1].OnStrike = !s.Batsmen[1].OnStrike
}

func completeOver(s *models.MatchState) {
	for _, ball := range s.CurrentOver {
		if ball.CountsAsDelivery() {
			rotateStrike(s)
			break
		}
	}

	s.CurrentOver = []models.BallEvent{}

	s.Bowler.Overs = s.Bowler.Balls / ballsPerOver
	s.BattingTeam.Overs = s.BattingTeam.Balls / ballsPerOver
}

func updateTeams(s *models.MatchState, c commands.UpdateTeams) {
	s.BattingTeam.Name = c.BattingTeam.Name
	s.BattingTeam.Logo = c.BattingTeam.Logo
	s.BowlingTeam.Name = c.BowlingTeam.Name
	s.BowlingTeam.Logo = c.BowlingTeam.Logo
	s.MatchName = c.MatchName
	s.MatchVenue = c.MatchVenue
	s.MatchType = c.MatchType
}

func updatePlayers(s *models.MatchState, c commands.UpdatePlayers) {
	s.Batsmen[0].Name = c.Batsman1
	s.Batsmen[1].Name = c.Batsman2
	s.Bowler.Name = c.Bowler

	// Anything other than batsman1 puts slot 1 on strike
	firstOnStrike := c.Striker == c.Batsman1
	s.Batsmen[0].OnStrike = firstOnStrike
	s.Batsmen[1].OnStrike = !firstOnStrike
}

func setTarget(s *models.MatchState, target *int) {
	s.RequiredRunRate = nil
	if target == nil || *target <= 0 {
		s.BattingTeam.Target = nil
		return
	}

	value := *target
	s.BattingTeam.Target = &value

	ballsRemaining := inningsBalls - s.BattingTeam.Balls
	runsNeeded := value - s.BattingTeam.Runs
	if ballsRemaining > 0 && runsNeeded > 0 {
		rrr := float64(runsNeeded) / float64(ballsRemaining) * ballsPerOver
		s.RequiredRunRate = &rrr
	}
}
