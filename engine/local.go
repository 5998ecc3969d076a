package engine

import (
	"errors"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/szqjl/guandan-score/game"
	"github.com/szqjl/guandan-score/meta"
)

// Kind says which operation produced an update.
type Kind int

const (
	Played Kind = iota
	Undone
	Edited
	Reconfigured
)

func (k Kind) String() string {
	switch k {
	case Played:
		return "played"
	case Undone:
		return "undone"
	case Edited:
		return "edited"
	case Reconfigured:
		return "reconfigured"
	default:
		return "unknown"
	}
}

// Update is published after every successful operation. Session is a copy the
// receiver may keep.
type Update struct {
	Kind       Kind
	Event      game.Event // set for Played
	Session    *game.Session
	Unwinnable game.Unwinnable
}

// UpdateGetter returns the next pending update without blocking, or nil when
// there is none. After the game ends it returns the final update, then nil.
type UpdateGetter func() *Update

type Engine interface {
	Init() (*game.Session, UpdateGetter)
	Play(game.Event) error
}

// Archiver receives every session that reaches an end.
type Archiver interface {
	Archive(*game.Session) error
}

type Option func(e *LocalEngine)

func WithLogger(logger zerolog.Logger) Option {
	return func(e *LocalEngine) {
		e.logger = logger
	}
}

func WithArchiver(a Archiver) Option {
	return func(e *LocalEngine) {
		if a != nil {
			e.archiver = a
		}
	}
}

func WithBuffer(size int) Option {
	return func(e *LocalEngine) {
		if size > 0 {
			e.buffer = size
		}
	}
}

var ErrNotInitialized = errors.New("engine not initialized")

// LocalEngine drives a single session for one writer. It is not safe for
// concurrent use, apart from reading updates through the UpdateGetter.
type LocalEngine struct {
	rules    game.Rules
	session  *game.Session
	updateCh chan Update
	closed   bool
	buffer   int
	logger   zerolog.Logger
	archiver Archiver
}

func NewLocalEngine(rules game.Rules, options ...Option) (*LocalEngine, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	e := &LocalEngine{
		rules:  rules,
		buffer: meta.UPDATE_BUFFER,
		logger: log.Logger,
	}
	for _, option := range options {
		option(e)
	}
	return e, nil
}

// Init starts a new session, discarding any previous one.
func (e *LocalEngine) Init() (*game.Session, UpdateGetter) {
	s, err := game.NewSession(e.rules)
	if err != nil {
		// rules were validated in NewLocalEngine
		panic(err)
	}
	return e.start(s)
}

// Resume continues from an existing session, e.g. one decoded from a snapshot.
func (e *LocalEngine) Resume(s *game.Session) (*game.Session, UpdateGetter, error) {
	if s == nil {
		return nil, nil, errors.New("nil session")
	}
	if err := s.Rules.Validate(); err != nil {
		return nil, nil, err
	}
	e.rules = s.Rules
	session, getUpdate := e.start(s.Copy())
	return session, getUpdate, nil
}

func (e *LocalEngine) start(s *game.Session) (*game.Session, UpdateGetter) {
	e.session = s
	e.updateCh = make(chan Update, e.buffer)
	e.closed = false
	e.logger.Info().Msgf("new session: %s, max rounds %d", s.Rules.Mode, s.Rules.MaxRounds)

	ch := e.updateCh
	return e.session.Copy(), func() *Update {
		select {
		case u, ok := <-ch:
			if !ok { // game over
				return nil
			}
			return &u
		default:
			return nil
		}
	}
}

// Session returns a copy of the current session, or nil before Init.
func (e *LocalEngine) Session() *game.Session {
	if e.session == nil {
		return nil
	}
	return e.session.Copy()
}

func (e *LocalEngine) Play(ev game.Event) error {
	if e.session == nil {
		return ErrNotInitialized
	}
	next, err := e.session.Play(ev)
	if err != nil {
		return err
	}
	e.logger.Info().
		Int("round", next.Rounds()).
		Stringer("team", ev.Team).
		Int("delta", ev.Delta).
		Str("A", next.Text(game.TeamA)).
		Str("B", next.Text(game.TeamB)).
		Msg("round played")
	e.commit(Update{Kind: Played, Event: ev}, next)
	return nil
}

// Undo reports false when there was no round to remove.
func (e *LocalEngine) Undo() (bool, error) {
	if e.session == nil {
		return false, ErrNotInitialized
	}
	next, ok, err := e.session.Undo()
	if err != nil || !ok {
		return false, err
	}
	e.logger.Info().Msgf("undid round %d", e.session.Rounds()-1)
	e.commit(Update{Kind: Undone}, next)
	return true, nil
}

func (e *LocalEngine) Edit(index int, team game.Team, text string) error {
	if e.session == nil {
		return ErrNotInitialized
	}
	next, err := e.session.Edit(index, team, text)
	if err != nil {
		return err
	}
	e.logger.Info().Msgf("edited round %d team %s to %s", index, team, text)
	e.commit(Update{Kind: Edited}, next)
	return nil
}

func (e *LocalEngine) SwitchRule(mode game.RuleMode) error {
	if e.session == nil {
		return ErrNotInitialized
	}
	next, err := e.session.SwitchRule(mode)
	if err != nil {
		return err
	}
	e.rules = next.Rules
	e.logger.Info().Msgf("rule switched to %s", mode)
	e.commit(Update{Kind: Reconfigured}, next)
	return nil
}

func (e *LocalEngine) SetMaxRounds(n int) error {
	if e.session == nil {
		return ErrNotInitialized
	}
	next, err := e.session.WithMaxRounds(n)
	if err != nil {
		return err
	}
	e.rules = next.Rules
	e.logger.Info().Msgf("max rounds set to %d", n)
	e.commit(Update{Kind: Reconfigured}, next)
	return nil
}

// commit installs next as the current session and publishes the update. The
// final update of an ended game closes the channel.
func (e *LocalEngine) commit(u Update, next *game.Session) {
	e.session = next
	u.Session = next.Copy()
	u.Unwinnable = game.CheckUnwinnable(next)
	if u.Unwinnable.Unwinnable && !next.Ended {
		e.logger.Warn().
			Stringer("leading", u.Unwinnable.Leading).
			Str("reason", string(u.Unwinnable.Reason)).
			Int("gap", u.Unwinnable.Gap).
			Int("maxGain", u.Unwinnable.MaxGain).
			Msg("trailing team can no longer catch up")
	}

	e.publish(u)

	if next.Ended {
		e.logger.Info().Msgf("game over after %d rounds: %s, winner %s", next.Rounds(), next.Reason, next.Winner)
		close(e.updateCh)
		e.closed = true
		if e.archiver != nil {
			if err := e.archiver.Archive(next.Copy()); err != nil {
				e.logger.Error().Err(err).Msg("failed to archive finished game")
			}
		}
	}
}

// publish never blocks: when the reader has fallen behind, the oldest pending
// update is dropped.
func (e *LocalEngine) publish(u Update) {
	if e.closed {
		return
	}
	for {
		select {
		case e.updateCh <- u:
			return
		default:
		}
		select {
		case old := <-e.updateCh:
			e.logger.Debug().Msgf("dropped unread %s update", old.Kind)
		default:
		}
	}
}
