// Package console is a line-oriented score keeper on top of the local engine.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/szqjl/guandan-score/engine"
	"github.com/szqjl/guandan-score/game"
	"github.com/szqjl/guandan-score/snapshot"
)

const help = `commands:
  a <1|2|3>, b <1|2|3>       record a round won by A or B (1 one-last, 2 one-three, 3 double-up)
  undo                       remove the last round
  edit <round> <A|B> <rank>  correct a past round (rounds count from 1)
  rule <RoundLimited|AClearance>
  rounds <n>                 set the round limit (before the first round)
  status | stats | json
  new                        start a new game
  help | quit`

var errQuit = errors.New("quit")

type Console struct {
	engine    *engine.LocalEngine
	getUpdate engine.UpdateGetter
	out       io.Writer
}

func New(e *engine.LocalEngine, out io.Writer) *Console {
	return &Console{engine: e, out: out}
}

// Run starts a game and reads commands until quit or end of input. Command
// errors are printed and do not stop the loop.
func (c *Console) Run(in io.Reader) error {
	c.start()
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		err := c.Exec(line)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			c.printf("error: %v\n", err)
		}
	}
	return scanner.Err()
}

func (c *Console) start() {
	_, c.getUpdate = c.engine.Init()
	c.status()
}

// Exec runs a single command line.
func (c *Console) Exec(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	if c.getUpdate == nil {
		c.start()
	}

	switch cmd {
	case "a", "b":
		if len(args) != 1 {
			return fmt.Errorf("usage: %s <1|2|3>", cmd)
		}
		team, err := game.ParseTeam(cmd)
		if err != nil {
			return err
		}
		delta, err := strconv.Atoi(args[0])
		if err != nil {
			return game.WrapError(game.CodeInvalidDelta, args[0], err)
		}
		if err := c.engine.Play(game.Event{Team: team, Delta: delta}); err != nil {
			return err
		}
	case "undo":
		ok, err := c.engine.Undo()
		if err != nil {
			return err
		}
		if !ok {
			c.printf("nothing to undo\n")
		}
	case "edit":
		if len(args) != 3 {
			return errors.New("usage: edit <round> <A|B> <rank>")
		}
		round, err := strconv.Atoi(args[0])
		if err != nil {
			return game.WrapError(game.CodeOutOfRange, args[0], err)
		}
		team, err := game.ParseTeam(args[1])
		if err != nil {
			return err
		}
		if err := c.engine.Edit(round-1, team, args[2]); err != nil {
			return err
		}
	case "rule":
		if len(args) != 1 {
			return errors.New("usage: rule <RoundLimited|AClearance>")
		}
		mode, err := game.ParseRuleMode(args[0])
		if err != nil {
			return err
		}
		if err := c.engine.SwitchRule(mode); err != nil {
			return err
		}
	case "rounds":
		if len(args) != 1 {
			return errors.New("usage: rounds <n>")
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return game.WrapError(game.CodeOutOfRange, args[0], err)
		}
		if err := c.engine.SetMaxRounds(n); err != nil {
			return err
		}
	case "status":
		c.status()
		return nil
	case "stats":
		return c.stats()
	case "json":
		data, err := snapshot.Marshal(c.engine.Session())
		if err != nil {
			return err
		}
		c.printf("%s\n", data)
		return nil
	case "new":
		c.start()
		return nil
	case "help", "?":
		c.printf("%s\n", help)
		return nil
	case "quit", "exit", "q":
		return errQuit
	default:
		return fmt.Errorf("unknown command %q, try help", cmd)
	}

	c.drain()
	return nil
}

// drain prints every pending engine update.
func (c *Console) drain() {
	for u := c.getUpdate(); u != nil; u = c.getUpdate() {
		s := u.Session
		switch u.Kind {
		case engine.Played:
			c.printf("round %d: %s +%d -> A %s, B %s\n", s.Rounds(), u.Event.Team, u.Event.Delta, s.Text(game.TeamA), s.Text(game.TeamB))
		case engine.Undone:
			c.printf("undone -> A %s, B %s (%d rounds)\n", s.Text(game.TeamA), s.Text(game.TeamB), s.Rounds())
		case engine.Edited:
			c.printf("edited -> A %s, B %s\n", s.Text(game.TeamA), s.Text(game.TeamB))
		case engine.Reconfigured:
			c.printf("rules: %s\n", describeRules(s.Rules))
		}
		if w := u.Unwinnable; w.Unwinnable && !s.Ended {
			c.printf("note: %s leads by %d with at most %d levels left to gain\n", w.Leading, w.Gap, w.MaxGain)
		}
		if s.Ended {
			c.printf("game over (%s): %s\n", s.Reason, describeWinner(s.Winner))
		}
	}
}

func (c *Console) status() {
	s := c.engine.Session()
	c.printf("%s | round %d | A %s, B %s\n", describeRules(s.Rules), s.Rounds(), s.Text(game.TeamA), s.Text(game.TeamB))
	for _, t := range game.Teams {
		if asc := s.Ascension[t]; s.Level[t] >= game.LevelA {
			c.printf("  %s on A, attempt %d of %d\n", t, asc.Attempts, game.MaxAttempts)
		}
	}
	if s.Ended {
		c.printf("game over (%s): %s\n", s.Reason, describeWinner(s.Winner))
	}
}

func (c *Console) stats() error {
	st, err := c.engine.Session().Stats()
	if err != nil {
		return err
	}
	c.printf("rounds %d | A led %d (%.1f%%) | B led %d (%.1f%%) | tied %d\n",
		st.Rounds, st.LedByA, st.RateA, st.LedByB, st.RateB, st.Tied)
	return nil
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func describeRules(r game.Rules) string {
	if r.Mode == game.RoundLimited {
		return fmt.Sprintf("%s (%d rounds)", r.Mode, r.MaxRounds)
	}
	return r.Mode.String()
}

func describeWinner(w game.Winner) string {
	if w == game.Draw {
		return "draw"
	}
	return "team " + string(w) + " wins"
}
