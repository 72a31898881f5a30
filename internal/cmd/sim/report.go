package sim

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"golang.org/x/text/message"

	"github.com/louisbranch/garoball/internal/services/game/domain/game"
)

// Render prints the line score, both box scores and the pitching changes.
// With plays set the play-by-play comes first.
func Render(w io.Writer, p *message.Printer, r Report, plays bool) error {
	s := r.State
	if plays {
		for _, play := range r.Plays {
			half := "T"
			if play.Half == game.Bottom {
				half = "B"
			}
			if _, err := fmt.Fprintf(w, "%s%d %d out %s  %s vs %s: %s\n",
				half, play.Inning, play.OutsBefore, play.BasesBefore.Diagram(),
				play.BatterID, play.PitcherID, play.Explanation); err != nil {
				return err
			}
		}
		fmt.Fprintln(w)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	innings := max(len(s.Box.Away.Innings), len(s.Box.Home.Innings))
	header := []string{p.Sprintf("cli.team")}
	for i := 1; i <= innings; i++ {
		header = append(header, strconv.Itoa(i))
	}
	header = append(header, "R", "H", "E")
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")
	for _, side := range []struct {
		id  string
		box game.TeamBox
	}{{s.Away.TeamID, s.Box.Away}, {s.Home.TeamID, s.Box.Home}} {
		row := []string{side.id}
		for i := range innings {
			if i < len(side.box.Innings) {
				row = append(row, strconv.Itoa(side.box.Innings[i]))
			} else {
				row = append(row, "X")
			}
		}
		row = append(row, strconv.Itoa(side.box.Runs()), strconv.Itoa(side.box.Hits), strconv.Itoa(side.box.Errors))
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, p.Sprintf("cli.final", s.Away.TeamID, s.AwayScore, s.Home.TeamID, s.HomeScore, s.Inning))
	if winner := s.Winner(); winner != "" {
		fmt.Fprintln(w, p.Sprintf("cli.winner", winner))
	}
	fmt.Fprintln(w, p.Sprintf("cli.plays", len(r.Plays), len(r.Changes)))

	for _, side := range []struct {
		team game.Side
		box  game.TeamBox
	}{{s.Away, s.Box.Away}, {s.Home, s.Box.Home}} {
		fmt.Fprintln(w)
		if err := renderBatting(w, p, side.team, side.box); err != nil {
			return err
		}
		fmt.Fprintln(w)
		if err := renderPitching(w, p, side.team, side.box); err != nil {
			return err
		}
	}

	if len(r.Changes) > 0 {
		fmt.Fprintln(w)
	}
	for _, c := range r.Changes {
		fmt.Fprintln(w, p.Sprintf("cli.change", c.TeamID, c.Incoming, c.Outgoing, c.Decision.Reason))
	}
	if len(r.Defaulted) > 0 {
		fmt.Fprintln(w, p.Sprintf("cli.defaulted", strings.Join(r.Defaulted, ", ")))
	}
	return nil
}

func renderBatting(w io.Writer, p *message.Printer, side game.Side, box game.TeamBox) error {
	fmt.Fprintln(w, p.Sprintf("cli.batting", side.TeamID))
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "\tAB\tR\tH\t2B\t3B\tHR\tRBI\tBB\tSO\t")
	for _, id := range side.Lineup {
		l := box.Batting[id]
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t%d\t\n",
			id, l.AB, l.R, l.H, l.Doubles, l.Triples, l.HR, l.RBI, l.BB, l.SO)
	}
	return tw.Flush()
}

func renderPitching(w io.Writer, p *message.Printer, side game.Side, box game.TeamBox) error {
	fmt.Fprintln(w, p.Sprintf("cli.pitching", side.TeamID))
	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "\tIP\tH\tR\tER\tBB\tSO\tHR\t")
	// Pitchers lists the active arm first.
	for i := len(side.Pitchers) - 1; i >= 0; i-- {
		id := side.Pitchers[i]
		l, ok := box.Pitching[id]
		if !ok {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%d\t%d\t\n",
			id, inningsPitched(l.IPOuts), l.H, l.R, l.ER, l.BB, l.SO, l.HR)
	}
	return tw.Flush()
}

// inningsPitched renders outs in baseball notation: 20 outs is "6.2".
func inningsPitched(outs int) string {
	return fmt.Sprintf("%d.%d", outs/3, outs%3)
}
