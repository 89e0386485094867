package main

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/palemoky/landlord-engine/internal/game"
	"github.com/palemoky/landlord-engine/internal/game/card"
	"github.com/palemoky/landlord-engine/internal/game/rule"
	"github.com/palemoky/landlord-engine/internal/game/score"
	"github.com/palemoky/landlord-engine/internal/storage"
)

const (
	LandlordIcon = "👑"
	PeasantIcon  = "🧑‍🌾"
)

var (
	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#CD0000")).Background(lipgloss.Color("#FFFFFF")).Bold(true)
	blackStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("#FFFFFF")).Bold(true)
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("228")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	winStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	loseStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

// renderCards 红黑两色显示牌
func renderCards(cards []card.Card) string {
	parts := make([]string, 0, len(cards))
	for _, c := range cards {
		style := blackStyle
		if c.Color() == card.Red {
			style = redStyle
		}
		parts = append(parts, style.Render(c.String()))
	}
	return strings.Join(parts, " ")
}

func signed(n int) string {
	if n >= 0 {
		return winStyle.Render(fmt.Sprintf("+%d", n))
	}
	return loseStyle.Render(fmt.Sprintf("%d", n))
}

type printer struct {
	quiet bool
}

func (p *printer) line(format string, args ...any) {
	if !p.quiet {
		fmt.Printf(format+"\n", args...)
	}
}

func (p *printer) title(s string) {
	fmt.Println()
	fmt.Println(titleStyle.Render("== " + s + " =="))
}

func (p *printer) bid(player string, bid int) {
	if bid == 0 {
		p.line("%s 不叫", player)
		return
	}
	p.line("%s 叫 %d 分", player, bid)
}

func (p *printer) landlord(v game.View) {
	p.line("%s %s 成为地主（%d 分），底牌 %s", LandlordIcon, v.LandlordPlayerID, v.HighestBid, renderCards(v.LandlordCards))
}

func (p *printer) pass(player string) {
	p.line("%s %s", player, dimStyle.Render("不出"))
}

func (p *printer) play(player string, hand rule.ParsedHand, left int) {
	name := hand.Type.String()
	if hand.Type.IsChain() {
		name = fmt.Sprintf("%s(%d 连)", name, hand.Length)
	}
	p.line("%s 出 %s %s %s", player, name, renderCards(hand.Cards), dimStyle.Render(fmt.Sprintf("(剩 %d 张)", left)))
}

func (p *printer) settlement(st score.Settlement) {
	var b strings.Builder
	side := "农民胜"
	if st.WinnerSide == game.SideLandlord {
		side = "地主胜"
	}
	fmt.Fprintf(&b, "%s  底分 %d  倍数 %d", side, st.BaseScore, st.Multiplier)
	if st.Spring {
		b.WriteString("  春天")
	}
	if st.AntiSpring {
		b.WriteString("  反春")
	}
	for _, ps := range st.Scores {
		icon := PeasantIcon
		if ps.IsLandlord {
			icon = LandlordIcon
		}
		fmt.Fprintf(&b, "\n%s %s %s", icon, ps.PlayerID, signed(ps.Delta))
	}
	fmt.Println(boxStyle.Render(b.String()))
}

// tally 本次运行的累计成绩
type tally struct {
	scores map[string]int
	wins   map[string]int
	games  int
}

func newTally() *tally {
	return &tally{scores: make(map[string]int), wins: make(map[string]int)}
}

func (t *tally) add(st score.Settlement) {
	t.games++
	for _, ps := range st.Scores {
		t.scores[ps.PlayerID] += ps.Delta
		if ps.Won {
			t.wins[ps.PlayerID]++
		}
	}
}

func (p *printer) tally(t *tally) {
	ids := make([]string, 0, len(t.scores))
	for id := range t.scores {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b string) int { return t.scores[b] - t.scores[a] })

	fmt.Printf("共 %d 局\n", t.games)
	for _, id := range ids {
		fmt.Printf("%s  %s  胜 %d\n", id, signed(t.scores[id]), t.wins[id])
	}
}

func (p *printer) stored(ids []string) {
	p.line("存储中共有 %d 局", len(ids))
	for _, id := range ids {
		p.line("  %s", dimStyle.Render(id))
	}
}

func (p *printer) leaderboard(entries []storage.LeaderboardEntry) {
	fmt.Println(headerStyle.Render(fmt.Sprintf("%-4s %-8s %6s %6s %7s", "名次", "玩家", "积分", "场次", "胜率")))
	for _, e := range entries {
		fmt.Printf("%-4d %-8s %6d %6d %6.1f%%\n", e.Rank, e.Stats.PlayerID, e.Stats.Score, e.Stats.Games, e.Stats.WinRate())
	}
}
