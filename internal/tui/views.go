package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/smartspend/internal/cli"
	"github.com/Veraticus/smartspend/internal/derive"
	"github.com/Veraticus/smartspend/internal/model"
	"github.com/charmbracelet/lipgloss"
)

// barWidth is the widest bar of the period chart.
const barWidth = 30

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.panel {
	case PanelTransactions:
		body = m.renderTransactions()
	case PanelGoals:
		body = m.renderGoals()
	case PanelInstallments:
		body = m.renderInstallments()
	case PanelInvestments:
		body = m.renderInvestments()
	case PanelTodos:
		body = m.renderTodos()
	default:
		body = m.renderOverview()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderTabs(),
		"",
		body,
		"",
		m.renderStatus(),
		m.help.View(m.keymap),
	)
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render("💰 smartspend")
	period := m.theme.Subtitle.Render(fmt.Sprintf("%s · %s", m.dash.Period.Format("January 2006"), m.dash.View))
	return title + "  " + period
}

func (m Model) renderTabs() string {
	tabs := make([]string, 0, panelCount)
	for p := Panel(0); p < panelCount; p++ {
		style := m.theme.Tab
		if p == m.panel {
			style = m.theme.ActiveTab
		}
		tabs = append(tabs, style.Render(p.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return m.theme.StatusError.Render("✗ " + m.status)
	}
	return m.theme.StatusOK.Render("✓ " + m.status)
}

func (m Model) renderOverview() string {
	var b strings.Builder
	agg := m.dash.Aggregate
	fmt.Fprintf(&b, "%s %s  (%d transactions)\n",
		m.theme.Bold.Render("Spent:"), cli.FormatMoney(agg.Total), agg.Count)

	lim := m.dash.Limit
	if lim.Configured {
		style := m.theme.StatusOK
		label := "under"
		if !lim.Safe {
			style = m.theme.StatusError
			label = "over"
		}
		fmt.Fprintf(&b, "%s %s/day · allowance %s over %d days · %s by %s\n",
			m.theme.Bold.Render("Limit:"),
			cli.FormatMoney(lim.DailyLimit),
			cli.FormatMoney(lim.Accumulated),
			lim.DaysElapsed,
			label,
			style.Render(cli.FormatMoney(abs(lim.Diff))))
	} else {
		b.WriteString(m.theme.Subtitle.Render("No daily limit set for this month") + "\n")
	}
	fmt.Fprintf(&b, "%s %s due across %d active plans · %d todos open\n",
		m.theme.Bold.Render("Installments:"),
		cli.FormatMoney(m.dash.MonthlyDue), m.dash.ActiveInstalls, m.dash.TodosRemaining)

	b.WriteString("\n" + m.theme.Bold.Render("Spending") + "\n")
	b.WriteString(m.renderBuckets())

	b.WriteString("\n" + m.theme.Bold.Render("By category") + "\n")
	if len(m.dash.Categories) == 0 {
		b.WriteString(m.theme.Subtitle.Render("Nothing spent yet") + "\n")
	}
	for _, c := range m.dash.Categories {
		line := fmt.Sprintf("%s %-14s %12s", cli.Swatch(c.Category.Color), c.Category.Name, cli.FormatMoney(c.Total))
		if c.Over {
			line += " " + m.theme.StatusError.Render("over by "+cli.FormatMoney(c.OverBy))
		}
		b.WriteString(line + "\n")
	}
	return m.theme.Box.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderBuckets() string {
	peak := 0.0
	for _, bk := range m.dash.Buckets {
		peak = max(peak, bk.Total)
	}
	var b strings.Builder
	for _, bk := range m.dash.Buckets {
		if m.dash.View == derive.ViewDaily && bk.Total == 0 {
			continue
		}
		n := 0
		if peak > 0 {
			n = int(bk.Total / peak * barWidth)
		}
		style := lipgloss.NewStyle().Foreground(m.theme.Primary)
		if bk.OverLimit {
			style = lipgloss.NewStyle().Foreground(m.theme.Error)
		}
		fmt.Fprintf(&b, "%-10s %s %s\n", bk.Label, style.Render(strings.Repeat("█", n)), cli.FormatMoney(bk.Total))
	}
	if b.Len() == 0 {
		return m.theme.Subtitle.Render("No spending in this period") + "\n"
	}
	return b.String()
}

func (m Model) renderTransactions() string {
	h := m.history
	if h.Count == 0 {
		return m.theme.Subtitle.Render("No transactions")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %d · %s\n\n", m.theme.Bold.Render("Total:"), h.Count, cli.FormatMoney(h.Total))
	for i, t := range h.Transactions {
		cat, _ := model.LookupCategory(m.snap.Categories, t.CategoryID)
		line := fmt.Sprintf("%s  %s %-12s %12s  %s", t.Date, cli.Swatch(cat.Color), cat.Name, cli.FormatMoney(t.Amount), t.Note)
		b.WriteString(m.row(i, line) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderGoals() string {
	if len(m.dash.Goals) == 0 {
		return m.theme.Subtitle.Render("No goals")
	}
	var b strings.Builder
	for i, gv := range m.dash.Goals {
		g, p := gv.Goal, gv.Projection
		line := fmt.Sprintf("%s %-16s %s %s / %s",
			cli.Swatch(g.Color), g.Name,
			m.bar.ViewAs(p.Percent/100),
			cli.FormatMoney(g.Current), cli.FormatMoney(g.Target))
		b.WriteString(m.row(i, line) + "\n")
		b.WriteString("    " + m.goalPlan(p) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) goalPlan(p derive.GoalProjection) string {
	switch p.Status {
	case derive.GoalComplete:
		return m.theme.StatusOK.Render("Reached")
	case derive.GoalOverdue:
		return m.theme.StatusError.Render(fmt.Sprintf("Overdue · %s left", cli.FormatMoney(p.Remaining)))
	case derive.GoalNoDeadline:
		return m.theme.Subtitle.Render(fmt.Sprintf("%s left · no deadline", cli.FormatMoney(p.Remaining)))
	default:
		return m.theme.Subtitle.Render(fmt.Sprintf("Save %s/month for %.1f months", cli.FormatMoney(p.RequiredMonthly), p.MonthsRemaining))
	}
}

func (m Model) renderInstallments() string {
	if len(m.snap.Installments) == 0 {
		return m.theme.Subtitle.Render("No installments")
	}
	var b strings.Builder
	for i, inst := range m.snap.Installments {
		s := derive.SummarizeInstallment(inst)
		state := fmt.Sprintf("%d/%d paid", inst.PaidMonths, inst.Term)
		if s.Finished {
			state = m.theme.StatusOK.Render("finished")
		}
		line := fmt.Sprintf("%-18s %12s/mo  %s  %s remaining",
			inst.Name, cli.FormatMoney(s.Monthly), state, cli.FormatMoney(s.RemainingAmount))
		b.WriteString(m.row(i, line) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderInvestments() string {
	pf := m.dash.Portfolio
	if len(pf.Legend) == 0 {
		return m.theme.Subtitle.Render("No investments")
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s invested · %s revenue · net %s\n\n",
		m.theme.Bold.Render("Portfolio:"),
		cli.FormatMoney(pf.TotalInvested), cli.FormatMoney(pf.TotalRevenue), m.signed(pf.TotalNet))
	for i, h := range pf.Legend {
		line := fmt.Sprintf("%s %-18s %14s  %s", cli.Swatch(h.Color), h.Name, m.signed(h.Net), cli.FormatPercent(h.Share))
		b.WriteString(m.row(i, line) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) renderTodos() string {
	if len(m.todos) == 0 {
		return m.theme.Subtitle.Render("Nothing to do")
	}
	var b strings.Builder
	for i, t := range m.todos {
		box := "[ ]"
		text := t.Text
		if t.Completed {
			box = "[x]"
			text = m.theme.Subtitle.Strikethrough(true).Render(text)
		}
		b.WriteString(m.row(i, box+" "+text) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) row(i int, line string) string {
	if i == m.cursor {
		return m.theme.Selected.Render("▸ ") + line
	}
	return "  " + line
}

func (m Model) signed(v float64) string {
	if v < 0 {
		return m.theme.StatusError.Render(cli.FormatSigned(v))
	}
	return m.theme.StatusOK.Render(cli.FormatSigned(v))
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
