// Package tui provides the terminal progress display for batch analysis runs.
package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// StageMsg announces a new phase of the run, e.g. portfolio analysis.
type StageMsg struct {
	Stage string
}

// IssueStartedMsg is sent when a worker picks up an issue.
type IssueStartedMsg struct {
	Number int
	Title  string
}

// IssueFinishedMsg is sent when an issue's analysis completes.
type IssueFinishedMsg struct {
	Number int
	Title  string
	Cached bool
}

// DoneMsg signals that the batch run has finished.
type DoneMsg struct {
	Err error
}

// Progress is the bubbletea model for a batch analysis run.
type Progress struct {
	spinner spinner.Model
	total   int
	done    int
	cached  int
	stage   string
	active  map[int]string
	err     error
	quit    bool

	stageStyle  lipgloss.Style
	countStyle  lipgloss.Style
	titleStyle  lipgloss.Style
	cachedStyle lipgloss.Style
	errStyle    lipgloss.Style
}

// NewProgress creates a progress model for a run over total issues.
func NewProgress(total int) *Progress {
	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return &Progress{
		spinner: sp,
		total:   total,
		stage:   "Starting analysis",
		active:  make(map[int]string),

		stageStyle:  lipgloss.NewStyle().Bold(true),
		countStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		titleStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		cachedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		errStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
}

// Init implements tea.Model.
func (p *Progress) Init() tea.Cmd {
	return p.spinner.Tick
}

// Update implements tea.Model.
func (p *Progress) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			p.quit = true
			return p, tea.Quit
		}

	case StageMsg:
		p.stage = msg.Stage

	case IssueStartedMsg:
		p.active[msg.Number] = msg.Title

	case IssueFinishedMsg:
		delete(p.active, msg.Number)
		p.done++
		if msg.Cached {
			p.cached++
		}

	case DoneMsg:
		p.err = msg.Err
		p.quit = true
		return p, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd
	}

	return p, nil
}

// View implements tea.Model.
func (p *Progress) View() string {
	if p.quit {
		if p.err != nil {
			return p.errStyle.Render(fmt.Sprintf("Analysis failed: %v", p.err)) + "\n"
		}
		return p.summary() + "\n"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s  %s\n",
		p.spinner.View(),
		p.stageStyle.Render(p.stage),
		p.countStyle.Render(fmt.Sprintf("%d/%d", p.done, p.total)))
	if p.cached > 0 {
		b.WriteString(p.cachedStyle.Render(fmt.Sprintf("  %d from cache", p.cached)) + "\n")
	}
	for _, n := range p.activeNumbers() {
		fmt.Fprintf(&b, "  #%d %s\n", n, p.titleStyle.Render(truncateTitle(p.active[n], 60)))
	}
	return b.String()
}

func (p *Progress) summary() string {
	if p.cached > 0 {
		return fmt.Sprintf("Analyzed %d issue(s), %d from cache.", p.done, p.cached)
	}
	return fmt.Sprintf("Analyzed %d issue(s).", p.done)
}

func (p *Progress) activeNumbers() []int {
	nums := make([]int, 0, len(p.active))
	for n := range p.active {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}

func truncateTitle(title string, limit int) string {
	if len(title) <= limit {
		return title
	}
	return title[:limit] + "..."
}
