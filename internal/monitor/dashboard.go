// Package monitor renders a live terminal view of the fold state
// directory: one row per document with its persisted fold count, fed by
// filesystem watch events.
package monitor

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/PythonNut/vimish-fold/internal/watch"
	"github.com/PythonNut/vimish-fold/pkg/state"
)

const (
	sparklineWidth  = 24
	sparklineHeight = 2
	historySize     = 60

	pathWidth = 32
	barWidth  = 16

	// How long a row stays highlighted after a watch event touches it.
	highlightWindow = 3 * time.Second
)

// Row is one document's persisted fold set as shown in the dashboard.
type Row struct {
	DocPath string
	Folds   int
	Size    int64
	ModTime time.Time

	// Changed is when a watch event last touched this document. Zero for
	// rows discovered by a directory scan.
	Changed time.Time

	// Stale marks a set file that exists but cannot be parsed.
	Stale bool
}

// Model is the BubbleTea model for the fold state dashboard.
type Model struct {
	store    *state.FileStore
	events   <-chan watch.Event
	interval time.Duration

	scanning   bool
	rows       map[string]Row
	history    []float64
	lastEvent  string
	lastUpdate time.Time
	err        error
	quitting   bool
	width      int

	foldBar progress.Model
	scanner spinner.Model
}

// Lipgloss styles (k9s-inspired color scheme)
var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("51")).
			Bold(true).
			Padding(0, 1)

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true).
			MarginTop(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("45"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("231")).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	healthyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true)

	changedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("46")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	containerStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("238")).
			Padding(1, 2)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			MarginTop(1)

	footerKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51")).
			Bold(true)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51"))

	sparkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("51"))
)

// NewModel creates a dashboard over store, updated live from events.
// interval controls how often row ages and the activity sparkline refresh.
func NewModel(store *state.FileStore, events <-chan watch.Event, interval time.Duration) Model {
	bar := progress.New(
		progress.WithGradient("#00ffff", "#ff00ff"),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)

	sc := spinner.New()
	sc.Spinner = spinner.Dot
	sc.Style = spinnerStyle

	return Model{
		store:    store,
		events:   events,
		interval: interval,
		scanning: true,
		rows:     make(map[string]Row),
		history:  make([]float64, 0, historySize),
		width:    80,
		foldBar:  bar,
		scanner:  sc,
	}
}

// Message types
type tickMsg time.Time
type scanMsg []Row
type eventMsg watch.Event
type rowMsg Row
type goneMsg string
type errMsg error

// Init starts the initial directory scan and the event wait loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.scanner.Tick,
		scanStore(m.store),
		waitForEvent(m.events),
		tick(m.interval),
	)
}

// tick creates a tick command for the periodic re-render.
func tick(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// scanStore reads every persisted fold set in the state directory.
func scanStore(st *state.FileStore) tea.Cmd {
	return func() tea.Msg {
		entries, err := st.List()
		if err != nil {
			return errMsg(err)
		}

		rows := make([]Row, 0, len(entries))
		for _, e := range entries {
			row := Row{DocPath: e.DocPath, Size: e.Size, ModTime: e.ModTime}
			set, err := st.Read(e.DocPath)
			if err != nil {
				row.Stale = true
			} else {
				row.Folds = len(set)
			}
			rows = append(rows, row)
		}
		return scanMsg(rows)
	}
}

// readRow re-reads a single document's fold set after a watch event.
func readRow(st *state.FileStore, ev watch.Event) tea.Cmd {
	return func() tea.Msg {
		row := Row{DocPath: ev.DocPath, Changed: ev.Timestamp}

		set, err := st.Read(ev.DocPath)
		switch {
		case errors.Is(err, state.ErrNotFound):
			// Removed between the event and the read.
			return goneMsg(ev.DocPath)
		case err != nil:
			row.Stale = true
		default:
			row.Folds = len(set)
		}

		if info, err := os.Stat(st.Path(ev.DocPath)); err == nil {
			row.Size = info.Size()
			row.ModTime = info.ModTime()
		}
		return rowMsg(row)
	}
}

// waitForEvent blocks for the next watch event. Update re-issues it after
// every delivery so the channel is drained for the life of the program.
func waitForEvent(events <-chan watch.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return errMsg(fmt.Errorf("watch stream closed"))
		}
		return eventMsg(ev)
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "r":
			m.scanning = true
			return m, tea.Batch(m.scanner.Tick, scanStore(m.store))
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case spinner.TickMsg:
		if !m.scanning {
			return m, nil
		}
		var cmd tea.Cmd
		m.scanner, cmd = m.scanner.Update(msg)
		return m, cmd

	case tickMsg:
		m.history = appendHistory(m.history, float64(m.totalFolds()))
		return m, tick(m.interval)

	case scanMsg:
		m.rows = make(map[string]Row, len(msg))
		for _, row := range msg {
			m.rows[row.DocPath] = row
		}
		m.scanning = false
		m.lastUpdate = time.Now()
		m.err = nil
		return m, nil

	case eventMsg:
		ev := watch.Event(msg)
		m.lastEvent = fmt.Sprintf("%s %s", ev.Type, ev.DocPath)
		m.lastUpdate = time.Now()
		if ev.Type == watch.EventSetRemoved {
			delete(m.rows, ev.DocPath)
			return m, waitForEvent(m.events)
		}
		return m, tea.Batch(readRow(m.store, ev), waitForEvent(m.events))

	case rowMsg:
		row := Row(msg)
		if prev, ok := m.rows[row.DocPath]; ok && row.Changed.IsZero() {
			row.Changed = prev.Changed
		}
		m.rows[row.DocPath] = row
		return m, nil

	case goneMsg:
		delete(m.rows, string(msg))
		return m, nil

	case errMsg:
		m.err = error(msg)
		m.scanning = false
		return m, nil
	}

	return m, nil
}

// View renders the dashboard
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.err != nil {
		return m.renderError()
	}

	return m.renderDashboard()
}

// renderError renders the error view
func (m Model) renderError() string {
	header := headerStyle.Render(" vimish-fold Monitor ")

	var content string
	content += "\n"
	content += errorStyle.Render("✗ Watch failed") + "\n"
	content += "\n"
	content += dimStyle.Render("Dir: ") + valueStyle.Render(m.store.Dir()) + "\n"
	content += dimStyle.Render("Error: ") + errorStyle.Render(m.err.Error()) + "\n"
	content += "\n"
	content += footerKeyStyle.Render("[q]") + footerStyle.Render(" quit  ") +
		footerKeyStyle.Render("[r]") + footerStyle.Render(" rescan") + "\n"

	return containerStyle.Render(header + "\n" + content)
}

// renderDashboard renders the live table of fold sets.
func (m Model) renderDashboard() string {
	var content string

	statusBadge := healthyStyle.Render("✓ WATCHING")
	if m.scanning {
		statusBadge = m.scanner.View() + " " + dimStyle.Render("scanning")
	}

	lastUpdateStr := "never"
	if !m.lastUpdate.IsZero() {
		lastUpdateStr = m.lastUpdate.Format("15:04:05")
	}

	headerLine := fmt.Sprintf("%s   %s %s   %s",
		statusBadge,
		dimStyle.Render("Dir:"),
		valueStyle.Render(TruncatePath(m.store.Dir(), pathWidth)),
		dimStyle.Render(lastUpdateStr))

	content += headerStyle.Render(" vimish-fold Monitor ") + "\n"
	content += headerLine + "\n"

	rows := m.sortedRows()

	content += "\n" + sectionStyle.Render("┃ Fold sets") + "\n"
	content += labelStyle.Render("  Documents: ") +
		valueStyle.Render(fmt.Sprintf("%d", len(rows))) +
		"   " + labelStyle.Render("Folds: ") +
		valueStyle.Render(fmt.Sprintf("%d", m.totalFolds())) +
		"   " + renderSparkline(m.history) + "\n"

	maxFolds := 1
	for _, row := range rows {
		if row.Folds > maxFolds {
			maxFolds = row.Folds
		}
	}

	content += "\n"
	now := time.Now()
	for _, row := range rows {
		content += m.renderRow(row, maxFolds, now)
	}
	if len(rows) == 0 && !m.scanning {
		content += dimStyle.Render("  no fold sets") + "\n"
	}

	if m.lastEvent != "" {
		content += "\n" + labelStyle.Render("  Last event: ") +
			dimStyle.Render(m.lastEvent) + "\n"
	}

	footer := footerKeyStyle.Render("[q]") + footerStyle.Render(" quit  ") +
		footerKeyStyle.Render("[r]") + footerStyle.Render(" rescan  ") +
		footerStyle.Render(fmt.Sprintf("refresh %v", m.interval))
	content += "\n" + footer

	return containerStyle.Render(content)
}

// renderRow renders one document line: path, fold count, relative bar,
// file size, and age. Rows touched by a recent event are highlighted.
func (m Model) renderRow(row Row, maxFolds int, now time.Time) string {
	pathStyle := labelStyle
	if !row.Changed.IsZero() && now.Sub(row.Changed) < highlightWindow {
		pathStyle = changedStyle
	}

	count := valueStyle.Render(fmt.Sprintf("%-10s", FormatFolds(row.Folds)))
	if row.Stale {
		count = warningStyle.Render(fmt.Sprintf("%-10s", "unreadable"))
	}

	bar := m.foldBar.ViewAs(float64(row.Folds) / float64(maxFolds))
	path := fmt.Sprintf("%-*s", pathWidth, TruncatePath(row.DocPath, pathWidth))

	return fmt.Sprintf("  %s  %s %s  %s  %s\n",
		pathStyle.Render(path),
		count,
		bar,
		dimStyle.Render(fmt.Sprintf("%8s", FormatSize(row.Size))),
		dimStyle.Render(FormatAge(row.ModTime, now)))
}

// sortedRows returns the rows ordered by document path.
func (m Model) sortedRows() []Row {
	rows := make([]Row, 0, len(m.rows))
	for _, row := range m.rows {
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		return rows[i].DocPath < rows[j].DocPath
	})
	return rows
}

// totalFolds sums the fold counts across all rows.
func (m Model) totalFolds() int {
	total := 0
	for _, row := range m.rows {
		total += row.Folds
	}
	return total
}

// appendHistory appends a value to history, maintaining max size.
func appendHistory(history []float64, value float64) []float64 {
	history = append(history, value)
	if len(history) > historySize {
		history = history[1:]
	}
	return history
}

// renderSparkline draws the total-fold-count history.
func renderSparkline(data []float64) string {
	if len(data) == 0 {
		return dimStyle.Render(fmt.Sprintf("%*s", sparklineWidth, "no data"))
	}

	spark := sparkline.New(sparklineWidth, sparklineHeight)
	for _, v := range data {
		spark.Push(v)
	}

	return sparkStyle.Render(spark.View())
}
