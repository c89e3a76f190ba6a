package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Mohsinsiddi/tokendesk/internal/token"
	tea "github.com/charmbracelet/bubbletea"
)

// Snapshot is one refresh of the dashboard.
type Snapshot struct {
	Account    string
	Metadata   *token.Metadata
	Holders    *token.HolderReport
	HoldersErr error
}

// SnapshotFunc produces a Snapshot. It must not panic on read failures;
// they belong in the Snapshot.
type SnapshotFunc func(ctx context.Context) Snapshot

// dashboardModel is the Bubble Tea model for the live token dashboard.
type dashboardModel struct {
	ctx        context.Context
	tokenAddr  string
	snap       *Snapshot
	lastUpdate time.Time
	interval   time.Duration
	loading    bool
	quitting   bool
	fetch      SnapshotFunc
}

type tickMsg time.Time
type snapshotMsg Snapshot

// NewDashboard creates a Bubble Tea program showing token metadata and
// current holders. interval <= 0 disables automatic refresh; 'r' always
// refreshes.
func NewDashboard(ctx context.Context, tokenAddr string, interval time.Duration, fetch SnapshotFunc) *tea.Program {
	return tea.NewProgram(newDashboardModel(ctx, tokenAddr, interval, fetch), tea.WithContext(ctx))
}

func newDashboardModel(ctx context.Context, tokenAddr string, interval time.Duration, fetch SnapshotFunc) dashboardModel {
	return dashboardModel{
		ctx:       ctx,
		tokenAddr: tokenAddr,
		interval:  interval,
		fetch:     fetch,
		loading:   true,
	}
}

func (m dashboardModel) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(), tick(m.interval))
}

func (m dashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "r":
			if m.loading {
				return m, nil
			}
			m.loading = true
			return m, m.fetchCmd()
		}

	case tickMsg:
		if m.loading {
			return m, tick(m.interval)
		}
		m.loading = true
		return m, tea.Batch(m.fetchCmd(), tick(m.interval))

	case snapshotMsg:
		s := Snapshot(msg)
		m.snap = &s
		m.loading = false
		m.lastUpdate = time.Now()
	}

	return m, nil
}

func (m dashboardModel) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(StyleTitle.Render("Lottery Token Dashboard") + "\n")
	status := "r refresh · q quit"
	if !m.lastUpdate.IsZero() {
		status = fmt.Sprintf("Updated: %s · %s", m.lastUpdate.Format("15:04:05"), status)
	}
	if m.loading {
		status = "Refreshing… · " + status
	}
	sb.WriteString(StyleMeta.Render(status) + "\n\n")

	if m.snap == nil {
		sb.WriteString(StyleMeta.Render("Loading...") + "\n")
		return sb.String()
	}

	if m.snap.Metadata != nil {
		sb.WriteString(MetadataBlock(m.tokenAddr, m.snap.Account, m.snap.Metadata) + "\n")
		for _, f := range MetadataFailures(m.snap.Metadata) {
			sb.WriteString(f + "\n")
		}
	}

	sb.WriteString("\n" + StyleHeader.Render("Current holders") + "\n")
	switch {
	case m.snap.HoldersErr != nil:
		sb.WriteString(Failure("Holders", m.snap.HoldersErr) + "\n")
	case m.snap.Holders != nil:
		sb.WriteString(HolderTable(m.snap.Holders))
	}
	return sb.String()
}

func (m dashboardModel) fetchCmd() tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(m.fetch(m.ctx))
	}
}

func tick(d time.Duration) tea.Cmd {
	if d <= 0 {
		return nil
	}
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
