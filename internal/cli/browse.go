package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/heapviz/heapviz/pkg/heap"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// browseCommand creates the browse command: an interactive heap picker.
// The selected heap is rendered with the requested formats.
func (c *CLI) browseCommand() *cobra.Command {
	var formatsStr, output string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "browse [file]",
		Short: "Interactively pick a heap from a file and render it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			props, err := heap.ImportFile(args[0])
			if err != nil {
				return err
			}
			if len(props) == 0 {
				printInfo("No heaps in %s", args[0])
				return nil
			}

			model := newHeapListModel(props)
			final, err := tea.NewProgram(model, tea.WithContext(cmd.Context())).Run()
			if err != nil {
				return err
			}

			m, ok := final.(heapListModel)
			if !ok || m.Selected < 0 {
				return nil
			}

			opts := renderOpts{
				output:  output,
				formats: c.formats(formatsStr),
				index:   m.Selected,
				noCache: noCache,
			}
			return c.runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): dot (default), xml, svg, png (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the render cache")

	return cmd
}

// heapListModel is the bubbletea model for interactive heap selection.
type heapListModel struct {
	Props    []*heap.Prop
	Cursor   int
	Selected int
	Height   int
	Offset   int
}

func newHeapListModel(props []*heap.Prop) heapListModel {
	return heapListModel{
		Props:    props,
		Selected: -1,
		Height:   15,
	}
}

func (m heapListModel) Init() tea.Cmd {
	return nil
}

func (m heapListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Props)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.Selected = m.Cursor
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m heapListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Heap"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ render  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Props) {
		end = len(m.Props)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		p := m.Props[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		rows = append(rows, []string{
			cursor,
			displayLabel(p.Label, i),
			fmt.Sprintf("%d", len(p.Cells)),
			fmt.Sprintf("%d", segmentCount(p.Cells)),
			fmt.Sprintf("%d", len(p.Pure)),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Label", "Cells", "Segments", "Pure").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Props))))

	return b.String()
}

// segmentCount counts list and doubly-linked segments, including those
// nested inside segment bodies.
func segmentCount(cells []heap.Cell) int {
	n := 0
	for _, c := range cells {
		switch c := c.(type) {
		case heap.ListSeg:
			n += 1 + segmentCount(c.Body)
		case heap.DLLSeg:
			n += 1 + segmentCount(c.Body)
		}
	}
	return n
}
