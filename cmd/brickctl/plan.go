package main

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/canvas/runes"
	"github.com/NimbleMarkets/ntcharts/linechart/streamlinechart"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/gwillem/brickctl/pkg/brick"
	"github.com/gwillem/brickctl/pkg/stepper"
)

type PlanCommand struct {
	From    string `long:"from" description:"Start position, comma separated (default all zero)"`
	MaxRows int    `long:"max-rows" default:"20" description:"Waypoints shown before eliding the middle"`
	Chart   bool   `long:"chart" description:"Also draw the positions per output"`
}

// Output colors, one per port
var outputColors = []string{"196", "226", "46", "51"}

func (c *PlanCommand) Execute(args []string) error {
	seq, err := planFromArgs(c.From, args)
	if err != nil {
		return err
	}

	fmt.Println(headerStyle.Render("Step plan") + dimStyle.Render(fmt.Sprintf(" - %d steps", seq.Steps())))
	fmt.Println(renderPlanTable(seq, c.MaxRows))
	if c.Chart && seq.Steps() > 0 {
		fmt.Println(renderPlanChart(seq))
	}
	return nil
}

func planFromArgs(from string, args []string) (stepper.Sequence, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("expected one end position, e.g. 90,-45")
	}
	start, err := parseVector(from)
	if err != nil {
		return nil, err
	}
	end, err := parseVector(args[0])
	if err != nil {
		return nil, err
	}
	if len(end) == 0 {
		return nil, fmt.Errorf("empty end position")
	}
	return stepper.Interpolate(start, end), nil
}

func renderPlanTable(seq stepper.Sequence, maxRows int) string {
	headers := []string{"Step"}
	for i := range seq[0] {
		headers = append(headers, brick.PortName(i))
	}

	indices := make([]int, 0, len(seq))
	for i := range seq {
		if maxRows > 0 && len(seq) > maxRows && i >= maxRows/2 && i < len(seq)-maxRows/2 {
			if len(indices) == 0 || indices[len(indices)-1] != -1 {
				indices = append(indices, -1)
			}
			continue
		}
		indices = append(indices, i)
	}

	rows := make([][]string, 0, len(indices))
	for _, i := range indices {
		if i < 0 {
			row := make([]string, len(headers))
			for j := range row {
				row[j] = "⋮"
			}
			rows = append(rows, row)
			continue
		}
		row := []string{fmt.Sprintf("%d", i)}
		for _, v := range seq[i] {
			row = append(row, fmt.Sprintf("%d", v))
		}
		rows = append(rows, row)
	}

	tableHeaderStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	tableStepStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	tableCellStyle := lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			if col == 0 {
				return tableStepStyle
			}
			return tableCellStyle
		})
	return t.Render()
}

func renderPlanChart(seq stepper.Sequence) string {
	lo, hi := 0, 0
	for _, wp := range seq {
		for _, v := range wp {
			lo = min(lo, v)
			hi = max(hi, v)
		}
	}
	if lo == hi {
		hi = lo + 1
	}

	width := min(max(len(seq), 40), 120)
	chart := streamlinechart.New(width, 12,
		streamlinechart.WithYRange(float64(lo), float64(hi)),
	)
	for i := range seq[0] {
		color := outputColors[i%len(outputColors)]
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
		chart.SetDataSetStyles(brick.PortName(i), runes.ThinLineStyle, style)
	}
	for _, wp := range seq {
		for i, v := range wp {
			chart.PushDataSet(brick.PortName(i), float64(v))
		}
	}
	chart.DrawAll()

	chartStyle := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	return chartStyle.Render(chart.View()) + "\n" + renderLegend(len(seq[0]))
}

func renderLegend(n int) string {
	var items []string
	for i := 0; i < n; i++ {
		colorStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(outputColors[i%len(outputColors)])).Bold(true)
		items = append(items, colorStyle.Render("━━")+" "+brick.PortName(i))
	}
	return strings.Join(items, "  ")
}
