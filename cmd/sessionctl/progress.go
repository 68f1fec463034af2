package main

import (
	"fmt"
	"io"
	"time"

	"github.com/mockwiseai/backend/internal/models"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

type progressRow struct {
	Entry    models.CandidateEntry
	Progress *models.Progress
}

var statusColors = map[models.CandidateStatus]*color.Color{
	models.CandidatePending:    color.New(color.FgWhite),
	models.CandidateInProgress: color.New(color.FgYellow),
	models.CandidateCompleted:  color.New(color.FgGreen),
}

func renderProgress(w io.Writer, rows []progressRow) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Email", "Name", "Status", "Answered", "Remaining", "Submitted"})

	for _, r := range rows {
		status := string(r.Progress.Status)
		if c, ok := statusColors[r.Progress.Status]; ok {
			status = c.Sprint(status)
		}
		table.Append([]string{
			r.Entry.Email,
			r.Entry.Name,
			status,
			fmt.Sprintf("%d/%d", len(r.Progress.CompletedQuestionIDs), r.Progress.TotalQuestions),
			remaining(r.Progress),
			submitted(r.Entry.SubmittedAt),
		})
	}

	table.SetFooter([]string{"", "", "", "", "candidates", fmt.Sprintf("%d", len(rows))})
	table.Render()
}

func remaining(p *models.Progress) string {
	if p.Status == models.CandidateCompleted || p.TimeRemainingMs <= 0 {
		return "-"
	}
	return (time.Duration(p.TimeRemainingMs) * time.Millisecond).Round(time.Second).String()
}

func submitted(at *time.Time) string {
	if at == nil {
		return "-"
	}
	return at.UTC().Format(time.RFC3339)
}
