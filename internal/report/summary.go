// Package report renders a short human-readable summary of a run.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"ad-tracker/youtube-trending-collector/internal/export"
	"ad-tracker/youtube-trending-collector/internal/model"
)

const maxTitleWidth = 48

// Summary renders the first top rows as a table. top <= 0 renders nothing.
func Summary(rows []*model.EnrichedRow, top int) string {
	if top <= 0 || len(rows) == 0 {
		return ""
	}
	if top > len(rows) {
		top = len(rows)
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Title", "Channel", "Views", "Engagement", "Duration", "Category"})

	for _, row := range rows[:top] {
		tw.AppendRow(table.Row{
			row.Position,
			text.Trim(row.Title, maxTitleWidth),
			row.ChannelTitle,
			strconv.FormatUint(row.ViewCount, 10),
			export.FormatEngagement(row),
			export.FormatDuration(row),
			row.GuideCategory.Or(export.NotAvailable),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
		{Number: 6, Align: text.AlignRight},
	})
	tw.SetCaption(fmt.Sprintf("top %d of %d trending videos", top, len(rows)))

	return tw.Render()
}

// Print writes Summary to w followed by a newline, if there is anything to show.
func Print(w io.Writer, rows []*model.EnrichedRow, top int) error {
	out := Summary(rows, top)
	if out == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, out)
	return err
}
