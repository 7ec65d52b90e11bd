// Boards command lists the boards of an ADJ tree.
package main

import (
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/adjvalet/pkg/types"
)

// boardSummary is one row of the boards listing.
type boardSummary struct {
	Name         string `json:"name"`
	BoardID      uint32 `json:"board_id"`
	BoardIP      string `json:"board_ip"`
	Measurements int    `json:"measurements"`
	DataPackets  int    `json:"data_packets"`
	Orders       int    `json:"orders"`
}

func summarize(cfg *types.Configuration) []boardSummary {
	rows := make([]boardSummary, 0, len(cfg.Boards))
	for _, r := range cfg.Boards {
		s := boardSummary{
			Name:         r.Name,
			BoardID:      r.Board.BoardID,
			BoardIP:      r.Board.BoardIP,
			Measurements: len(r.Board.Measurements),
		}
		for _, p := range r.Board.Packets {
			if p.IsOrder() {
				s.Orders++
			} else {
				s.DataPackets++
			}
		}
		rows = append(rows, s)
	}
	return rows
}

var boardsCmd = &cobra.Command{
	Use:   "boards",
	Short: "List the boards of the ADJ directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := newLogger()
		defer func() { _ = log.Sync() }()

		_, _, cfg, err := loadTree(log)
		if err != nil {
			return err
		}
		rows := summarize(cfg)
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), rows)
		}
		renderBoards(cmd.OutOrStdout(), rows)
		return nil
	},
}

func renderBoards(w io.Writer, rows []boardSummary) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{
		text.Bold.Sprint("NAME"),
		text.Bold.Sprint("ID"),
		text.Bold.Sprint("IP"),
		text.Bold.Sprint("MEASUREMENTS"),
		text.Bold.Sprint("DATA PACKETS"),
		text.Bold.Sprint("ORDERS"),
	})
	for _, r := range rows {
		t.AppendRow(table.Row{
			text.FgHiCyan.Sprint(r.Name),
			strconv.FormatUint(uint64(r.BoardID), 10),
			r.BoardIP,
			r.Measurements,
			r.DataPackets,
			r.Orders,
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", "", text.Faint.Sprintf("%d boards", len(rows))})
	t.Render()
}
