// Package report renders batch results for people and machines.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rs/zerolog/log"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/batch"
	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/game/core"
	"github.com/mitchelldurbincs/GeneralizedTicTacToe/internal/stats"
)

// ErrUnknownFormat is returned for an unsupported output format
var ErrUnknownFormat = errors.New("unknown report format")

// Format selects how a report is rendered
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat converts a configuration string to a Format
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Write renders rep to w in the given format
func Write(w io.Writer, rep *batch.Report, format Format) error {
	switch format {
	case FormatText, "":
		return WriteText(w, rep)
	case FormatJSON:
		return WriteJSON(w, rep)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(format))
	}
}

// WriteFile renders rep to path, or to stdout when path is empty
func WriteFile(path string, rep *batch.Report, format Format) error {
	if path == "" {
		return Write(os.Stdout, rep, format)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	if err := Write(f, rep, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close report file: %w", err)
	}

	log.Debug().Str("path", path).Str("format", string(format)).Msg("Report written")
	return nil
}

// Summary computes the statistics shown in a report
func Summary(rep *batch.Report) stats.Summary {
	t := rep.Tally
	return stats.Summarize(t.Circle, t.Cross, t.Draw, t.Moves)
}

// WriteText prints the classic three-line result followed by the statistics
func WriteText(w io.Writer, rep *batch.Report) error {
	t := rep.Tally
	s := Summary(rep)

	_, err := fmt.Fprintf(w,
		"O/X/Draw: %d/%d/%d\n"+
			"Time taken: %d ms\n"+
			"Workers: %d\n"+
			"Elo (O vs X): %+.1f [%+.1f, %+.1f], LOS %.1f%%\n"+
			"Average moves: %.1f\n",
		t.Circle, t.Cross, t.Draw,
		rep.Elapsed.Milliseconds(),
		len(rep.Workers),
		s.Elo.Mu, s.Elo.Lower, s.Elo.Upper, 100*s.LOS,
		s.AverageMoves,
	)
	return err
}

// WriteJSON prints the report as an indented JSON document
func WriteJSON(w io.Writer, rep *batch.Report) error {
	doc, err := toStruct(rep)
	if err != nil {
		return err
	}

	data, err := protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}

func toStruct(rep *batch.Report) (*structpb.Struct, error) {
	started, err := formatTimestamp(rep)
	if err != nil {
		return nil, err
	}

	t := rep.Tally
	s := Summary(rep)

	lines := make(map[string]interface{}, len(core.AllLines))
	for _, line := range core.AllLines {
		lines[line.String()] = t.Lines[line]
	}

	workers := make([]interface{}, 0, len(rep.Workers))
	for _, wr := range rep.Workers {
		workers = append(workers, map[string]interface{}{
			"index":      wr.Index,
			"seed":       wr.Seed,
			"games":      wr.Games,
			"circle":     wr.Tally.Circle,
			"cross":      wr.Tally.Cross,
			"draw":       wr.Tally.Draw,
			"elapsed_ms": wr.Elapsed.Milliseconds(),
		})
	}

	doc, err := structpb.NewStruct(map[string]interface{}{
		"batch_id":   rep.BatchID,
		"started_at": started,
		"board_size": core.BoardSize,
		"win_length": core.WinCondition,
		"options": map[string]interface{}{
			"games":   rep.Options.Games,
			"workers": rep.Options.Workers,
			"seed":    rep.Options.Seed,
			"source":  string(rep.Options.Source),
			"tracker": string(rep.Options.Tracker),
		},
		"results": map[string]interface{}{
			"circle": t.Circle,
			"cross":  t.Cross,
			"draw":   t.Draw,
			"moves":  t.Moves,
			"lines":  lines,
		},
		"stats": map[string]interface{}{
			"circle_rate":   s.CircleRate,
			"cross_rate":    s.CrossRate,
			"draw_rate":     s.DrawRate,
			"average_moves": s.AverageMoves,
			"elo":           s.Elo.Mu,
			"elo_lower":     s.Elo.Lower,
			"elo_upper":     s.Elo.Upper,
			"los":           s.LOS,
		},
		"workers":    workers,
		"elapsed_ms": rep.Elapsed.Milliseconds(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build report document: %w", err)
	}
	return doc, nil
}

// formatTimestamp renders the start time in the protobuf JSON form (RFC 3339, UTC)
func formatTimestamp(rep *batch.Report) (string, error) {
	data, err := protojson.Marshal(timestamppb.New(rep.StartedAt))
	if err != nil {
		return "", fmt.Errorf("failed to marshal start time: %w", err)
	}
	return strconv.Unquote(string(data))
}
