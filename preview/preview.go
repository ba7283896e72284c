// Package preview draws a UiState as styled terminal text.
package preview

import (
	"fmt"
	"io"
	"strings"

	"karaoke-lyrics-go/engine"
	"karaoke-lyrics-go/lyrics"
	"karaoke-lyrics-go/style"

	"github.com/charmbracelet/lipgloss"
)

// Renderer turns snapshots into text frames. The colour profile follows the
// writer it was created for, so frames written anywhere but a terminal come
// out as plain text.
type Renderer struct {
	cfg     style.Config
	palette engine.Palette
	lg      *lipgloss.Renderer
}

func New(cfg style.Config, out io.Writer) *Renderer {
	return &Renderer{
		cfg:     cfg,
		palette: engine.NewPalette(cfg.Visual),
		lg:      lipgloss.NewRenderer(out),
	}
}

// Header renders the title and artist line, or "" when both are missing.
func (r *Renderer) Header(meta lyrics.Metadata) string {
	var parts []string
	if meta.Title != "" {
		parts = append(parts, r.lg.NewStyle().Bold(true).Render(meta.Title))
	}
	if meta.Artist != "" {
		parts = append(parts, r.lg.NewStyle().Foreground(lipgloss.Color(r.cfg.Visual.PlayedTextColor)).Render(meta.Artist))
	}
	if len(parts) == 0 {
		return ""
	}
	return lipgloss.PlaceHorizontal(r.cfg.Layout.Width, lipgloss.Center, strings.Join(parts, " - "))
}

// Frame renders the lines around the current one. With no current line the
// window is anchored on the next line to play.
func (r *Renderer) Frame(state engine.UiState) string {
	if len(state.Lines) == 0 {
		return lipgloss.PlaceHorizontal(r.cfg.Layout.Width, lipgloss.Center, r.lg.NewStyle().Faint(true).Render("(no lyrics)"))
	}

	anchor := state.CurrentLineIndex
	if anchor == engine.NoCurrentLine {
		anchor = lyrics.NextLineIndex(state.Lines, state.CurrentTimeMs)
		if anchor < 0 {
			anchor = len(state.Lines) - 1
		}
	}
	from := max(anchor-r.cfg.Layout.VisibleLinesBefore, 0)
	to := min(anchor+r.cfg.Layout.VisibleLinesAfter, len(state.Lines)-1)

	rows := make([]string, 0, to-from+1)
	for i := from; i <= to; i++ {
		line := state.Lines[i]
		if line.IsAccompaniment && !r.cfg.Viewer.ShowAccompaniment {
			continue
		}
		rows = append(rows, r.renderLine(line, state.LineStates[i], state.CurrentTimeMs))
	}
	return strings.Join(rows, "\n")
}

func (r *Renderer) renderLine(line lyrics.Line, ls engine.LineUiState, t int64) string {
	var text string
	if ls.IsPlaying {
		text = r.renderPlaying(line, t)
	} else {
		c := engine.LineColor(ls, line.IsAccompaniment, r.palette)
		faded := r.palette.Background.BlendRgb(c, ls.Opacity).Clamped()
		st := r.lg.NewStyle().Foreground(lipgloss.Color(faded.Hex()))
		if ls.BlurRadius > 0 && ls.DistanceFromCurrent > r.cfg.Effects.DistantLineThreshold {
			st = st.Faint(true)
		}
		text = st.Render(line.Content())
	}
	if line.IsAccompaniment {
		text = r.lg.NewStyle().Italic(true).Render(text)
	}
	return lipgloss.PlaceHorizontal(r.cfg.Layout.Width, position(line.Alignment), text)
}

// renderPlaying colours each grapheme by its own progress.
func (r *Renderer) renderPlaying(line lyrics.Line, t int64) string {
	var b strings.Builder
	for _, c := range engine.CharacterTimings(line) {
		col := engine.CharacterColor(c.Start, c.End, t, r.palette)
		b.WriteString(r.lg.NewStyle().Bold(true).Foreground(lipgloss.Color(col.Hex())).Render(c.Text))
	}
	return b.String()
}

// ProgressBar renders song progress as a bar of the configured width.
func (r *Renderer) ProgressBar(lines []lyrics.Line, t int64) string {
	width := r.cfg.Layout.Width - 8
	if width < 1 {
		width = 1
	}
	p := lyrics.SongProgress(lines, t)
	filled := int(p * float64(width))
	bar := r.lg.NewStyle().Foreground(lipgloss.Color(r.cfg.Visual.PlayingTextColor)).Render(strings.Repeat("━", filled)) +
		r.lg.NewStyle().Foreground(lipgloss.Color(r.cfg.Visual.PlayedTextColor)).Render(strings.Repeat("─", width-filled))
	return fmt.Sprintf("%s %5.1f%%", bar, p*100)
}

func position(a lyrics.Alignment) lipgloss.Position {
	switch a {
	case lyrics.AlignCenter:
		return lipgloss.Center
	case lyrics.AlignRight:
		return lipgloss.Right
	default:
		return lipgloss.Left
	}
}
