package normalize

import (
	"fmt"
	"strings"

	"github.com/SZRabinowitz/slackscope/internal/slack"
)

// ExtractMessageText pulls display text out of a message, trying the
// plain text field first, then layout blocks, then a file-attachment
// fallback line. The fallback is appended to whichever body was found.
func ExtractMessageText(msg slack.Message) string {
	fallback := fileFallback(msg.Files)
	if strings.TrimSpace(msg.Text) != "" {
		return joinNonEmpty(msg.Text, fallback)
	}

	var pieces []string
	for _, block := range msg.Blocks {
		if piece := blockText(block); piece != "" {
			pieces = append(pieces, piece)
		}
	}
	if len(pieces) > 0 {
		return joinNonEmpty(strings.Join(pieces, "\n"), fallback)
	}
	return fallback
}

func joinNonEmpty(body, fallback string) string {
	if fallback == "" {
		return body
	}
	return body + "\n" + fallback
}

func blockText(block slack.Block) string {
	if block.Text != nil {
		return block.Text.Text
	}
	var pieces []string
	for _, field := range block.Fields {
		if field.Text != "" {
			pieces = append(pieces, field.Text)
		}
	}
	return strings.Join(pieces, " ")
}

// fileFallback summarizes attachments as a single line, e.g.
// "📎 report.pdf (PDF, 2 MB) +1 more file".
func fileFallback(files []slack.File) string {
	if len(files) == 0 {
		return ""
	}
	first := files[0]
	title := first.Title
	if title == "" {
		title = first.Name
	}
	if title == "" {
		title = "file"
	}
	kind := first.PrettyType
	if kind == "" {
		kind = first.Filetype
	}
	if kind == "" {
		kind = "file"
	}
	details := kind
	if first.Size != nil {
		details += ", " + humanBytes(*first.Size)
	}
	suffix := ""
	if extra := len(files) - 1; extra > 0 {
		plural := "s"
		if extra == 1 {
			plural = ""
		}
		suffix = fmt.Sprintf(" +%d more file%s", extra, plural)
	}
	return fmt.Sprintf("📎 %s (%s)%s", title, details, suffix)
}

// humanBytes renders a byte count with binary units. Whole values drop
// the decimal ("2 MB"), small fractional ones keep one digit ("1.5 KB").
func humanBytes(size float64) string {
	units := []string{"B", "KB", "MB", "GB", "TB"}
	value := size
	index := 0
	for value >= 1024 && index < len(units)-1 {
		value /= 1024
		index++
	}
	if index == 0 {
		return fmt.Sprintf("%d %s", int(value), units[index])
	}
	if value >= 10 {
		return fmt.Sprintf("%.0f %s", value, units[index])
	}
	return strings.TrimSuffix(fmt.Sprintf("%.1f", value), ".0") + " " + units[index]
}

// CollapseText flattens a message body to a single line.
func CollapseText(text string) string {
	normalized := strings.ReplaceAll(text, "\r", "\n")
	var pieces []string
	for _, line := range strings.Split(normalized, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			pieces = append(pieces, trimmed)
		}
	}
	return strings.Join(pieces, " ")
}

// TruncateText cuts text to maxChars runes, marking the cut with an
// ellipsis when there is room for one.
func TruncateText(text string, maxChars int) string {
	runes := []rune(text)
	if maxChars <= 0 || len(runes) <= maxChars {
		return text
	}
	if maxChars <= 3 {
		return string(runes[:maxChars])
	}
	kept := strings.TrimRight(string(runes[:maxChars-3]), " \t\r\n")
	return kept + "..."
}

// PreviewText collapses and, unless full is set, truncates a body for
// one-line display.
func PreviewText(text string, maxChars int, full bool) string {
	collapsed := CollapseText(text)
	if full {
		return collapsed
	}
	return TruncateText(collapsed, maxChars)
}
