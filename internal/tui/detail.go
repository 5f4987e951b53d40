package tui

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/epalmerini/busmon/internal/api"
)

// renderDetail builds the detail panel lines for a single message.
// The body section starts collapsed; expanded is the toggle state.
func renderDetail(msg api.TrackedMessage, innerWidth int, expanded bool) []string {
	var lines []string

	lines = append(lines, fieldNameStyle.Render("METADATA"))
	lines = append(lines, dividerStyle.Render(strings.Repeat("─", innerWidth)))
	lines = append(lines, fieldNameStyle.Render("ID: ")+msg.ID)
	lines = append(lines, fieldNameStyle.Render("Destination: ")+msg.Destination.String())
	lines = append(lines, fieldNameStyle.Render("Sender: ")+msg.SenderID)
	lines = append(lines, fieldNameStyle.Render("Sent: ")+msg.SentAt.Format(time.RFC3339))
	if msg.ReceivedAt != nil {
		lines = append(lines, fieldNameStyle.Render("Received: ")+msg.ReceivedAt.Format(time.RFC3339))
	}
	if msg.Receiver != "" {
		lines = append(lines, fieldNameStyle.Render("Receiver: ")+msg.Receiver)
	}
	if msg.Disposition != "" {
		lines = append(lines, fieldNameStyle.Render("Disposition: ")+renderDisposition(msg.Disposition))
	}
	lines = append(lines, fieldNameStyle.Render("Size: ")+fmt.Sprintf("%d bytes", len(msg.Body)))
	lines = append(lines, "")

	lines = append(lines, fieldNameStyle.Render("BODY"))
	lines = append(lines, dividerStyle.Render(strings.Repeat("─", innerWidth)))

	if !expanded {
		lines = append(lines, mutedStyle.Render(bodyPreview(msg.Body, innerWidth)))
		lines = append(lines, mutedStyle.Render("(press x to expand)"))
		return lines
	}

	lines = append(lines, strings.Split(prettyBody(msg.Body), "\n")...)
	return lines
}

func renderDisposition(d string) string {
	switch d {
	case api.DispositionDeadletter:
		return errorStyle.Render(d)
	case api.DispositionComplete:
		return confirmationStyle.Render(d)
	default:
		return d
	}
}

// bodyPreview shows the first line of the collapsed body.
func bodyPreview(body string, width int) string {
	line := body
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	return truncate(line, width)
}

// prettyBody pretty-prints the body if it parses as JSON, else returns it
// verbatim.
func prettyBody(body string) string {
	var decoded any
	if err := json.Unmarshal([]byte(body), &decoded); err != nil {
		return body
	}

	var sb strings.Builder
	formatValueSyntax(&sb, decoded, 0)
	return sb.String()
}

func formatValueSyntax(sb *strings.Builder, v any, indent int) {
	indentStr := strings.Repeat("  ", indent)

	switch val := v.(type) {
	case map[string]any:
		sb.WriteString("{\n")
		// Sort keys for stable output
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for i, k := range keys {
			sb.WriteString(indentStr)
			sb.WriteString("  ")
			sb.WriteString(jsonKeyStyle.Render(fmt.Sprintf("%q", k)))
			sb.WriteString(": ")
			formatValueSyntax(sb, val[k], indent+1)
			if i < len(keys)-1 {
				sb.WriteString(",")
			}
			sb.WriteString("\n")
		}
		sb.WriteString(indentStr)
		sb.WriteString("}")
	case []any:
		sb.WriteString("[\n")
		for i, item := range val {
			sb.WriteString(indentStr)
			sb.WriteString("  ")
			formatValueSyntax(sb, item, indent+1)
			if i < len(val)-1 {
				sb.WriteString(",")
			}
			sb.WriteString("\n")
		}
		sb.WriteString(indentStr)
		sb.WriteString("]")
	case string:
		sb.WriteString(jsonStringStyle.Render(fmt.Sprintf("%q", val)))
	case float64:
		sb.WriteString(jsonNumberStyle.Render(fmt.Sprintf("%v", val)))
	case bool:
		sb.WriteString(jsonBoolStyle.Render(fmt.Sprintf("%v", val)))
	case nil:
		sb.WriteString(jsonNullStyle.Render("null"))
	default:
		if jsonBytes, err := json.Marshal(val); err == nil {
			sb.WriteString(string(jsonBytes))
		} else {
			fmt.Fprintf(sb, "%v", val)
		}
	}
}

func truncate(s string, max int) string {
	if max <= 3 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

func formatRelativeTime(t time.Time) string {
	d := time.Since(t)
	if d < time.Second {
		return "now"
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return fmt.Sprintf("%dd", int(d.Hours()/24))
}
