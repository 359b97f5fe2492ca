package normalize

import (
	"html"
	"regexp"
	"strings"
)

// Slack wraps references in angle brackets: <@U123> mentions,
// <#C123|general> channel refs, <https://x|label> links, and
// <!here>-style broadcasts.
var (
	channelRefRe  = regexp.MustCompile(`<#([A-Z0-9]+)\|([^>]+)>`)
	labeledLinkRe = regexp.MustCompile(`<([^|>]+)\|([^>]+)>`)
	plainLinkRe   = regexp.MustCompile(`<(https?://[^>]+)>`)
	mentionRe     = regexp.MustCompile(`<@([A-Z0-9]+)>`)
	specialRe     = regexp.MustCompile(`<!([a-zA-Z0-9_]+)>`)
)

// DecodePlain rewrites Slack markup as plain text: mentions become
// @IDs, channel refs become #names, and links collapse to their label
// or bare URL.
func DecodePlain(text string) string {
	if text == "" {
		return ""
	}
	out := html.UnescapeString(text)
	out = channelRefRe.ReplaceAllString(out, "#$2")
	out = labeledLinkRe.ReplaceAllString(out, "$2")
	out = plainLinkRe.ReplaceAllString(out, "$1")
	out = mentionRe.ReplaceAllString(out, "@$1")
	out = specialRe.ReplaceAllStringFunc(out, decodeSpecial)
	return out
}

// DecodeMarkdown rewrites Slack markup keeping link targets, rendering
// labeled http(s) links as [label](url). Code fences get their own
// lines so multi-line blocks stay readable.
func DecodeMarkdown(text string) string {
	if text == "" {
		return ""
	}
	out := html.UnescapeString(text)
	out = channelRefRe.ReplaceAllString(out, "#$2")
	out = labeledLinkRe.ReplaceAllStringFunc(out, func(match string) string {
		groups := labeledLinkRe.FindStringSubmatch(match)
		target, label := groups[1], groups[2]
		if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
			return "[" + label + "](" + target + ")"
		}
		return label
	})
	out = plainLinkRe.ReplaceAllString(out, "$1")
	out = mentionRe.ReplaceAllString(out, "@$1")
	out = specialRe.ReplaceAllStringFunc(out, decodeSpecial)
	return normalizeCodeFences(out)
}

func decodeSpecial(match string) string {
	token := strings.ToLower(specialRe.FindStringSubmatch(match)[1])
	switch token {
	case "here", "channel", "everyone":
		return "@" + token
	}
	return "!" + token
}

// normalizeCodeFences puts ``` fences on their own lines. An unbalanced
// fence count leaves the text untouched.
func normalizeCodeFences(text string) string {
	parts := strings.Split(text, "```")
	if len(parts) < 3 || len(parts)%2 == 0 {
		return text
	}
	var out strings.Builder
	for i, part := range parts {
		if i%2 == 1 {
			out.WriteString("\n```\n")
			out.WriteString(strings.Trim(part, "\n"))
			out.WriteString("\n```\n")
			continue
		}
		out.WriteString(strings.TrimSpace(part))
	}
	return strings.Trim(out.String(), "\n")
}
