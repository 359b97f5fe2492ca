package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/SZRabinowitz/slackscope/internal/normalize"
	"github.com/SZRabinowitz/slackscope/internal/slack"
)

func renderMe(w io.Writer, me normalize.MeRecord) {
	fmt.Fprintf(w, "%-11s%s (%s)\n", "WORKSPACE", me.Workspace, me.TeamID)
	if me.URL != "" {
		fmt.Fprintf(w, "%-11s%s\n", "URL", me.URL)
	}
	fmt.Fprintf(w, "%-11s%s\n", "TEAM", me.Team)
	fmt.Fprintf(w, "%-11s%s (%s)\n", "USER", me.User, me.UserID)
	if me.Email != "" {
		fmt.Fprintf(w, "%-11s%s\n", "EMAIL", me.Email)
	}
	if me.TZ != "" {
		fmt.Fprintf(w, "%-11s%s\n", "TZ", me.TZ)
	}
	fmt.Fprintf(w, "%-11stoken:%s cookie_d:%s\n", "AUTH", okWord(me.TokenOK), okWord(me.CookieOK))
}

func okWord(ok bool) string {
	if ok {
		return "ok"
	}
	return "missing"
}

func renderUsers(w io.Writer, users []normalize.UserRecord, shown, total int) {
	fmt.Fprintf(w, "USERS (showing %d of %d)\n", shown, total)
	if len(users) == 0 {
		fmt.Fprintln(w, "No users found.")
		return
	}
	for _, user := range users {
		fmt.Fprintf(w, "%s  %s  %s  %s\n", user.ID, user.Handle, user.Name, user.Status)
	}
}

func renderChatList(w io.Writer, chats []normalize.ChatRecord, title string, shown, total int, chatType string, maxText int, fullText bool) {
	fmt.Fprintf(w, "%s (showing %d of %d, type=%s, archived=no)\n", title, shown, total, chatType)
	if len(chats) == 0 {
		fmt.Fprintln(w, "No conversations found.")
		return
	}
	nameWidth := chatNameWidth(chats)
	for _, chat := range chats {
		marker := " "
		if chat.Unread > 0 {
			marker = "!"
		}
		text := normalize.PreviewText(normalize.DecodePlain(chat.LastText), maxText, fullText)
		line := fmt.Sprintf("%s %s %s %s u:%2d %s",
			marker,
			clipAndPad(chat.Type, 7),
			clipAndPad(chat.ID, 11),
			clipAndPad(chat.Name, nameWidth),
			chat.Unread,
			activityTime(chat.LastTS))
		if text != "" {
			line += "    " + text
		}
		fmt.Fprintln(w, line)
	}
}

func renderChatShow(w io.Writer, chat normalize.ChatRecord) {
	printIf := func(key, value string) {
		if value != "" {
			fmt.Fprintf(w, "%-10s %s\n", key, value)
		}
	}
	printIf("id", chat.ID)
	printIf("type", chat.Type)
	printIf("name", chat.Name)
	fmt.Fprintf(w, "%-10s %t\n", "is_member", chat.IsMember)
	fmt.Fprintf(w, "%-10s %t\n", "is_archived", chat.IsArchived)
	if chat.Members != nil {
		fmt.Fprintf(w, "%-10s %d\n", "members", *chat.Members)
	}
	fmt.Fprintf(w, "%-10s %d\n", "unread", chat.Unread)
	printIf("last_ts", chat.LastTS)
	printIf("last_user", chat.LastUser)
	printIf("last_text", chat.LastText)
	printIf("topic", chat.Topic)
	printIf("purpose", chat.Purpose)
}

// renderHistory prints messages grouped under day headers with inline
// thread replies indented beneath their parent.
func renderHistory(w io.Writer, header string, rows []historyRow, maxText int, fullText bool) {
	if header != "" {
		fmt.Fprintln(w, header)
	}
	if len(rows) == 0 {
		fmt.Fprintln(w, "No messages found.")
		return
	}

	tsWidth, authorWidth, metaWidth := historyColumnWidths(rows)
	currentKey := ""

	for _, row := range rows {
		key, day := dayForTS(row.TS)
		if key != currentKey {
			if currentKey != "" {
				fmt.Fprintln(w)
			}
			fmt.Fprintln(w, dayLabel(key, day))
			currentKey = key
		}

		text := normalize.PreviewText(normalize.DecodePlain(row.Text), maxText, fullText)
		var bits []string
		if row.IsThreadParent && row.ReplyCount > 0 {
			bits = append(bits, fmt.Sprintf("%d replies", row.ReplyCount))
		}
		if row.Edited {
			bits = append(bits, "edited")
		}
		if row.Subtype != "" && (text == "" || row.Subtype != "bot_message") {
			bits = append(bits, row.Subtype)
		}
		suffix := ""
		if len(bits) > 0 {
			suffix = " (" + strings.Join(bits, " | ") + ")"
		}

		meta := renderMeta(clockTime(row.TS), row.TS, row.Author, tsWidth, authorWidth)
		fmt.Fprintf(w, "  %s    %s%s\n", meta, text, suffix)

		for _, reply := range row.InlineReplies {
			replyText := normalize.PreviewText(normalize.DecodePlain(reply.Text), maxText, fullText)
			replyMeta := renderMeta(clockTime(reply.TS), reply.TS, reply.Author, tsWidth, authorWidth)
			fmt.Fprintf(w, "     ┃ ↳ %s    %s\n", replyMeta, replyText)
		}
		if row.InlineRemaining != nil && *row.InlineRemaining > 0 {
			fmt.Fprintf(w, "     ┃ ↳ %s    ... +%d more (use thread show)\n",
				strings.Repeat(" ", metaWidth), *row.InlineRemaining)
		}
	}
}

func renderMessageDetail(w io.Writer, header string, msg normalize.MessageRecord) {
	fmt.Fprintln(w, header)

	tsWidth := len(msg.TS)
	if tsWidth < 16 {
		tsWidth = 16
	}
	authorWidth := len([]rune(msg.Author))
	if authorWidth > 30 {
		authorWidth = 30
	}
	if authorWidth < 16 {
		authorWidth = 16
	}
	fmt.Fprintf(w, "  %s\n", renderMeta(clockTime(msg.TS), msg.TS, msg.Author, tsWidth, authorWidth))
	if msg.ThreadTS != "" {
		fmt.Fprintf(w, "thread_ts %s\n", msg.ThreadTS)
	}
	if msg.Subtype != "" {
		fmt.Fprintf(w, "subtype %s\n", msg.Subtype)
	}
	if msg.Edited {
		fmt.Fprintln(w, "edited true")
	}

	fmt.Fprintln(w)
	if msg.Text != "" {
		fmt.Fprintln(w, normalize.DecodeMarkdown(msg.Text))
	} else {
		fmt.Fprintln(w, "(no text content)")
	}
}

func renderThread(w io.Writer, header string, root normalize.MessageRecord, replies []normalize.MessageRecord, maxText int, fullText bool) {
	row := historyRow{MessageRecord: root, InlineReplies: replies}
	renderHistory(w, header, []historyRow{row}, maxText, fullText)
}

func renderCandidates(w io.Writer, candidates []slack.Candidate) {
	fmt.Fprintln(w, "Candidates:")
	for _, candidate := range candidates {
		var bits []string
		for _, bit := range []string{candidate.ID, candidate.Label, candidate.Detail} {
			if bit != "" {
				bits = append(bits, bit)
			}
		}
		fmt.Fprintf(w, "  - %s\n", strings.Join(bits, "  "))
	}
}

// historyColumnWidths sizes the ts and author columns to the widest
// value on screen, clamped so one long bot name cannot blow up the
// whole layout.
func historyColumnWidths(rows []historyRow) (tsWidth, authorWidth, metaWidth int) {
	tsLen, authorLen := 16, 16
	measure := func(ts, author string) {
		if n := len([]rune(ts)); n > tsLen {
			tsLen = n
		}
		if n := len([]rune(author)); n > authorLen {
			authorLen = n
		}
	}
	for _, row := range rows {
		measure(row.TS, row.Author)
		for _, reply := range row.InlineReplies {
			measure(reply.TS, reply.Author)
		}
	}
	tsWidth = tsLen
	if tsWidth > 20 {
		tsWidth = 20
	}
	authorWidth = authorLen
	if authorWidth > 28 {
		authorWidth = 28
	}
	metaWidth = 5 + 1 + tsWidth + 1 + authorWidth
	return tsWidth, authorWidth, metaWidth
}

func renderMeta(clock, ts, author string, tsWidth, authorWidth int) string {
	return fmt.Sprintf("%5s %s %s", clock, clipAndPad(ts, tsWidth), clipAndPad(author, authorWidth))
}

// clipAndPad fits value into exactly width columns.
func clipAndPad(value string, width int) string {
	runes := []rune(value)
	if len(runes) <= width {
		return value + strings.Repeat(" ", width-len(runes))
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

func chatNameWidth(chats []normalize.ChatRecord) int {
	width := 18
	for _, chat := range chats {
		if n := len([]rune(chat.Name)); n > width {
			width = n
		}
	}
	if width > 34 {
		width = 34
	}
	return width
}

// dayForTS returns a comparable day key plus the local time it names.
// The key is empty when ts does not parse.
func dayForTS(ts string) (string, time.Time) {
	stamp, err := strconv.ParseFloat(ts, 64)
	if err != nil || ts == "" {
		return "", time.Time{}
	}
	day := time.Unix(int64(stamp), 0)
	return day.Format("2006-01-02"), day
}

func dayLabel(key string, day time.Time) string {
	if key == "" {
		return "Unknown Day"
	}
	now := timeNow()
	switch key {
	case now.Format("2006-01-02"):
		return "Today"
	case now.AddDate(0, 0, -1).Format("2006-01-02"):
		return "Yesterday"
	}
	return day.Format("Jan 02")
}

func clockTime(ts string) string {
	stamp, err := strconv.ParseFloat(ts, 64)
	if err != nil || ts == "" {
		return "--:--"
	}
	return time.Unix(int64(stamp), 0).Format("15:04")
}

func activityTime(ts string) string {
	stamp, err := strconv.ParseFloat(ts, 64)
	if err != nil || ts == "" {
		return "-- -- --:--"
	}
	when := time.Unix(int64(stamp), 0)
	if when.Format("2006-01-02") == timeNow().Format("2006-01-02") {
		return "Today " + when.Format("15:04")
	}
	return when.Format("01-02 15:04")
}
