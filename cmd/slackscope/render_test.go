package main

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/SZRabinowitz/slackscope/internal/normalize"
	"github.com/SZRabinowitz/slackscope/internal/slack"
)

func TestClipAndPad(t *testing.T) {
	tests := []struct {
		name  string
		value string
		width int
		want  string
	}{
		{name: "fits", value: "abc", width: 5, want: "abc  "},
		{name: "exact", value: "abcde", width: 5, want: "abcde"},
		{name: "clipped", value: "abcdefgh", width: 6, want: "abc..."},
		{name: "tiny width", value: "abcdefgh", width: 3, want: "abc"},
		{name: "runes", value: "héllo wörld", width: 8, want: "héllo..."},
		{name: "empty", value: "", width: 4, want: "    "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clipAndPad(tt.value, tt.width); got != tt.want {
				t.Errorf("clipAndPad(%q, %d) = %q, want %q", tt.value, tt.width, got, tt.want)
			}
		})
	}
}

func TestDayLabel(t *testing.T) {
	now := time.Date(2026, 8, 21, 12, 0, 0, 0, time.Local)
	fixNow(t, now.Unix())

	tests := []struct {
		name string
		ts   string
		want string
	}{
		{name: "today", ts: fmt.Sprint(now.Unix()), want: "Today"},
		{name: "yesterday", ts: fmt.Sprint(now.AddDate(0, 0, -1).Unix()), want: "Yesterday"},
		{name: "older", ts: fmt.Sprint(time.Date(2026, 3, 5, 9, 0, 0, 0, time.Local).Unix()), want: "Mar 05"},
		{name: "unparseable", ts: "not-a-ts", want: "Unknown Day"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, day := dayForTS(tt.ts)
			if got := dayLabel(key, day); got != tt.want {
				t.Errorf("dayLabel(%q) = %q, want %q", tt.ts, got, tt.want)
			}
		})
	}
}

func TestActivityTime(t *testing.T) {
	now := time.Date(2026, 8, 21, 18, 0, 0, 0, time.Local)
	fixNow(t, now.Unix())

	today := time.Date(2026, 8, 21, 14, 30, 0, 0, time.Local)
	past := time.Date(2026, 2, 3, 7, 5, 0, 0, time.Local)

	if got := activityTime(fmt.Sprint(today.Unix())); got != "Today 14:30" {
		t.Errorf("activityTime(today) = %q, want %q", got, "Today 14:30")
	}
	if got := activityTime(fmt.Sprint(past.Unix())); got != "02-03 07:05" {
		t.Errorf("activityTime(past) = %q, want %q", got, "02-03 07:05")
	}
	if got := activityTime(""); got != "-- -- --:--" {
		t.Errorf("activityTime(empty) = %q, want %q", got, "-- -- --:--")
	}
	if got := activityTime("nope"); got != "-- -- --:--" {
		t.Errorf("activityTime(bad) = %q, want %q", got, "-- -- --:--")
	}
}

func TestClockTime(t *testing.T) {
	when := time.Date(2026, 8, 21, 9, 4, 0, 0, time.Local)
	if got := clockTime(fmt.Sprintf("%d.000100", when.Unix())); got != "09:04" {
		t.Errorf("clockTime() = %q, want %q", got, "09:04")
	}
	if got := clockTime("bad"); got != "--:--" {
		t.Errorf("clockTime(bad) = %q, want %q", got, "--:--")
	}
}

func TestRenderMe(t *testing.T) {
	var buf bytes.Buffer
	renderMe(&buf, normalize.MeRecord{
		Workspace: "acme",
		URL:       "https://acme.slack.com",
		Team:      "Acme",
		TeamID:    "T1",
		User:      "ann",
		UserID:    "U1",
		Email:     "ann@acme.com",
		TZ:        "America/New_York",
		TokenOK:   true,
		CookieOK:  true,
	})

	want := strings.Join([]string{
		"WORKSPACE  acme (T1)",
		"URL        https://acme.slack.com",
		"TEAM       Acme",
		"USER       ann (U1)",
		"EMAIL      ann@acme.com",
		"TZ         America/New_York",
		"AUTH       token:ok cookie_d:ok",
	}, "\n") + "\n"
	if buf.String() != want {
		t.Errorf("renderMe() = %q, want %q", buf.String(), want)
	}
}

func TestRenderMeSkipsEmptyOptionalLines(t *testing.T) {
	var buf bytes.Buffer
	renderMe(&buf, normalize.MeRecord{Workspace: "acme", TeamID: "T1", Team: "Acme", User: "ann", UserID: "U1"})

	out := buf.String()
	if strings.Contains(out, "EMAIL") || strings.Contains(out, "TZ ") || strings.Contains(out, "URL") {
		t.Errorf("renderMe() should skip empty optional lines, got %q", out)
	}
	if !strings.Contains(out, "token:missing cookie_d:missing") {
		t.Errorf("renderMe() = %q, want missing credential markers", out)
	}
}

func TestRenderUsers(t *testing.T) {
	var buf bytes.Buffer
	renderUsers(&buf, []normalize.UserRecord{
		{ID: "U1", Handle: "@ann", Name: "Ann Droid", Status: "active"},
		{ID: "U2", Handle: "@bot", Name: "Deploy Bot", Status: "bot"},
	}, 2, 5)

	want := "USERS (showing 2 of 5)\nU1  @ann  Ann Droid  active\nU2  @bot  Deploy Bot  bot\n"
	if buf.String() != want {
		t.Errorf("renderUsers() = %q, want %q", buf.String(), want)
	}
}

func TestRenderUsersEmpty(t *testing.T) {
	var buf bytes.Buffer
	renderUsers(&buf, nil, 0, 0)
	want := "USERS (showing 0 of 0)\nNo users found.\n"
	if buf.String() != want {
		t.Errorf("renderUsers() = %q, want %q", buf.String(), want)
	}
}

func TestRenderChatList(t *testing.T) {
	var buf bytes.Buffer
	renderChatList(&buf, []normalize.ChatRecord{
		{ID: "C123", Type: "channel", Name: "general", Unread: 3, LastText: "ping <@U1>"},
		{ID: "D9", Type: "dm", Name: "@ann", Unread: 0},
	}, "CHATS", 2, 2, "all", 100, false)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if lines[0] != "CHATS (showing 2 of 2, type=all, archived=no)" {
		t.Errorf("header = %q", lines[0])
	}
	wantRow1 := "! channel C123        general            u: 3 -- -- --:--    ping @U1"
	if lines[1] != wantRow1 {
		t.Errorf("row 1 = %q, want %q", lines[1], wantRow1)
	}
	wantRow2 := "  dm      D9          @ann               u: 0 -- -- --:--"
	if lines[2] != wantRow2 {
		t.Errorf("row 2 = %q, want %q", lines[2], wantRow2)
	}
}

func TestRenderChatListEmpty(t *testing.T) {
	var buf bytes.Buffer
	renderChatList(&buf, nil, "DMS", 0, 0, "dm", 100, false)
	want := "DMS (showing 0 of 0, type=dm, archived=no)\nNo conversations found.\n"
	if buf.String() != want {
		t.Errorf("renderChatList() = %q, want %q", buf.String(), want)
	}
}

func TestRenderChatShow(t *testing.T) {
	members := 42
	var buf bytes.Buffer
	renderChatShow(&buf, normalize.ChatRecord{
		ID:       "C123",
		Type:     "channel",
		Name:     "general",
		IsMember: true,
		Unread:   0,
		Members:  &members,
		LastTS:   "1700000000.000100",
		Topic:    "All things general",
	})

	want := strings.Join([]string{
		"id         C123",
		"type       channel",
		"name       general",
		"is_member  true",
		"is_archived false",
		"members    42",
		"unread     0",
		"last_ts    1700000000.000100",
		"topic      All things general",
	}, "\n") + "\n"
	if buf.String() != want {
		t.Errorf("renderChatShow() = %q, want %q", buf.String(), want)
	}
}

func TestRenderHistoryGroupsByDay(t *testing.T) {
	fixNow(t, time.Date(2026, 8, 21, 12, 0, 0, 0, time.Local).Unix())

	day1 := time.Date(2026, 1, 5, 9, 4, 0, 0, time.Local)
	day2 := time.Date(2026, 1, 6, 16, 45, 0, 0, time.Local)
	reply := time.Date(2026, 1, 6, 16, 50, 0, 0, time.Local)
	ts1 := fmt.Sprintf("%d.000100", day1.Unix())
	ts2 := fmt.Sprintf("%d.000200", day2.Unix())
	ts3 := fmt.Sprintf("%d.000300", reply.Unix())

	remaining := 1
	rows := []historyRow{
		{MessageRecord: normalize.MessageRecord{TS: ts1, ThreadTS: ts1, Author: "@ann", Text: "hello world"}},
		{
			MessageRecord: normalize.MessageRecord{
				TS: ts2, ThreadTS: ts2, Author: "@bob", Text: "update",
				ReplyCount: 2, IsThreadParent: true,
			},
			InlineReplies: []normalize.MessageRecord{
				{TS: ts3, ThreadTS: ts2, Author: "@ann", Text: "ok"},
			},
			InlineRemaining: &remaining,
		},
	}

	var buf bytes.Buffer
	renderHistory(&buf, "#general (C1) latest 2", rows, 180, false)

	pad := strings.Repeat(" ", 12) // authors are 4 runes, column is 16
	want := strings.Join([]string{
		"#general (C1) latest 2",
		"Jan 05",
		fmt.Sprintf("  09:04 %s @ann%s    hello world", ts1, pad),
		"",
		"Jan 06",
		fmt.Sprintf("  16:45 %s @bob%s    update (2 replies)", ts2, pad),
		fmt.Sprintf("     ┃ ↳ 16:50 %s @ann%s    ok", ts3, pad),
		fmt.Sprintf("     ┃ ↳ %s    ... +1 more (use thread show)", strings.Repeat(" ", 5+1+len(ts1)+1+16)),
	}, "\n") + "\n"
	if buf.String() != want {
		t.Errorf("renderHistory() =\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestRenderHistoryEmpty(t *testing.T) {
	var buf bytes.Buffer
	renderHistory(&buf, "#general (C1) latest 0", nil, 180, false)
	want := "#general (C1) latest 0\nNo messages found.\n"
	if buf.String() != want {
		t.Errorf("renderHistory() = %q, want %q", buf.String(), want)
	}
}

func TestRenderHistorySuffixBits(t *testing.T) {
	fixNow(t, time.Date(2026, 8, 21, 12, 0, 0, 0, time.Local).Unix())
	when := time.Date(2026, 1, 5, 9, 0, 0, 0, time.Local)
	ts := fmt.Sprintf("%d.000100", when.Unix())

	rows := []historyRow{
		{MessageRecord: normalize.MessageRecord{TS: ts, Author: "@ann", Text: "fixed", Edited: true, Subtype: "bot_message"}},
	}
	var buf bytes.Buffer
	renderHistory(&buf, "", rows, 180, false)

	out := buf.String()
	if !strings.Contains(out, "(edited)") {
		t.Errorf("renderHistory() = %q, want edited suffix", out)
	}
	// bot_message with text present stays out of the suffix
	if strings.Contains(out, "bot_message") {
		t.Errorf("renderHistory() = %q, should hide bot_message subtype when text exists", out)
	}
}

func TestRenderMessageDetail(t *testing.T) {
	fixNow(t, time.Date(2026, 8, 21, 12, 0, 0, 0, time.Local).Unix())
	when := time.Date(2026, 1, 5, 9, 4, 0, 0, time.Local)
	ts := fmt.Sprintf("%d.000100", when.Unix())

	var buf bytes.Buffer
	renderMessageDetail(&buf, "#general (C1)", normalize.MessageRecord{
		TS:       ts,
		ThreadTS: ts,
		Author:   "@ann",
		Text:     "see <https://a.io|docs>",
		Edited:   true,
	})

	out := buf.String()
	if !strings.HasPrefix(out, "#general (C1)\n") {
		t.Errorf("output missing header: %q", out)
	}
	if !strings.Contains(out, "thread_ts "+ts) {
		t.Errorf("output missing thread_ts line: %q", out)
	}
	if !strings.Contains(out, "edited true") {
		t.Errorf("output missing edited line: %q", out)
	}
	if !strings.Contains(out, "see [docs](https://a.io)") {
		t.Errorf("output missing markdown text: %q", out)
	}
}

func TestRenderMessageDetailNoText(t *testing.T) {
	var buf bytes.Buffer
	renderMessageDetail(&buf, "#general (C1)", normalize.MessageRecord{TS: "100.1", Author: "@ann"})
	if !strings.Contains(buf.String(), "(no text content)") {
		t.Errorf("renderMessageDetail() = %q, want no-text marker", buf.String())
	}
}

func TestRenderCandidates(t *testing.T) {
	var buf bytes.Buffer
	renderCandidates(&buf, []slack.Candidate{
		{ID: "C1", Label: "#deploys", Detail: "channel"},
		{ID: "C2", Label: "#deploys"},
	})

	want := "Candidates:\n  - C1  #deploys  channel\n  - C2  #deploys\n"
	if buf.String() != want {
		t.Errorf("renderCandidates() = %q, want %q", buf.String(), want)
	}
}

func TestHistoryColumnWidthsClamped(t *testing.T) {
	rows := []historyRow{
		{MessageRecord: normalize.MessageRecord{
			TS:     "1234567890.1234567890123",
			Author: "@a-very-long-integration-bot-name",
		}},
	}
	tsWidth, authorWidth, metaWidth := historyColumnWidths(rows)
	if tsWidth != 20 {
		t.Errorf("tsWidth = %d, want 20", tsWidth)
	}
	if authorWidth != 28 {
		t.Errorf("authorWidth = %d, want 28", authorWidth)
	}
	if metaWidth != 5+1+20+1+28 {
		t.Errorf("metaWidth = %d, want %d", metaWidth, 5+1+20+1+28)
	}
}

func TestChatNameWidth(t *testing.T) {
	if got := chatNameWidth([]normalize.ChatRecord{{Name: "abc"}}); got != 18 {
		t.Errorf("chatNameWidth(short) = %d, want 18", got)
	}
	long := normalize.ChatRecord{Name: strings.Repeat("x", 50)}
	if got := chatNameWidth([]normalize.ChatRecord{long}); got != 34 {
		t.Errorf("chatNameWidth(long) = %d, want 34", got)
	}
}
