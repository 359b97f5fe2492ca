package normalize

import (
	"sort"
	"strconv"

	"github.com/SZRabinowitz/slackscope/internal/slack"
)

// ConversationKind classifies a conversation as dm, mpdm, private, or
// channel. The checks are ordered: a group DM is also private, so the
// DM checks win.
func ConversationKind(conv slack.Conversation) string {
	switch {
	case conv.IsIM:
		return "dm"
	case conv.IsMPIM:
		return "mpdm"
	case conv.IsPrivate:
		return "private"
	default:
		return "channel"
	}
}

// UserLabel renders a user reference as "@handle", falling back to the
// raw ID when the user is not in the directory and "@unknown" when the
// message has no user at all.
func UserLabel(userID string, users map[string]slack.User) string {
	if userID == "" {
		return "@unknown"
	}
	user, ok := users[userID]
	if !ok {
		return "@" + userID
	}
	if user.Name != "" {
		return "@" + user.Name
	}
	return "@" + userID
}

// ConversationLabel renders a conversation for headers and list rows:
// DMs show the peer, channels get a # prefix, group DMs stay bare.
func ConversationLabel(conv slack.Conversation, users map[string]slack.User) string {
	kind := ConversationKind(conv)
	if kind == "dm" {
		return UserLabel(conv.User, users)
	}
	name := conv.Name
	if name == "" {
		name = conv.ID
	}
	if name == "" {
		name = "unknown"
	}
	if kind == "channel" || kind == "private" {
		return "#" + name
	}
	return name
}

// User flattens a directory entry. Status precedence is deleted, then
// bot, then away, then active.
func User(user slack.User) UserRecord {
	handle := user.Name
	if handle == "" {
		handle = user.ID
	}
	name := user.Profile.RealName
	if name == "" {
		name = user.Profile.DisplayName
	}
	if name == "" {
		name = user.Name
	}
	status := "active"
	switch {
	case user.Deleted:
		status = "deleted"
	case user.IsBot:
		status = "bot"
	case user.Presence == "away":
		status = "away"
	}
	return UserRecord{
		ID:     user.ID,
		Handle: "@" + handle,
		Name:   name,
		Email:  user.Profile.Email,
		Status: status,
	}
}

// Chat flattens a conversation snapshot into a list row.
func Chat(conv slack.Conversation, users map[string]slack.User) ChatRecord {
	unread := 0
	if conv.UnreadCountDisplay != nil {
		unread = *conv.UnreadCountDisplay
	} else if conv.UnreadCount != nil {
		unread = *conv.UnreadCount
	}

	lastTS, lastText, lastUser := "", "", UserLabel("", users)
	if conv.Latest != nil {
		lastTS = conv.Latest.TS
		lastText = ExtractMessageText(*conv.Latest)
		lastUser = UserLabel(conv.Latest.User, users)
	}
	if lastTS == "" {
		lastTS = conv.LastRead
	}

	return ChatRecord{
		ID:         conv.ID,
		Type:       ConversationKind(conv),
		Name:       ConversationLabel(conv, users),
		IsMember:   conv.Member(),
		IsArchived: conv.IsArchived,
		Unread:     unread,
		LastTS:     lastTS,
		LastText:   lastText,
		LastUser:   lastUser,
		Members:    conv.NumMembers,
		Topic:      conv.Topic.Value,
		Purpose:    conv.Purpose.Value,
	}
}

// Message flattens a history entry. A message is a thread parent only
// when it has replies and its own ts equals its thread_ts; replies
// themselves never qualify.
func Message(msg slack.Message, chatID string, users map[string]slack.User) MessageRecord {
	threadTS := msg.ThreadTS
	if threadTS == "" {
		threadTS = msg.TS
	}
	author := UserLabel(msg.User, users)
	authorID := msg.User
	if msg.User == "" && msg.BotID != "" {
		author = "bot:" + msg.BotID
		authorID = msg.BotID
	}
	return MessageRecord{
		ChatID:         chatID,
		TS:             msg.TS,
		ThreadTS:       threadTS,
		Author:         author,
		AuthorID:       authorID,
		Text:           ExtractMessageText(msg),
		Subtype:        msg.Subtype,
		ReplyCount:     msg.ReplyCount,
		IsThreadParent: msg.ReplyCount > 0 && msg.TS == threadTS,
		Edited:         msg.Edited != nil,
	}
}

// Me combines auth.test identity with the caller's directory entry.
func Me(auth slack.AuthIdentity, user *slack.User, workspace string) MeRecord {
	handle := ""
	email := ""
	tz := ""
	if user != nil {
		handle = user.Name
		email = user.Profile.Email
		tz = user.TZ
	}
	if handle == "" {
		handle = auth.User
	}
	if handle == "" {
		handle = auth.UserID
	}
	return MeRecord{
		Workspace: workspace,
		URL:       auth.URL,
		Team:      auth.Team,
		TeamID:    auth.TeamID,
		User:      "@" + handle,
		UserID:    auth.UserID,
		Email:     email,
		TZ:        tz,
		TokenOK:   true,
		CookieOK:  true,
	}
}

// TSFloat parses a Slack timestamp for ordering. Unparseable values
// sort first.
func TSFloat(ts string) float64 {
	value, err := strconv.ParseFloat(ts, 64)
	if err != nil {
		return 0
	}
	return value
}

// SortMessages orders records by ascending numeric timestamp, so
// "20.5" sorts before "100.1" despite the string order.
func SortMessages(records []MessageRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return TSFloat(records[i].TS) < TSFloat(records[j].TS)
	})
}
