package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const (
	// listPageSize is the page size for directory-style listings.
	listPageSize = 200

	// findPageSize and findMaxPages bound name scans, which may have to
	// walk a large share of the workspace before the first match.
	findPageSize = 1000
	findMaxPages = 20
)

// AuthTest calls auth.test and returns the caller's identity.
func (c *Client) AuthTest(ctx context.Context) (*AuthIdentity, error) {
	payload, err := c.Call(ctx, "auth.test", nil)
	if err != nil {
		return nil, err
	}
	var identity AuthIdentity
	if err := json.Unmarshal(payload, &identity); err != nil {
		return nil, fmt.Errorf("%w: auth.test: %v", ErrInvalidResponse, err)
	}
	return &identity, nil
}

// UserInfo fetches a single user by ID.
func (c *Client) UserInfo(ctx context.Context, userID string) (*User, error) {
	payload, err := c.Call(ctx, "users.info", Params{"user": userID})
	if err != nil {
		return nil, err
	}
	var resp struct {
		User *User `json:"user"`
	}
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("%w: users.info: %v", ErrInvalidResponse, err)
	}
	if resp.User == nil {
		return &User{}, nil
	}
	return resp.User, nil
}

// UsersAll returns the full workspace directory, fetching it at most
// once per client.
func (c *Client) UsersAll(ctx context.Context) ([]User, error) {
	if !c.usersLoaded {
		var users []User
		err := c.scan(ctx, "users.list", Params{"limit": listPageSize}, "members", scanOptions{}, func(raw json.RawMessage) error {
			var user User
			if err := json.Unmarshal(raw, &user); err != nil {
				return fmt.Errorf("%w: users.list: %v", ErrInvalidResponse, err)
			}
			users = append(users, user)
			return nil
		})
		if err != nil {
			return nil, err
		}
		c.usersCache = users
		c.usersLoaded = true
	}
	return append([]User(nil), c.usersCache...), nil
}

// UsersMap returns the directory keyed by user ID. Users without an ID
// are skipped.
func (c *Client) UsersMap(ctx context.Context) (map[string]User, error) {
	if c.usersMapCache == nil {
		users, err := c.UsersAll(ctx)
		if err != nil {
			return nil, err
		}
		byID := make(map[string]User, len(users))
		for _, user := range users {
			if user.ID == "" {
				continue
			}
			byID[user.ID] = user
		}
		c.usersMapCache = byID
	}
	return c.usersMapCache, nil
}

// ConversationFilter bounds a ConversationsList call.
type ConversationFilter struct {
	Types           []string
	ExcludeArchived bool
	MaxItems        int
	MaxPages        int
}

// ConversationsList lists the conversations the authed user is a member
// of, filtered by type. Every conversation seen is added to the info
// cache on the way through.
func (c *Client) ConversationsList(ctx context.Context, filter ConversationFilter) ([]Conversation, error) {
	if len(filter.Types) == 0 {
		return nil, nil
	}
	params := Params{
		"types":            strings.Join(filter.Types, ","),
		"exclude_archived": boolInt(filter.ExcludeArchived),
		"limit":            listPageSize,
	}
	opts := scanOptions{maxPages: filter.MaxPages, maxItems: filter.MaxItems}
	var conversations []Conversation
	err := c.scan(ctx, "users.conversations", params, "channels", opts, func(raw json.RawMessage) error {
		var conv Conversation
		if err := json.Unmarshal(raw, &conv); err != nil {
			return fmt.Errorf("%w: users.conversations: %v", ErrInvalidResponse, err)
		}
		conversations = append(conversations, conv)
		if conv.ID != "" {
			c.convCache[conv.ID] = conv
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return conversations, nil
}

// FindConversationsByName scans the membership list for exact
// (case-insensitive) name matches, stopping once maxMatches are found.
// Archived conversations are included so stale names still resolve.
func (c *Client) FindConversationsByName(ctx context.Context, name string, types []string, maxMatches int) ([]Conversation, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" || len(types) == 0 || maxMatches <= 0 {
		return nil, nil
	}
	params := Params{
		"types":            strings.Join(types, ","),
		"exclude_archived": 0,
		"limit":            findPageSize,
	}
	var matches []Conversation
	err := c.scan(ctx, "users.conversations", params, "channels", scanOptions{maxPages: findMaxPages}, func(raw json.RawMessage) error {
		var conv Conversation
		if err := json.Unmarshal(raw, &conv); err != nil {
			return fmt.Errorf("%w: users.conversations: %v", ErrInvalidResponse, err)
		}
		if conv.ID != "" {
			c.convCache[conv.ID] = conv
		}
		if strings.ToLower(strings.TrimSpace(conv.Name)) == needle {
			matches = append(matches, conv)
			if len(matches) >= maxMatches {
				return errStopScan
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// FindDMByUserID scans the caller's DM list for the conversation with
// the given user. Returns nil when no DM exists yet.
func (c *Client) FindDMByUserID(ctx context.Context, userID string) (*Conversation, error) {
	params := Params{
		"types":            "im",
		"exclude_archived": 0,
		"limit":            findPageSize,
	}
	var match *Conversation
	err := c.scan(ctx, "users.conversations", params, "channels", scanOptions{maxPages: findMaxPages}, func(raw json.RawMessage) error {
		var conv Conversation
		if err := json.Unmarshal(raw, &conv); err != nil {
			return fmt.Errorf("%w: users.conversations: %v", ErrInvalidResponse, err)
		}
		if conv.ID != "" {
			c.convCache[conv.ID] = conv
		}
		if conv.User == userID {
			match = &conv
			return errStopScan
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}

// ConversationInfo fetches conversation metadata, falling back to the
// info cache when the response has no usable channel object.
func (c *Client) ConversationInfo(ctx context.Context, conversationID string) (*Conversation, error) {
	payload, err := c.Call(ctx, "conversations.info", Params{"channel": conversationID})
	if err != nil {
		return nil, err
	}
	var resp struct {
		Channel *Conversation `json:"channel"`
	}
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("%w: conversations.info: %v", ErrInvalidResponse, err)
	}
	conv := resp.Channel
	if conv == nil || conv.ID == "" {
		if cached, ok := c.convCache[conversationID]; ok {
			copied := cached
			conv = &copied
		}
	}
	if conv == nil {
		conv = &Conversation{}
	}
	if conv.ID != "" {
		c.convCache[conv.ID] = *conv
	}
	return conv, nil
}

// ConversationSnapshot returns conversation info enriched with the
// latest message and an unread count, computed at most once per run.
// When the API reports no unread counters at all, a fallback compares
// last_read with the newest timestamp: any parse failure means zero,
// never an error.
func (c *Client) ConversationSnapshot(ctx context.Context, conversationID string) (*Conversation, error) {
	if cached, ok := c.snapshotCache[conversationID]; ok {
		copied := cached
		return &copied, nil
	}
	info, err := c.ConversationInfo(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	snapshot := *info
	if snapshot.ID == "" {
		snapshot.ID = conversationID
	}

	latestTS := ""
	if snapshot.Latest != nil {
		latestTS = snapshot.Latest.TS
	}
	if latestTS == "" {
		history, err := c.ConversationHistory(ctx, conversationID, HistoryOptions{Limit: 1})
		if err != nil {
			return nil, err
		}
		if len(history) > 0 {
			latest := history[0]
			snapshot.Latest = &latest
			latestTS = latest.TS
		}
	}

	if snapshot.UnreadCountDisplay == nil && snapshot.UnreadCount == nil {
		unread := unreadFallback(snapshot.LastRead, latestTS)
		snapshot.UnreadCount = &unread
		snapshot.UnreadCountDisplay = &unread
	}

	c.snapshotCache[conversationID] = snapshot
	copied := snapshot
	return &copied, nil
}

func unreadFallback(lastRead, latestTS string) int {
	latest, err := strconv.ParseFloat(latestTS, 64)
	if err != nil {
		return 0
	}
	read, err := strconv.ParseFloat(lastRead, 64)
	if err != nil {
		return 0
	}
	if latest > read {
		return 1
	}
	return 0
}

// HistoryOptions bounds a ConversationHistory call. Oldest and Latest
// are Slack timestamps kept as strings to preserve precision.
type HistoryOptions struct {
	Limit  int
	Oldest string
	Latest string
}

// ConversationHistory fetches up to Limit messages, newest first,
// batching requests at the API page size.
func (c *Client) ConversationHistory(ctx context.Context, conversationID string, opts HistoryOptions) ([]Message, error) {
	var messages []Message
	cursor := ""
	for len(messages) < opts.Limit {
		batch := opts.Limit - len(messages)
		if batch > listPageSize {
			batch = listPageSize
		}
		params := Params{
			"channel": conversationID,
			"limit":   batch,
		}
		if opts.Oldest != "" {
			params["oldest"] = opts.Oldest
		}
		if opts.Latest != "" {
			params["latest"] = opts.Latest
		}
		if cursor != "" {
			params["cursor"] = cursor
		}
		payload, err := c.Call(ctx, "conversations.history", params)
		if err != nil {
			return nil, err
		}
		var page struct {
			Messages         []Message        `json:"messages"`
			HasMore          bool             `json:"has_more"`
			ResponseMetadata ResponseMetadata `json:"response_metadata"`
		}
		if err := json.Unmarshal(payload, &page); err != nil {
			return nil, fmt.Errorf("%w: conversations.history: %v", ErrInvalidResponse, err)
		}
		messages = append(messages, page.Messages...)
		cursor = page.ResponseMetadata.NextCursor
		if cursor == "" && !page.HasMore {
			break
		}
		if len(page.Messages) == 0 {
			break
		}
	}
	if len(messages) > opts.Limit {
		messages = messages[:opts.Limit]
	}
	return messages, nil
}

// ConversationMessage fetches the single message at ts. The history
// window is pinned to [ts, ts] inclusive; if the exact timestamp is
// missing but the window is not empty, the first entry wins.
func (c *Client) ConversationMessage(ctx context.Context, conversationID, ts string) (*Message, error) {
	payload, err := c.Call(ctx, "conversations.history", Params{
		"channel":   conversationID,
		"latest":    ts,
		"oldest":    ts,
		"inclusive": true,
		"limit":     1,
	})
	if err != nil {
		return nil, err
	}
	var page struct {
		Messages []Message `json:"messages"`
	}
	if err := json.Unmarshal(payload, &page); err != nil {
		return nil, fmt.Errorf("%w: conversations.history: %v", ErrInvalidResponse, err)
	}
	for _, msg := range page.Messages {
		if msg.TS == ts {
			found := msg
			return &found, nil
		}
	}
	if len(page.Messages) > 0 {
		found := page.Messages[0]
		return &found, nil
	}
	return nil, fmt.Errorf("%w: message not found in %s at ts=%s", ErrNotFound, conversationID, ts)
}

// RepliesOptions bounds a ConversationReplies call.
type RepliesOptions struct {
	Limit     int
	Oldest    string
	Latest    string
	Inclusive bool
}

// ConversationReplies fetches messages in a thread, the parent included
// when the window covers it.
func (c *Client) ConversationReplies(ctx context.Context, conversationID, threadTS string, opts RepliesOptions) ([]Message, error) {
	params := Params{
		"channel": conversationID,
		"ts":      threadTS,
	}
	if opts.Limit > 0 {
		params["limit"] = opts.Limit
	}
	if opts.Oldest != "" {
		params["oldest"] = opts.Oldest
	}
	if opts.Latest != "" {
		params["latest"] = opts.Latest
	}
	if opts.Inclusive {
		params["inclusive"] = true
	}
	payload, err := c.Call(ctx, "conversations.replies", params)
	if err != nil {
		return nil, err
	}
	var page struct {
		Messages []Message `json:"messages"`
	}
	if err := json.Unmarshal(payload, &page); err != nil {
		return nil, fmt.Errorf("%w: conversations.replies: %v", ErrInvalidResponse, err)
	}
	return page.Messages, nil
}

func boolInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
