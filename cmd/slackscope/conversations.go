package main

import (
	"context"
	"sort"

	"github.com/SZRabinowitz/slackscope/internal/normalize"
	"github.com/SZRabinowitz/slackscope/internal/slack"
)

// chatTypes maps the --type flag to conversations.list type filters.
var chatTypes = map[string][]string{
	"channel": {"public_channel"},
	"private": {"private_channel"},
	"dm":      {"im"},
	"mpim":    {"mpim"},
	"all":     {"public_channel", "private_channel", "im", "mpim"},
}

// chatScanBounds sizes the conversations.list scan from the display
// limit. Listings are sorted after enrichment, so the scan has to pull
// more than one screen's worth without walking a huge workspace.
func chatScanBounds(limit int) (maxItems, maxPages int) {
	maxItems = limit * 8
	if maxItems < 120 {
		maxItems = 120
	}
	if maxItems > 1200 {
		maxItems = 1200
	}
	maxPages = limit/5 + 8
	if maxPages > 30 {
		maxPages = 30
	}
	return maxItems, maxPages
}

// listChatRecords scans conversations of the given types and returns
// normalized records enriched with per-conversation snapshots.
func listChatRecords(ctx context.Context, client *slack.Client, types []string, limit int) ([]normalize.ChatRecord, map[string]slack.User, error) {
	scanItems, scanPages := chatScanBounds(limit)
	conversations, err := client.ConversationsList(ctx, slack.ConversationFilter{
		Types:           types,
		ExcludeArchived: true,
		MaxItems:        scanItems,
		MaxPages:        scanPages,
	})
	if err != nil {
		return nil, nil, err
	}
	users, err := client.UsersMap(ctx)
	if err != nil {
		return nil, nil, err
	}

	records := make([]normalize.ChatRecord, 0, len(conversations))
	for _, conversation := range conversations {
		enriched := conversation
		if conversation.ID != "" {
			snapshot, err := client.ConversationSnapshot(ctx, conversation.ID)
			if err != nil {
				return nil, nil, err
			}
			enriched = mergeSnapshot(conversation, *snapshot)
		}
		records = append(records, normalize.Chat(enriched, users))
	}
	return records, users, nil
}

// mergeSnapshot overlays a snapshot on the conversation from the list
// feed. conversations.info omits some fields the list carries (member
// counts in particular), so those backfill from the listed entry.
func mergeSnapshot(listed, snapshot slack.Conversation) slack.Conversation {
	merged := snapshot
	if merged.Name == "" {
		merged.Name = listed.Name
	}
	if merged.User == "" {
		merged.User = listed.User
	}
	if merged.IsMember == nil {
		merged.IsMember = listed.IsMember
	}
	if merged.NumMembers == nil {
		merged.NumMembers = listed.NumMembers
	}
	if merged.Topic.Value == "" {
		merged.Topic = listed.Topic
	}
	if merged.Purpose.Value == "" {
		merged.Purpose = listed.Purpose
	}
	if merged.LastRead == "" {
		merged.LastRead = listed.LastRead
	}
	if !merged.IsChannel && !merged.IsGroup && !merged.IsIM && !merged.IsMPIM && !merged.IsPrivate {
		merged.IsChannel = listed.IsChannel
		merged.IsGroup = listed.IsGroup
		merged.IsIM = listed.IsIM
		merged.IsMPIM = listed.IsMPIM
		merged.IsPrivate = listed.IsPrivate
		merged.IsArchived = listed.IsArchived
	}
	return merged
}

// sortChatRecords orders unread conversations first, newest activity
// first within each group.
func sortChatRecords(records []normalize.ChatRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		iUnread := records[i].Unread > 0
		jUnread := records[j].Unread > 0
		if iUnread != jUnread {
			return iUnread
		}
		return normalize.TSFloat(records[i].LastTS) > normalize.TSFloat(records[j].LastTS)
	})
}
