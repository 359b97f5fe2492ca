package main

import (
	"context"
	"fmt"
	"os"

	"github.com/SZRabinowitz/slackscope/internal/normalize"
	"github.com/SZRabinowitz/slackscope/internal/slack"
	"github.com/spf13/cobra"
)

// historyRow is a message plus the thread preview attached to it.
// Embedding keeps the message fields flat in structured output.
type historyRow struct {
	normalize.MessageRecord
	InlineReplies   []normalize.MessageRecord `json:"inline_replies"`
	InlineRemaining *int                      `json:"inline_remaining,omitempty"`
}

type inlineThread struct {
	Replies   []normalize.MessageRecord
	Remaining int
}

var historyDefaultFields = []string{
	"chat_id", "ts", "author", "text", "thread_ts",
	"reply_count", "subtype", "inline_replies", "inline_remaining",
}

// historyRequest carries the flags shared by chat history and dm
// history. dm switches the target resolver and the pretty header.
type historyRequest struct {
	target           string
	limit            int
	since            string
	until            string
	inlineReplies    int
	maxInlineThreads int
	maxText          int
	fullText         bool
	dm               bool
}

func runHistoryCommand(cmd *cobra.Command, req historyRequest) error {
	if err := intInRange("--limit", req.limit, 1, 500); err != nil {
		return err
	}
	if err := intInRange("--inline-replies", req.inlineReplies, 0, 20); err != nil {
		return err
	}
	if err := intInRange("--max-inline-threads", req.maxInlineThreads, 0, 50); err != nil {
		return err
	}
	if err := intInRange("--max-text", req.maxText, 20, 4000); err != nil {
		return err
	}
	oldest, latest, err := parseHistoryBounds(req.since, req.until)
	if err != nil {
		return err
	}

	client, _, err := newClient()
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	var conversationID string
	if req.dm {
		conversationID, err = client.ResolveDMID(ctx, req.target)
	} else {
		conversationID, err = client.ResolveConversationID(ctx, req.target)
	}
	if err != nil {
		return err
	}

	conversation, err := client.ConversationInfo(ctx, conversationID)
	if err != nil {
		return err
	}
	users, err := client.UsersMap(ctx)
	if err != nil {
		return err
	}

	raw, err := client.ConversationHistory(ctx, conversationID, slack.HistoryOptions{
		Limit:  req.limit,
		Oldest: oldest,
		Latest: latest,
	})
	if err != nil {
		return err
	}

	messages := make([]normalize.MessageRecord, 0, len(raw))
	for _, msg := range raw {
		messages = append(messages, normalize.Message(msg, conversationID, users))
	}
	normalize.SortMessages(messages)

	inline, err := collectInlineReplies(ctx, client, conversationID, messages, users, req.inlineReplies, req.maxInlineThreads)
	if err != nil {
		return err
	}
	rows := injectInlineReplies(messages, inline)

	if humanOutput() {
		label := normalize.ConversationLabel(*conversation, users)
		header := fmt.Sprintf("%s (%s) latest %d", label, conversationID, len(messages))
		if req.dm {
			header = "DM " + header
		}
		renderHistory(os.Stdout, header, rows, req.maxText, req.fullText)
		return nil
	}
	return emit(rows, historyDefaultFields)
}

// collectInlineReplies fetches thread previews for the first
// maxInlineThreads parents, oldest first. Each preview holds up to
// inlineReplies replies plus the count left unfetched.
func collectInlineReplies(ctx context.Context, client *slack.Client, conversationID string, messages []normalize.MessageRecord, users map[string]slack.User, inlineReplies, maxInlineThreads int) (map[string]inlineThread, error) {
	inline := make(map[string]inlineThread)
	if inlineReplies <= 0 || maxInlineThreads <= 0 {
		return inline, nil
	}

	var parents []normalize.MessageRecord
	for _, msg := range messages {
		if msg.IsThreadParent && msg.ReplyCount > 0 {
			parents = append(parents, msg)
		}
	}
	if len(parents) > maxInlineThreads {
		parents = parents[:maxInlineThreads]
	}

	for _, parent := range parents {
		if parent.ThreadTS == "" {
			continue
		}
		raw, err := client.ConversationReplies(ctx, conversationID, parent.ThreadTS, slack.RepliesOptions{
			Limit:     inlineReplies,
			Oldest:    parent.ThreadTS,
			Inclusive: true,
		})
		if err != nil {
			return nil, err
		}
		selected := []normalize.MessageRecord{}
		for _, reply := range raw {
			if reply.TS == parent.TS {
				continue
			}
			if len(selected) == inlineReplies {
				break
			}
			selected = append(selected, normalize.Message(reply, conversationID, users))
		}
		remaining := parent.ReplyCount - len(selected)
		if remaining < 0 {
			remaining = 0
		}
		inline[parent.TS] = inlineThread{Replies: selected, Remaining: remaining}
	}
	return inline, nil
}

func injectInlineReplies(messages []normalize.MessageRecord, inline map[string]inlineThread) []historyRow {
	rows := make([]historyRow, 0, len(messages))
	for _, msg := range messages {
		row := historyRow{MessageRecord: msg}
		if thread, ok := inline[msg.TS]; ok {
			row.InlineReplies = thread.Replies
			remaining := thread.Remaining
			row.InlineRemaining = &remaining
		}
		rows = append(rows, row)
	}
	return rows
}

func intInRange(name string, value, lo, hi int) error {
	if value < lo || value > hi {
		return fmt.Errorf("invalid value for %s: %d is not in the range %d to %d", name, value, lo, hi)
	}
	return nil
}
