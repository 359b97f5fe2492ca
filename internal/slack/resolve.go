package slack

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	conversationIDRe = regexp.MustCompile(`^[CDG][A-Z0-9]+$`)
	userIDRe         = regexp.MustCompile(`^U[A-Z0-9]+$`)
)

// maxCandidates caps the candidate list attached to ambiguity errors.
const maxCandidates = 8

// ResolveConversationID turns a target (#name, @user, bare name, or raw
// ID) into a conversation ID. Raw IDs pass through without any network
// traffic. Bare names try channels first and fall back to a DM with the
// matching user. A name matching more than one conversation is an
// AmbiguousTargetError, never a silent pick.
func (c *Client) ResolveConversationID(ctx context.Context, target string) (string, error) {
	raw := strings.TrimSpace(target)
	if conversationIDRe.MatchString(raw) {
		return raw, nil
	}
	if strings.HasPrefix(raw, "@") {
		return c.ResolveDMID(ctx, raw)
	}
	needle := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(raw, "#")))
	if needle == "" {
		return "", fmt.Errorf("%w: conversation name cannot be empty", ErrNotFound)
	}

	matches, err := c.FindConversationsByName(ctx, needle, []string{"public_channel", "private_channel"}, 2)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		id, dmErr := c.ResolveDMID(ctx, raw)
		if dmErr == nil {
			return id, nil
		}
		if errors.Is(dmErr, ErrNotFound) {
			return "", fmt.Errorf("%w: no conversation found for target: %s", ErrNotFound, target)
		}
		return "", dmErr
	}
	if len(matches) > 1 {
		limit := len(matches)
		if limit > maxCandidates {
			limit = maxCandidates
		}
		candidates := make([]Candidate, 0, limit)
		for _, conv := range matches[:limit] {
			name := conv.Name
			if name == "" {
				name = conv.ID
			}
			kind := "channel"
			if conv.IsPrivate {
				kind = "private"
			}
			candidates = append(candidates, Candidate{
				ID:     conv.ID,
				Label:  "#" + name,
				Detail: kind,
			})
		}
		return "", &AmbiguousTargetError{Kind: "conversation", Target: target, Candidates: candidates}
	}
	if matches[0].ID == "" {
		return "", fmt.Errorf("%w: conversation found for %s but missing an ID", ErrNotFound, target)
	}
	return matches[0].ID, nil
}

// ResolveUserID turns a target (@handle, display name, real name, or
// raw ID) into a user ID. Matching is exact after lowercasing; deleted
// users never match.
func (c *Client) ResolveUserID(ctx context.Context, target string) (string, error) {
	raw := strings.TrimSpace(target)
	if userIDRe.MatchString(raw) {
		return raw, nil
	}
	needle := strings.TrimSpace(strings.ToLower(strings.TrimPrefix(raw, "@")))
	if needle == "" {
		return "", fmt.Errorf("%w: user handle cannot be empty", ErrNotFound)
	}

	users, err := c.UsersAll(ctx)
	if err != nil {
		return "", err
	}
	var matches []User
	for _, user := range users {
		if user.Deleted {
			continue
		}
		if needle == strings.ToLower(user.Name) ||
			needle == strings.ToLower(user.Profile.DisplayName) ||
			needle == strings.ToLower(user.Profile.RealName) {
			matches = append(matches, user)
		}
	}
	if len(matches) == 0 {
		return "", fmt.Errorf("%w: no user found for target: %s", ErrNotFound, target)
	}
	if len(matches) > 1 {
		limit := len(matches)
		if limit > maxCandidates {
			limit = maxCandidates
		}
		candidates := make([]Candidate, 0, limit)
		for _, user := range matches[:limit] {
			candidates = append(candidates, Candidate{
				ID:     user.ID,
				Label:  "@" + user.Name,
				Detail: user.Profile.RealName,
			})
		}
		return "", &AmbiguousTargetError{Kind: "user", Target: target, Candidates: candidates}
	}
	if matches[0].ID == "" {
		return "", fmt.Errorf("%w: user found for %s but missing an ID", ErrNotFound, target)
	}
	return matches[0].ID, nil
}

// ResolveDMID turns a target into a DM conversation ID. Anything that
// already looks like a DM ID passes through; otherwise the target is
// resolved to a user and the DM list is scanned for that user.
func (c *Client) ResolveDMID(ctx context.Context, target string) (string, error) {
	raw := strings.TrimSpace(target)
	if strings.HasPrefix(raw, "D") && conversationIDRe.MatchString(raw) {
		return raw, nil
	}
	userID, err := c.ResolveUserID(ctx, raw)
	if err != nil {
		return "", err
	}
	dm, err := c.FindDMByUserID(ctx, userID)
	if err != nil {
		return "", err
	}
	if dm == nil {
		return "", fmt.Errorf("%w: no DM conversation found for user: %s", ErrNotFound, target)
	}
	if dm.ID == "" {
		return "", fmt.Errorf("%w: DM conversation for %s is missing an ID", ErrNotFound, target)
	}
	return dm.ID, nil
}
