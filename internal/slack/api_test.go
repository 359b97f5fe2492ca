package slack

import (
	"context"
	"fmt"
	"net/http"
	"testing"
)

// methodCounter tracks how many times each API method was hit.
type methodCounter map[string]int

// routedHandler dispatches on the API method in the URL path.
func routedHandler(counter methodCounter, routes map[string]http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := r.URL.Path[1:]
		counter[method]++
		if route, ok := routes[method]; ok {
			route(w, r)
			return
		}
		http.Error(w, "no route for "+method, http.StatusNotFound)
	})
}

func TestUsersAllFetchedOnce(t *testing.T) {
	counter := methodCounter{}
	client, _ := newTestClient(t, routedHandler(counter, map[string]http.HandlerFunc{
		"users.list": func(w http.ResponseWriter, r *http.Request) {
			if r.FormValue("cursor") == "" {
				fmt.Fprint(w, `{"ok": true, "members": [{"id": "U1", "name": "ann"}], "response_metadata": {"next_cursor": "p2"}}`)
				return
			}
			fmt.Fprint(w, `{"ok": true, "members": [{"id": "U2", "name": "bob"}]}`)
		},
	}))

	ctx := context.Background()
	first, err := client.UsersAll(ctx)
	if err != nil {
		t.Fatalf("UsersAll() error = %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("len(users) = %d, want 2", len(first))
	}
	if _, err := client.UsersAll(ctx); err != nil {
		t.Fatalf("UsersAll() second call error = %v", err)
	}
	if counter["users.list"] != 2 {
		t.Errorf("users.list requests = %d, want 2 (two pages, fetched once)", counter["users.list"])
	}

	byID, err := client.UsersMap(ctx)
	if err != nil {
		t.Fatalf("UsersMap() error = %v", err)
	}
	if byID["U2"].Name != "bob" {
		t.Errorf("UsersMap()[U2].Name = %q, want bob", byID["U2"].Name)
	}
}

func TestConversationsListFiltersAndCaches(t *testing.T) {
	var gotTypes, gotArchived string
	counter := methodCounter{}
	client, _ := newTestClient(t, routedHandler(counter, map[string]http.HandlerFunc{
		"users.conversations": func(w http.ResponseWriter, r *http.Request) {
			gotTypes = r.FormValue("types")
			gotArchived = r.FormValue("exclude_archived")
			fmt.Fprint(w, `{"ok": true, "channels": [{"id": "C1", "name": "general"}, {"id": "C2", "name": "random"}]}`)
		},
	}))

	ctx := context.Background()
	conversations, err := client.ConversationsList(ctx, ConversationFilter{
		Types:           []string{"public_channel", "private_channel"},
		ExcludeArchived: true,
	})
	if err != nil {
		t.Fatalf("ConversationsList() error = %v", err)
	}
	if len(conversations) != 2 {
		t.Fatalf("len(conversations) = %d, want 2", len(conversations))
	}
	if gotTypes != "public_channel,private_channel" {
		t.Errorf("types = %q", gotTypes)
	}
	if gotArchived != "1" {
		t.Errorf("exclude_archived = %q, want 1", gotArchived)
	}
	if cached, ok := client.convCache["C2"]; !ok || cached.Name != "random" {
		t.Errorf("convCache[C2] = %+v, want the scanned conversation", cached)
	}
}

func TestConversationsListEmptyTypes(t *testing.T) {
	counter := methodCounter{}
	client, _ := newTestClient(t, routedHandler(counter, nil))

	conversations, err := client.ConversationsList(context.Background(), ConversationFilter{})
	if err != nil {
		t.Fatalf("ConversationsList() error = %v", err)
	}
	if conversations != nil {
		t.Errorf("conversations = %v, want nil", conversations)
	}
	if len(counter) != 0 {
		t.Errorf("requests = %v, want none", counter)
	}
}

func TestFindConversationsByNameStopsAtMaxMatches(t *testing.T) {
	counter := methodCounter{}
	client, _ := newTestClient(t, routedHandler(counter, map[string]http.HandlerFunc{
		"users.conversations": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"ok": true, "channels": [
				{"id": "C1", "name": "Deploys"},
				{"id": "C2", "name": "deploys", "is_private": true},
				{"id": "C3", "name": "deploys-archive"}
			], "response_metadata": {"next_cursor": "more"}}`)
		},
	}))

	matches, err := client.FindConversationsByName(context.Background(), " Deploys ", []string{"public_channel", "private_channel"}, 2)
	if err != nil {
		t.Fatalf("FindConversationsByName() error = %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("matches = %d, want 2", len(matches))
	}
	if matches[0].ID != "C1" || matches[1].ID != "C2" {
		t.Errorf("matches = [%s, %s], want [C1, C2]", matches[0].ID, matches[1].ID)
	}
	if counter["users.conversations"] != 1 {
		t.Errorf("requests = %d, want 1 (stopped mid-page)", counter["users.conversations"])
	}
	if _, ok := client.convCache["C2"]; !ok {
		t.Error("scanned conversations should land in the info cache")
	}
}

func TestFindDMByUserID(t *testing.T) {
	client, _ := newTestClient(t, routedHandler(methodCounter{}, map[string]http.HandlerFunc{
		"users.conversations": func(w http.ResponseWriter, r *http.Request) {
			if r.FormValue("types") != "im" {
				t.Errorf("types = %q, want im", r.FormValue("types"))
			}
			fmt.Fprint(w, `{"ok": true, "channels": [
				{"id": "D1", "user": "U1", "is_im": true},
				{"id": "D2", "user": "U2", "is_im": true}
			]}`)
		},
	}))

	dm, err := client.FindDMByUserID(context.Background(), "U2")
	if err != nil {
		t.Fatalf("FindDMByUserID() error = %v", err)
	}
	if dm == nil || dm.ID != "D2" {
		t.Fatalf("dm = %+v, want D2", dm)
	}

	missing, err := client.FindDMByUserID(context.Background(), "U9")
	if err != nil {
		t.Fatalf("FindDMByUserID() error = %v", err)
	}
	if missing != nil {
		t.Errorf("dm = %+v, want nil for unknown user", missing)
	}
}

func TestConversationInfoFallsBackToCache(t *testing.T) {
	client, _ := newTestClient(t, routedHandler(methodCounter{}, map[string]http.HandlerFunc{
		"conversations.info": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"ok": true}`)
		},
	}))
	client.convCache["C7"] = Conversation{ID: "C7", Name: "ops"}

	conv, err := client.ConversationInfo(context.Background(), "C7")
	if err != nil {
		t.Fatalf("ConversationInfo() error = %v", err)
	}
	if conv.Name != "ops" {
		t.Errorf("Name = %q, want the cached value", conv.Name)
	}
}

func TestConversationSnapshotBackfillsLatest(t *testing.T) {
	counter := methodCounter{}
	client, _ := newTestClient(t, routedHandler(counter, map[string]http.HandlerFunc{
		"conversations.info": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"ok": true, "channel": {"id": "C1", "name": "general", "last_read": "99.0"}}`)
		},
		"conversations.history": func(w http.ResponseWriter, r *http.Request) {
			if r.FormValue("limit") != "1" {
				t.Errorf("limit = %q, want 1", r.FormValue("limit"))
			}
			fmt.Fprint(w, `{"ok": true, "messages": [{"ts": "100.5", "user": "U1", "text": "hi"}]}`)
		},
	}))

	ctx := context.Background()
	snapshot, err := client.ConversationSnapshot(ctx, "C1")
	if err != nil {
		t.Fatalf("ConversationSnapshot() error = %v", err)
	}
	if snapshot.Latest == nil || snapshot.Latest.TS != "100.5" {
		t.Fatalf("Latest = %+v, want backfilled ts 100.5", snapshot.Latest)
	}
	if snapshot.UnreadCount == nil || *snapshot.UnreadCount != 1 {
		t.Errorf("UnreadCount = %v, want fallback 1", snapshot.UnreadCount)
	}

	if _, err := client.ConversationSnapshot(ctx, "C1"); err != nil {
		t.Fatalf("ConversationSnapshot() second call error = %v", err)
	}
	if counter["conversations.info"] != 1 || counter["conversations.history"] != 1 {
		t.Errorf("requests = %v, want one of each (snapshot cached)", counter)
	}
}

func TestConversationSnapshotKeepsReportedUnread(t *testing.T) {
	client, _ := newTestClient(t, routedHandler(methodCounter{}, map[string]http.HandlerFunc{
		"conversations.info": func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"ok": true, "channel": {"id": "C1", "unread_count_display": 7, "latest": {"ts": "50.0"}}}`)
		},
	}))

	snapshot, err := client.ConversationSnapshot(context.Background(), "C1")
	if err != nil {
		t.Fatalf("ConversationSnapshot() error = %v", err)
	}
	if snapshot.UnreadCountDisplay == nil || *snapshot.UnreadCountDisplay != 7 {
		t.Errorf("UnreadCountDisplay = %v, want 7", snapshot.UnreadCountDisplay)
	}
}

func TestUnreadFallback(t *testing.T) {
	tests := []struct {
		name     string
		lastRead string
		latestTS string
		want     int
	}{
		{name: "newer message", lastRead: "100.0", latestTS: "101.0", want: 1},
		{name: "caught up", lastRead: "101.0", latestTS: "101.0", want: 0},
		{name: "read past latest", lastRead: "102.0", latestTS: "101.0", want: 0},
		{name: "unparseable latest", lastRead: "100.0", latestTS: "", want: 0},
		{name: "unparseable last_read", lastRead: "not-a-ts", latestTS: "101.0", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := unreadFallback(tt.lastRead, tt.latestTS); got != tt.want {
				t.Errorf("unreadFallback(%q, %q) = %d, want %d", tt.lastRead, tt.latestTS, got, tt.want)
			}
		})
	}
}

func TestConversationHistoryBatchesToLimit(t *testing.T) {
	var limits []string
	client, _ := newTestClient(t, routedHandler(methodCounter{}, map[string]http.HandlerFunc{
		"conversations.history": func(w http.ResponseWriter, r *http.Request) {
			limits = append(limits, r.FormValue("limit"))
			if r.FormValue("cursor") == "" {
				fmt.Fprint(w, `{"ok": true, "messages": [`+messageList(200)+`], "has_more": true, "response_metadata": {"next_cursor": "c2"}}`)
				return
			}
			fmt.Fprint(w, `{"ok": true, "messages": [`+messageList(80)+`], "has_more": false}`)
		},
	}))

	messages, err := client.ConversationHistory(context.Background(), "C1", HistoryOptions{Limit: 250})
	if err != nil {
		t.Fatalf("ConversationHistory() error = %v", err)
	}
	if len(messages) != 250 {
		t.Errorf("messages = %d, want 250", len(messages))
	}
	if len(limits) != 2 || limits[0] != "200" || limits[1] != "50" {
		t.Errorf("limits = %v, want [200 50]", limits)
	}
}

func TestConversationHistoryPassesBounds(t *testing.T) {
	var gotOldest, gotLatest string
	client, _ := newTestClient(t, routedHandler(methodCounter{}, map[string]http.HandlerFunc{
		"conversations.history": func(w http.ResponseWriter, r *http.Request) {
			gotOldest = r.FormValue("oldest")
			gotLatest = r.FormValue("latest")
			fmt.Fprint(w, `{"ok": true, "messages": []}`)
		},
	}))

	_, err := client.ConversationHistory(context.Background(), "C1", HistoryOptions{
		Limit:  10,
		Oldest: "1739051292.0042",
		Latest: "1739060000",
	})
	if err != nil {
		t.Fatalf("ConversationHistory() error = %v", err)
	}
	if gotOldest != "1739051292.0042" {
		t.Errorf("oldest = %q, want the timestamp passed through untouched", gotOldest)
	}
	if gotLatest != "1739060000" {
		t.Errorf("latest = %q", gotLatest)
	}
}

func TestConversationMessage(t *testing.T) {
	client, _ := newTestClient(t, routedHandler(methodCounter{}, map[string]http.HandlerFunc{
		"conversations.history": func(w http.ResponseWriter, r *http.Request) {
			switch r.FormValue("latest") {
			case "100.1":
				fmt.Fprint(w, `{"ok": true, "messages": [{"ts": "100.0"}, {"ts": "100.1", "text": "exact"}]}`)
			case "200.2":
				fmt.Fprint(w, `{"ok": true, "messages": [{"ts": "200.1", "text": "closest"}]}`)
			default:
				fmt.Fprint(w, `{"ok": true, "messages": []}`)
			}
		},
	}))

	ctx := context.Background()
	exact, err := client.ConversationMessage(ctx, "C1", "100.1")
	if err != nil {
		t.Fatalf("ConversationMessage() error = %v", err)
	}
	if exact.Text != "exact" {
		t.Errorf("Text = %q, want the exact ts match", exact.Text)
	}

	closest, err := client.ConversationMessage(ctx, "C1", "200.2")
	if err != nil {
		t.Fatalf("ConversationMessage() error = %v", err)
	}
	if closest.Text != "closest" {
		t.Errorf("Text = %q, want the first window entry", closest.Text)
	}

	_, err = client.ConversationMessage(ctx, "C1", "300.3")
	if !IsNotFound(err) {
		t.Errorf("ConversationMessage() error = %v, want not found", err)
	}
}

func TestConversationRepliesParams(t *testing.T) {
	var gotTS, gotInclusive, gotLimit string
	client, _ := newTestClient(t, routedHandler(methodCounter{}, map[string]http.HandlerFunc{
		"conversations.replies": func(w http.ResponseWriter, r *http.Request) {
			gotTS = r.FormValue("ts")
			gotInclusive = r.FormValue("inclusive")
			gotLimit = r.FormValue("limit")
			fmt.Fprint(w, `{"ok": true, "messages": [{"ts": "10.0"}, {"ts": "10.1"}]}`)
		},
	}))

	replies, err := client.ConversationReplies(context.Background(), "C1", "10.0", RepliesOptions{
		Limit:     2,
		Oldest:    "10.0",
		Inclusive: true,
	})
	if err != nil {
		t.Fatalf("ConversationReplies() error = %v", err)
	}
	if len(replies) != 2 {
		t.Errorf("replies = %d, want 2", len(replies))
	}
	if gotTS != "10.0" || gotInclusive != "true" || gotLimit != "2" {
		t.Errorf("params ts=%q inclusive=%q limit=%q", gotTS, gotInclusive, gotLimit)
	}
}

// messageList builds n trivial history entries.
func messageList(n int) string {
	out := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf(`{"ts": "%d.0"}`, 1000+i)
	}
	return out
}
