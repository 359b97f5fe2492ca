// Package normalize flattens raw Slack payloads into the small, stable
// records the CLI renders and emits. Every record is pure data; nothing
// in this package touches the network.
package normalize

// UserRecord is a normalized workspace member.
type UserRecord struct {
	ID     string `json:"id"`
	Handle string `json:"handle"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

// ChatRecord is a normalized conversation summary.
type ChatRecord struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Name       string `json:"name"`
	IsMember   bool   `json:"is_member"`
	IsArchived bool   `json:"is_archived"`
	Unread     int    `json:"unread"`
	LastTS     string `json:"last_ts"`
	LastText   string `json:"last_text"`
	LastUser   string `json:"last_user"`
	Members    *int   `json:"members"`
	Topic      string `json:"topic"`
	Purpose    string `json:"purpose"`
}

// MessageRecord is a normalized message. ThreadTS always carries a
// value: the parent's ts for replies, the message's own ts otherwise.
type MessageRecord struct {
	ChatID         string `json:"chat_id"`
	TS             string `json:"ts"`
	ThreadTS       string `json:"thread_ts"`
	Author         string `json:"author"`
	AuthorID       string `json:"author_id"`
	Text           string `json:"text"`
	Subtype        string `json:"subtype"`
	ReplyCount     int    `json:"reply_count"`
	IsThreadParent bool   `json:"is_thread_parent"`
	Edited         bool   `json:"edited"`
}

// MeRecord is the caller's identity summary.
type MeRecord struct {
	Workspace string `json:"workspace"`
	URL       string `json:"url"`
	Team      string `json:"team"`
	TeamID    string `json:"team_id"`
	User      string `json:"user"`
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	TZ        string `json:"tz"`
	TokenOK   bool   `json:"token_ok"`
	CookieOK  bool   `json:"cookie_ok"`
}
