package slack

// Raw payload shapes as Slack returns them. Fields that matter only
// when present are pointers so absence survives decoding.

// AuthIdentity is the result of auth.test.
type AuthIdentity struct {
	URL    string `json:"url"`
	Team   string `json:"team"`
	User   string `json:"user"`
	TeamID string `json:"team_id"`
	UserID string `json:"user_id"`
}

// UserProfile carries the profile subset the CLI consumes.
type UserProfile struct {
	DisplayName string `json:"display_name"`
	RealName    string `json:"real_name"`
	Email       string `json:"email"`
}

// User is a workspace member from users.list or users.info.
type User struct {
	ID       string      `json:"id"`
	Name     string      `json:"name"`
	Deleted  bool        `json:"deleted"`
	IsBot    bool        `json:"is_bot"`
	Presence string      `json:"presence"`
	TZ       string      `json:"tz"`
	Profile  UserProfile `json:"profile"`
}

// ConversationTopic holds a channel topic or purpose value.
type ConversationTopic struct {
	Value string `json:"value"`
}

// Conversation is a channel, private group, DM, or group DM.
// IsMember is a pointer because Slack omits it for conversation kinds
// where membership is implied; absent means member.
type Conversation struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	IsChannel          bool              `json:"is_channel"`
	IsGroup            bool              `json:"is_group"`
	IsIM               bool              `json:"is_im"`
	IsMPIM             bool              `json:"is_mpim"`
	IsPrivate          bool              `json:"is_private"`
	IsArchived         bool              `json:"is_archived"`
	IsMember           *bool             `json:"is_member"`
	User               string            `json:"user"`
	NumMembers         *int              `json:"num_members"`
	Topic              ConversationTopic `json:"topic"`
	Purpose            ConversationTopic `json:"purpose"`
	LastRead           string            `json:"last_read"`
	Latest             *Message          `json:"latest"`
	UnreadCount        *int              `json:"unread_count"`
	UnreadCountDisplay *int              `json:"unread_count_display"`
}

// Member reports membership, defaulting to true when Slack omits the field.
func (c Conversation) Member() bool {
	if c.IsMember == nil {
		return true
	}
	return *c.IsMember
}

// BlockText is the text node of a layout block or one of its fields.
type BlockText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Block is a message layout block. Only the text content is consumed.
type Block struct {
	Type   string      `json:"type"`
	Text   *BlockText  `json:"text"`
	Fields []BlockText `json:"fields"`
}

// File is an attachment stub. Files are never downloaded; the metadata
// feeds the text fallback line.
type File struct {
	Name       string   `json:"name"`
	Title      string   `json:"title"`
	Filetype   string   `json:"filetype"`
	PrettyType string   `json:"pretty_type"`
	Size       *float64 `json:"size"`
}

// EditedInfo marks a message as edited.
type EditedInfo struct {
	User string `json:"user"`
	TS   string `json:"ts"`
}

// Message is a raw history or reply entry.
type Message struct {
	Type       string      `json:"type"`
	Subtype    string      `json:"subtype"`
	TS         string      `json:"ts"`
	ThreadTS   string      `json:"thread_ts"`
	User       string      `json:"user"`
	BotID      string      `json:"bot_id"`
	Text       string      `json:"text"`
	Blocks     []Block     `json:"blocks"`
	Files      []File      `json:"files"`
	ReplyCount int         `json:"reply_count"`
	Edited     *EditedInfo `json:"edited"`
}

// ResponseMetadata carries the pagination cursor.
type ResponseMetadata struct {
	NextCursor string `json:"next_cursor"`
}

type apiEnvelope struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}
