package models

// AttachmentField はアタッチメント内の項目
type AttachmentField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// Attachment はチャットに投稿するアタッチメント1ブロック
type Attachment struct {
	Title  string            `json:"title"`
	Color  string            `json:"color"`
	Text   string            `json:"text"`
	Fields []AttachmentField `json:"fields,omitempty"`
	Footer string            `json:"footer,omitempty"`
}

// Message は投稿するメッセージ
type Message struct {
	Username    string
	IconEmoji   string
	Text        string
	Attachments []Attachment
}

// ChannelMessage はチャンネル履歴の1件
type ChannelMessage struct {
	Username string
	Text     string
	TS       string
}
