package services

import (
	"fmt"
	"strings"
	"unicode"

	"github-issues-notice/models"
)

// アタッチメントの固定文言
const (
	statsTitleFormat = "Stats for %d repositories"
	idleTitleFormat  = "Closed with no change over %d days"
	reactiveField    = "Reactive-Per"
	openIssuesField  = "Open Issues"
	openPullsField   = "Open Pull Requests"
)

// AttachmentBuilder 通知アタッチメント構築のヘルパー
type AttachmentBuilder struct {
	attachments []models.Attachment
}

// NewAttachmentBuilder 新しいビルダーを作成
func NewAttachmentBuilder() *AttachmentBuilder {
	return &AttachmentBuilder{
		attachments: make([]models.Attachment, 0),
	}
}

// AddStats 統計ブロックを追加
func (b *AttachmentBuilder) AddStats(repositories int, stats models.Stats, proactiveLabel string) *AttachmentBuilder {
	reactive := ComputeReactive(stats)
	b.attachments = append(b.attachments, models.Attachment{
		Title: fmt.Sprintf(statsTitleFormat, repositories),
		Fields: []models.AttachmentField{
			{Title: reactiveField, Value: ReactiveText(reactive, proactiveLabel), Short: false},
			{Title: openIssuesField, Value: fmt.Sprint(stats.IssuesTotal - stats.PullsTotal), Short: true},
			{Title: openPullsField, Value: fmt.Sprint(stats.PullsTotal), Short: true},
		},
	})
	return b
}

// AddLabel ラベルごとのブロックを追加（該当なしなら何もしない）
func (b *AttachmentBuilder) AddLabel(rule models.LabelRule) *AttachmentBuilder {
	if len(rule.MatchedItems) == 0 {
		return b
	}

	b.attachments = append(b.attachments, models.Attachment{
		Title: LabelTitle(rule),
		Color: rule.Color,
		Text:  strings.Join(rule.MatchedItems, "\n"),
	})
	return b
}

// AddIdle 自動クローズのブロックを追加（クローズなしなら何もしない）
func (b *AttachmentBuilder) AddIdle(idle models.Idle) *AttachmentBuilder {
	if len(idle.ClosedItems) == 0 {
		return b
	}

	b.attachments = append(b.attachments, models.Attachment{
		Title:  fmt.Sprintf(idleTitleFormat, idle.PeriodDays),
		Text:   strings.Join(idle.ClosedItems, "\n"),
		Footer: fmt.Sprintf("%d issues closed", len(idle.ClosedItems)),
	})
	return b
}

// Build アタッチメント配列を取得
func (b *AttachmentBuilder) Build() []models.Attachment {
	return b.attachments
}

// LabelTitle はラベルの表示名
// 件数がしきい値を超えたらルールのメッセージを付ける
func LabelTitle(rule models.LabelRule) string {
	title := LabelDisplayName(rule.Name)
	if len(rule.MatchedItems) > rule.Threshold && rule.Message != "" {
		title = fmt.Sprintf("%s -- %s", title, rule.Message)
	}
	return title
}

// LabelDisplayName は "-" を空白にして単語ごとに先頭を大文字にする
// すべて大文字の名前はそのまま
func LabelDisplayName(name string) string {
	h := strings.ReplaceAll(name, "-", " ")
	if strings.ToUpper(h) == h {
		return h
	}
	return Capitalize(h)
}

// Capitalize は各単語を先頭大文字・残り小文字にする
// 単語は英数字か "_" で始まり、次の空白までを含む。"(wip)" は "(Wip)" になる
func Capitalize(word string) string {
	if word == "" {
		return word
	}

	var sb strings.Builder
	inWord := false
	for _, r := range word {
		switch {
		case unicode.IsSpace(r):
			inWord = false
			sb.WriteRune(r)
		case inWord:
			sb.WriteRune(unicode.ToLower(r))
		case isWordRune(r):
			inWord = true
			sb.WriteRune(unicode.ToUpper(r))
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
