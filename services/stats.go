package services

import (
	"fmt"
	"math"

	"github-issues-notice/models"
)

// CompletePercent は proactive な Issue がない状態
const CompletePercent = 100

// Reactive はリアクティブ率と表示用の絵文字
type Reactive struct {
	Percent int
	Emoji   string
}

// Complete は数値ではなく専用メッセージで表示する状態か
func (r Reactive) Complete() bool {
	return r.Percent == CompletePercent
}

var reactiveEmojis = []struct {
	over  int
	emoji string
}{
	{90, ":skull:"},
	{80, ":fire:"},
	{70, ":jack_o_lantern:"},
	{60, ":space_invader:"},
	{50, ":surfer:"},
	{40, ":palm_tree:"},
	{30, ":helicopter:"},
}

// ComputeReactive はリアクティブ率を計算する
// 分母は PR を除いた open Issue 数。分母が 0 以下なら 100 とする
func ComputeReactive(s models.Stats) Reactive {
	proactive := s.ProactiveTotal
	denominator := proactive + (s.IssuesTotal - s.PullsTotal - proactive)

	percent := CompletePercent
	if denominator > 0 {
		percent = CompletePercent - int(math.Floor(float64(proactive)/float64(denominator)*100))
	}
	if percent < 0 {
		percent = 0
	}

	return Reactive{Percent: percent, Emoji: reactiveEmoji(percent)}
}

func reactiveEmoji(percent int) string {
	if percent == CompletePercent {
		return ":checkered_flag:"
	}
	for _, e := range reactiveEmojis {
		if percent > e.over {
			return e.emoji
		}
	}
	return ":rocket:"
}

// ReactiveText はリアクティブ率の表示文字列
func ReactiveText(r Reactive, proactiveLabel string) string {
	if r.Complete() {
		return fmt.Sprintf("%s No proactive issues yet. Let's label one with `%s`!", r.Emoji, proactiveLabel)
	}
	return fmt.Sprintf("%d%% %s", r.Percent, r.Emoji)
}
