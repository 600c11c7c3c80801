package services

import (
	"fmt"
	"time"
)

const (
	hourSpecLength       = 2 // HH
	hourMinuteSpecLength = 4 // HHMM
)

// MatchesTime は時刻指定 (HH / HHMM) が now の時・分と一致するか判定する
// HH のみの場合、分は "00" とみなす
func MatchesTime(timeSpec string, now time.Time) bool {
	hour, minute, ok := splitTimeSpec(timeSpec)
	if !ok {
		return false
	}

	return hour == fmt.Sprintf("%02d", now.Hour()) && minute == fmt.Sprintf("%02d", now.Minute())
}

// splitTimeSpec は時刻指定を時と分の文字列に分割する
func splitTimeSpec(timeSpec string) (string, string, bool) {
	switch len(timeSpec) {
	case hourSpecLength:
		return timeSpec, "00", true
	case hourMinuteSpecLength:
		return timeSpec[:hourSpecLength], timeSpec[hourSpecLength:], true
	default:
		return "", "", false
	}
}
