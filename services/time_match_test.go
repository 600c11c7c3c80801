package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMatchesTime(t *testing.T) {
	jst, err := time.LoadLocation("Asia/Tokyo")
	assert.NoError(t, err)

	tests := []struct {
		name     string
		timeSpec string
		now      time.Time
		expected bool
	}{
		{
			name:     "時のみ指定で00分に一致",
			timeSpec: "09",
			now:      time.Date(2024, 1, 10, 9, 0, 0, 0, jst),
			expected: true,
		},
		{
			name:     "時のみ指定で00分以外は不一致",
			timeSpec: "09",
			now:      time.Date(2024, 1, 10, 9, 30, 0, 0, jst),
			expected: false,
		},
		{
			name:     "時分指定で一致",
			timeSpec: "1830",
			now:      time.Date(2024, 1, 10, 18, 30, 0, 0, jst),
			expected: true,
		},
		{
			name:     "時分指定で分が違う",
			timeSpec: "1830",
			now:      time.Date(2024, 1, 10, 18, 31, 0, 0, jst),
			expected: false,
		},
		{
			name:     "ゼロ埋めされていない時は不一致",
			timeSpec: "9",
			now:      time.Date(2024, 1, 10, 9, 0, 0, 0, jst),
			expected: false,
		},
		{
			name:     "深夜0時",
			timeSpec: "00",
			now:      time.Date(2024, 1, 10, 0, 0, 0, 0, jst),
			expected: true,
		},
		{
			name:     "秒は無視される",
			timeSpec: "0905",
			now:      time.Date(2024, 1, 10, 9, 5, 59, 0, jst),
			expected: true,
		},
		{
			name:     "5文字は不一致",
			timeSpec: "09:00",
			now:      time.Date(2024, 1, 10, 9, 0, 0, 0, jst),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MatchesTime(tt.timeSpec, tt.now))
		})
	}
}

func TestMatchesTime_AllHoursAndMinutes(t *testing.T) {
	base := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	for h := 0; h < 24; h++ {
		for m := 0; m < 60; m += 15 {
			now := base.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)

			assert.True(t, MatchesTime(fmt.Sprintf("%02d%02d", h, m), now))
			assert.Equal(t, m == 0, MatchesTime(fmt.Sprintf("%02d", h), now))
			assert.False(t, MatchesTime(fmt.Sprintf("%02d%02d", (h+1)%24, m), now))
		}
	}
}
