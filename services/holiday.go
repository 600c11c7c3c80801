package services

import (
	"fmt"
	"time"

	"github.com/yut-kt/goholiday"
	"github.com/yut-kt/goholiday/nholidays/jp"
)

// HolidayChecker は通知を止める日かどうかを判定する
type HolidayChecker interface {
	IsNonWorkingDay(t time.Time) bool
}

// 祝日カレンダーの地域
const (
	HolidayRegionNone  = ""
	HolidayRegionJapan = "jp"
)

// HolidayCalendar は土日と地域の祝日を非営業日とみなす
type HolidayCalendar struct {
	Region   string
	Location *time.Location
	holidays interface{ IsHoliday(time.Time) bool }
}

// NewHolidayCalendar は地域とタイムゾーンからカレンダーを作る
func NewHolidayCalendar(region string, loc *time.Location) (*HolidayCalendar, error) {
	if loc == nil {
		loc = time.UTC
	}

	c := &HolidayCalendar{Region: region, Location: loc}
	switch region {
	case HolidayRegionNone:
	case HolidayRegionJapan:
		c.holidays = goholiday.New(jp.New())
	default:
		return nil, fmt.Errorf("unsupported holiday region: %q", region)
	}
	return c, nil
}

// IsNonWorkingDay は設定タイムゾーンでの日付が土日または祝日か
func (c *HolidayCalendar) IsNonWorkingDay(t time.Time) bool {
	local := t.In(c.Location)

	switch local.Weekday() {
	case time.Saturday, time.Sunday:
		return true
	}

	return c.holidays != nil && c.holidays.IsHoliday(local)
}
