package services

import "time"

const isoDateLayout = "2006-01-02"

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

const secondsPerDay = 24 * 60 * 60

// CalendarDaysBetween counts calendar days from -> to using only the date
// components, so DST transitions between the two never shift the result.
// Unix seconds are used instead of Sub because time.Duration saturates
// after about 292 years.
func CalendarDaysBetween(from time.Time, to time.Time) int {
	fromYear, fromMonth, fromDay := from.Date()
	toYear, toMonth, toDay := to.Date()
	start := time.Date(fromYear, fromMonth, fromDay, 0, 0, 0, 0, time.UTC)
	end := time.Date(toYear, toMonth, toDay, 0, 0, 0, 0, time.UTC)
	return int((end.Unix() - start.Unix()) / secondsPerDay)
}

func FormatISODate(value time.Time) string {
	return value.Format(isoDateLayout)
}
