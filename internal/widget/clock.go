package widget

import (
	"fmt"
	"time"
)

// weekdays is indexed by time.Weekday, Sunday first.
var weekdays = [7]string{"星期日", "星期一", "星期二", "星期三", "星期四", "星期五", "星期六"}

// FormatTime renders t as zero-padded HH:MM:SS.
func FormatTime(t time.Time) string {
	return t.Format("15:04:05")
}

// FormatDate renders t as YYYY年MM月DD日 followed by the weekday name.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%04d年%02d月%02d日 %s", t.Year(), int(t.Month()), t.Day(), weekdays[t.Weekday()])
}

// renderClock writes the time and date for t. Nothing is written unless both
// target elements exist.
func renderClock(doc Document, t time.Time) {
	if !doc.Exists(TimeID) || !doc.Exists(DateID) {
		return
	}
	doc.SetText(TimeID, FormatTime(t))
	doc.SetText(DateID, FormatDate(t))
}
