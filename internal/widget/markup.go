package widget

import "strings"

// Element ids and classes of the widget subtree.
const (
	WidgetID       = "anzhiyu-clock-widget"
	TimeID         = "clock-time"
	DateID         = "clock-date"
	LocationInfoID = "location-info"
	WeatherInfoID  = "weather-info"
	LoadingClass   = "clock-loading"
)

// Texts shown by the widget.
const (
	LocationLoadingText = "定位中..."
	LocationFailedText  = "定位失败"
	WeatherLoadingText  = "天气加载中..."
	WeatherFailedText   = "天气获取失败"
	dateLoadingText     = "加载中..."
	titleText           = "时钟 · 定位"
)

const (
	clockIconPath    = `M12 2C6.5 2 2 6.5 2 12s4.5 10 10 10 10-4.5 10-10S17.5 2 12 2zm0 18c-4.4 0-8-3.6-8-8s3.6-8 8-8 8 3.6 8 8-3.6 8-8 8zm.5-13h-1v6l5.2 3.2.8-1.3-4.5-2.7V7z`
	locationIconPath = `M12 2C8.1 2 5 5.1 5 9c0 5.3 7 13 7 13s7-7.8 7-13c0-3.9-3.1-7-7-7zm0 9.5c-1.4 0-2.5-1.1-2.5-2.5s1.1-2.5 2.5-2.5 2.5 1.1 2.5 2.5-1.1 2.5-2.5 2.5z`
	weatherIconPath  = `M19.5 12.5c0 1.3-.5 2.5-1.3 3.4-.8.9-1.9 1.4-3.1 1.4H7c-2.2 0-4-1.8-4-4 0-2.1 1.7-3.9 3.8-4 .3-2.4 2.3-4.3 4.7-4.3 2.1 0 3.9 1.4 4.5 3.3 1.3.3 2.5 1.2 2.5 2.8z`
)

func icon(path string) string {
	return `<svg class="clock-icon" viewBox="0 0 24 24"><path d="` + path + `"/></svg>`
}

// buildMarkup returns the widget subtree. The weather block is only present
// when weather is enabled.
func buildMarkup(enableWeather bool) string {
	var b strings.Builder
	b.WriteString(`<div class="clock-widget" id="` + WidgetID + `">`)
	b.WriteString(`<div class="clock-title">` + icon(clockIconPath) + titleText + `</div>`)
	b.WriteString(`<div class="clock-time" id="` + TimeID + `">00:00:00</div>`)
	b.WriteString(`<div class="clock-date" id="` + DateID + `">` + dateLoadingText + `</div>`)
	b.WriteString(`<div class="clock-location">` + icon(locationIconPath))
	b.WriteString(`<span id="` + LocationInfoID + `" class="` + LoadingClass + `">` + LocationLoadingText + `</span></div>`)
	if enableWeather {
		b.WriteString(`<div class="clock-weather">` + icon(weatherIconPath))
		b.WriteString(`<span id="` + WeatherInfoID + `" class="` + LoadingClass + `">` + WeatherLoadingText + `</span></div>`)
	}
	b.WriteString(`</div>`)
	return b.String()
}
