package widget

import (
	"testing"

	"github.com/i474232898/clock-widget/internal/dom"
)

func TestBuildMarkup(t *testing.T) {
	for _, enabled := range []bool{true, false} {
		doc, err := dom.ParseString(`<html><head></head><body><div id="aside"></div></body></html>`)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if ok, err := doc.PrependTo(dom.ByID("aside"), buildMarkup(enabled)); err != nil || !ok {
			t.Fatalf("insert markup: ok=%v err=%v", ok, err)
		}

		for _, id := range []string{WidgetID, TimeID, DateID, LocationInfoID} {
			if !doc.Exists(id) {
				t.Fatalf("enabled=%v: missing #%s", enabled, id)
			}
		}
		if doc.Exists(WeatherInfoID) != enabled {
			t.Fatalf("enabled=%v: weather block presence mismatch", enabled)
		}
		if got, _ := doc.Text(TimeID); got != "00:00:00" {
			t.Fatalf("unexpected initial time %q", got)
		}
		if !doc.HasClass(LocationInfoID, LoadingClass) {
			t.Fatal("location starts in loading state")
		}
		if got, _ := doc.Text(LocationInfoID); got != LocationLoadingText {
			t.Fatalf("unexpected initial location text %q", got)
		}
	}
}
