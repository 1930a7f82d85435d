package http

import (
	"strings"
	"testing"
)

func TestStationScriptGuardsRelease(t *testing.T) {
	raw, err := assets.ReadFile("assets/app.js")
	if err != nil {
		t.Fatalf("read app.js: %v", err)
	}
	js := string(raw)
	if !strings.Contains(js, `window.confirm("Release this bin?")`) {
		t.Fatal("release submit is missing its confirmation guard")
	}
	if !strings.Contains(js, `form.getAttribute("action") !== "/kiosk/station/release"`) {
		t.Fatal("release guard is not delegated to the re-rendered station forms")
	}
	if !strings.Contains(js, "station_friendly_name") {
		t.Fatal("station cards do not render the station name")
	}
}
