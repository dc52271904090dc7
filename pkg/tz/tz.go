package tz

import (
	"time"

	// Zone data for images without /usr/share/zoneinfo.
	_ "time/tzdata"
)

// Paris is the Europe/Paris location (CET/CEST) used for dates shown to users.
var Paris = mustLoad("Europe/Paris")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic("tz: load " + name + ": " + err.Error())
	}
	return loc
}
