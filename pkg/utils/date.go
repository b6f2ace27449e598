package utils

import (
	"log"
	"time"
)

// TimeNowColombo returns the current time in the Sri Lanka timezone.
func TimeNowColombo() time.Time {
	loc, err := time.LoadLocation("Asia/Colombo")
	if err != nil {
		log.Fatal("Failed to load location", err)
	}
	return time.Now().In(loc)
}

// PrettyDate formats a time for human-readable notification messages.
func PrettyDate(t time.Time) string {
	return t.Format("02 Jan 2006 15:04:05")
}
