package ingest

import (
	"time"

	"wallfetch/internal/vkapi"
)

func day(y int, m time.Month, d int) int64 {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC).Unix()
}

func wallItem(id int64, date int64) vkapi.WallItem {
	return vkapi.WallItem{ID: id, OwnerID: -1, Date: date}
}

func testOptions() Options {
	o := DefaultOptions()
	o.Location = time.UTC
	return o
}
