package common

import "time"

const (
	// RedisKeyOptionAlert is the dedup fast-path key for an option alert:
	// option_alert:{position key}:{action}.
	RedisKeyOptionAlert = "option_alert:%s:%s"

	// AlertDedupWindow is the trailing window within which an identical
	// alert for the same position/action pair is suppressed.
	AlertDedupWindow = 24 * time.Hour
)
