package constants

import (
	"time"
)

const (
	LogPrefixFmt = "%-20s "

	RequestTimeout  = 15 * time.Second
	FeedPingPeriod  = 30 * time.Second
	FeedReadTimeout = 2 * FeedPingPeriod

	//
	// RecentEventCapacity is the number of private feed events retained for inspection after they
	// have been dispatched.
	//
	RecentEventCapacity = 256
)
