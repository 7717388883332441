package contents

// EngagementMetrics holds the two derived metrics attached to every
// listed item and to the aggregate. Derived metrics are computed at
// read time from the counters they describe and are never persisted,
// so they cannot go stale.
type EngagementMetrics struct {
	TotalEngagement int64
	EngagementRate  float64
}

// ComputeEngagement derives engagement metrics from raw counters.
// total engagement = likes + comments + shares
// engagement rate  = total engagement / views, or 0 when views is 0
// The listing path calls this per item, the stats path calls it once
// over the aggregate sums; both always use this one function.
func ComputeEngagement(likes, comments, shares, views int64) EngagementMetrics {
	total := likes + comments + shares
	var rate float64
	if views > 0 {
		rate = float64(total) / float64(views)
	}
	return EngagementMetrics{
		TotalEngagement: total,
		EngagementRate:  rate,
	}
}
