package domain

type LayerStats struct {
	Layer      string  `json:"layer"`
	Checked    int64   `json:"checked"`
	Filtered   int64   `json:"filtered"`
	FilterRate float64 `json:"filterRate"`
}

func NewLayerStats(layer string, checked, filtered int64) LayerStats {
	s := LayerStats{Layer: layer, Checked: checked, Filtered: filtered}
	if checked > 0 {
		s.FilterRate = float64(filtered) / float64(checked)
	}
	return s
}

type CacheStats struct {
	Size      int     `json:"size"`
	Hits      uint64  `json:"hits"`
	Misses    uint64  `json:"misses"`
	Evictions uint64  `json:"evictions"`
	HitRate   float64 `json:"hitRate"`
}

type DedupStats struct {
	LayerStats
	Cache CacheStats `json:"cache"`
}

type RuleStats struct {
	LayerStats
	Name     string `json:"name"`
	Priority int    `json:"priority"`
	Enabled  bool   `json:"enabled"`
}

type DenoiseStats struct {
	Checked    int64      `json:"checked"`
	CacheHits  int64      `json:"cacheHits"`
	AICalls    int64      `json:"aiCalls"`
	Filtered   int64      `json:"filtered"`
	HitRate    float64    `json:"hitRate"`
	FilterRate float64    `json:"filterRate"`
	Cache      CacheStats `json:"cache"`
}

type FunnelStats struct {
	Collected int64        `json:"collected"`
	Dropped   int64        `json:"dropped"`
	Survived  int64        `json:"survived"`
	Ignore    LayerStats   `json:"ignore"`
	Dedup     DedupStats   `json:"dedup"`
	RuleLayer LayerStats   `json:"ruleEngine"`
	Rules     []RuleStats  `json:"rules"`
	Denoise   DenoiseStats `json:"denoise"`
}
