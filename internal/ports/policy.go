package ports

import "time"

type Policy struct {
	SampleInterval time.Duration `yaml:"sample_interval"`
	CPUWindow      time.Duration `yaml:"cpu_window"`

	MaxHistoryEntries int `yaml:"max_entries"`
	TrimSlack         int `yaml:"trim_slack"` // extra lines tolerated on disk before a rewrite

	BufferLen    int `yaml:"buffer_len"`
	MaxBatchSize int `yaml:"max_batch_size"`
}
