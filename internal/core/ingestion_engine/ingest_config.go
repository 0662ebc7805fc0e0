package ingestion_engine

// IngestConfig tunes the streaming pipeline.
//
// Workers:    annotation calls allowed in flight at once; 1 keeps the run fully sequential.
type IngestConfig struct {
	Workers int
}

func (c *IngestConfig) workers() int {
	if c == nil || c.Workers < 1 {
		return 1
	}
	return c.Workers
}
