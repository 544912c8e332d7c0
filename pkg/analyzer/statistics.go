package analyzer

// Statistics is the result of aggregating the retained records of a run.
type Statistics struct {
	// TotalRequests is the number of retained records.
	TotalRequests int64

	// Resources counts records per full request line.
	Resources map[string]int64

	// Statuses counts records per HTTP status code.
	Statuses map[int]int64

	// IPAddresses counts records per remote address.
	IPAddresses map[string]int64

	// RequestsPerDay counts records per day key (dd/Mon/yyyy).
	RequestsPerDay map[string]int64

	// AvgResponseSize is the mean body size in bytes over all retained
	// records, zero-byte responses included.
	AvgResponseSize float64

	// ResponseSizePercentile95 is the nearest-rank 95th percentile of body sizes.
	ResponseSizePercentile95 float64

	// FileNames identifies the sources in read order: basenames for files,
	// verbatim URLs for remote sources.
	FileNames []string
}

func newStatistics() *Statistics {
	return &Statistics{
		Resources:      make(map[string]int64),
		Statuses:       make(map[int]int64),
		IPAddresses:    make(map[string]int64),
		RequestsPerDay: make(map[string]int64),
	}
}
