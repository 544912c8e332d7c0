package detector

import (
	"regexp"

	"github.com/ccollicutt/logreport/pkg/config"
	"github.com/ccollicutt/logreport/pkg/parser"
)

// AccessLogFormat is a known access log line layout that can be used as
// grammar.pattern.
type AccessLogFormat struct {
	Name       string          // Human-readable name
	PatternStr string          // Pattern string for config output
	Example    string          // Example line
	Grammar    *parser.Grammar // Set during init
}

// DefaultFormats returns the built-in access log formats to detect.
// More specific patterns come first.
func DefaultFormats() []*AccessLogFormat {
	formats := []*AccessLogFormat{
		{
			Name:       "nginx combined, empty referer",
			PatternStr: config.DefaultLogPattern,
			Example:    `93.180.71.3 - - [17/May/2015:08:05:32 +0000] "GET /downloads/product_1 HTTP/1.1" 304 0 "-" "Debian APT-HTTP/1.3 (0.8.16~exp12ubuntu10.21)"`,
		},
		{
			Name:       "nginx combined",
			PatternStr: `^(\S+) - (\S+) \[(.*?)\] "(.*?)" (\d{3}) (\d+) "[^"]*" "(.*?)"`,
			Example:    `10.0.0.1 - - [17/May/2015:08:05:32 +0000] "GET / HTTP/1.1" 200 612 "https://example.com/" "Mozilla/5.0"`,
		},
		{
			Name:       "common log format",
			PatternStr: `^(\S+) \S+ (\S+) \[(.*?)\] "(.*?)" (\d{3}) (\d+)()$`,
			Example:    `127.0.0.1 - frank [10/Oct/2000:13:55:36 -0700] "GET /apache_pb.gif HTTP/1.0" 200 2326`,
		},
	}

	for _, f := range formats {
		g, err := parser.NewGrammar(regexp.MustCompile(f.PatternStr), config.DefaultTimeLayout, config.DefaultDayLayout)
		if err != nil {
			panic("detector: invalid built-in format " + f.Name + ": " + err.Error())
		}
		f.Grammar = g
	}

	return formats
}
