package output

var statusText = map[int]string{
	200: "OK",
	206: "Partial Content",
	304: "Not Modified",
	403: "Forbidden",
	404: "Not Found",
	416: "Range Not Satisfiable",
	500: "Internal Server Error",
}

// StatusText returns the reason phrase shown for a status code, or
// "Unknown" for codes outside the fixed table.
func StatusText(code int) string {
	if text, ok := statusText[code]; ok {
		return text
	}
	return "Unknown"
}
