package http

import (
	"net/url"
	"slices"
	"strings"

	"expensetracker/internal/source"
)

// Chart kinds offered for the category breakdown.
const (
	chartPie = "pie"
	chartBar = "bar"
)

// viewQuery is the state of the report page carried in the query string.
type viewQuery struct {
	Mode       source.Mode
	Upload     string
	Categories []string
	Chart      string
}

// parseQuery reads mode, upload handle, selected categories and chart kind.
// An unknown mode is reported while the other fields are still filled in.
func parseQuery(q url.Values) (viewQuery, error) {
	vq := viewQuery{
		Upload: sanitizeInput(q.Get("upload")),
		Chart:  chartPie,
	}
	if strings.EqualFold(strings.TrimSpace(q.Get("chart")), chartBar) {
		vq.Chart = chartBar
	}
	// category names are matched exactly, so only control characters go
	for _, c := range q["category"] {
		c = stripControl(c)
		if strings.TrimSpace(c) != "" && !slices.Contains(vq.Categories, c) {
			vq.Categories = append(vq.Categories, c)
		}
	}

	mode, err := source.ParseMode(q.Get("mode"))
	if err != nil {
		vq.Mode = source.ModeUpload
		return vq, err
	}
	vq.Mode = mode
	return vq, nil
}

// values encodes the query back, omitting defaults.
func (vq viewQuery) values() url.Values {
	v := url.Values{}
	v.Set("mode", vq.Mode.String())
	if vq.Upload != "" && vq.Mode == source.ModeUpload {
		v.Set("upload", vq.Upload)
	}
	for _, c := range vq.Categories {
		v.Add("category", c)
	}
	if vq.Chart != chartPie {
		v.Set("chart", vq.Chart)
	}
	return v
}

// link returns path with the encoded query appended.
func (vq viewQuery) link(path string) string {
	return path + "?" + vq.values().Encode()
}

// sanitizeInput removes potentially dangerous characters and trims whitespace.
func sanitizeInput(s string) string {
	return strings.TrimSpace(stripControl(s))
}

// stripControl removes control characters except tab, newline and carriage return.
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
