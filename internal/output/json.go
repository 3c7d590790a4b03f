package output

import (
	"encoding/json"
)

// JSONFormatter prints one JSON object per input (JSON Lines).
type JSONFormatter struct {
	mode Mode
}

// NewJSONFormatter creates a JSONFormatter. The rendered output is included
// only for modes that produce one.
func NewJSONFormatter(mode Mode) *JSONFormatter {
	return &JSONFormatter{mode: mode}
}

type jsonResult struct {
	Type     string   `json:"type"`
	File     string   `json:"file,omitempty"`
	Ranges   [][2]int `json:"ranges"`
	Matches  []string `json:"matches"`
	Output   *string  `json:"output,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func (f *JSONFormatter) Format(buf []byte, result Result, multiFile bool) []byte {
	if result.Err != nil || result.Binary {
		return buf
	}

	jr := jsonResult{
		Type:     "result",
		File:     result.FilePath,
		Ranges:   make([][2]int, len(result.Ranges)),
		Matches:  result.Strings,
		Warnings: result.Warnings,
	}
	for i, r := range result.Ranges {
		jr.Ranges[i] = [2]int{r.First, r.Last}
	}
	if jr.Matches == nil {
		jr.Matches = []string{}
	}
	if f.mode.Rendered() {
		jr.Output = &result.Output
	}

	data, _ := json.Marshal(jr)
	buf = append(buf, data...)
	buf = append(buf, '\n')
	return buf
}

var _ Formatter = (*JSONFormatter)(nil)
