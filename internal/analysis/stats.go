package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"surveylens/internal/model"
)

// EmptyPlaceholder is rendered in place of an empty top-N list
const EmptyPlaceholder = "—"

// Frequencies counts each distinct value. The result is ordered by count
// descending; equal counts keep first-seen order.
func Frequencies(values []string) []model.FrequencyEntry {
	index := make(map[string]int, len(values))
	out := make([]model.FrequencyEntry, 0)
	for _, v := range values {
		if i, ok := index[v]; ok {
			out[i].Count++
			continue
		}
		index[v] = len(out)
		out = append(out, model.FrequencyEntry{Value: v, Count: 1})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})
	return out
}

// Percent returns round(count/total*100), or 0 when total is 0
func Percent(count, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}

// TopN renders the first n entries as "value — P%" joined by "; "
func TopN(freqs []model.FrequencyEntry, total, n int) string {
	if n > len(freqs) {
		n = len(freqs)
	}
	if n <= 0 {
		return EmptyPlaceholder
	}
	parts := make([]string, 0, n)
	for _, f := range freqs[:n] {
		parts = append(parts, fmt.Sprintf("%s — %d%%", f.Value, Percent(f.Count, total)))
	}
	return strings.Join(parts, "; ")
}

// Distribution renders every entry as "value: count" joined by ", "
func Distribution(freqs []model.FrequencyEntry) string {
	parts := make([]string, 0, len(freqs))
	for _, f := range freqs {
		parts = append(parts, fmt.Sprintf("%s: %d", f.Value, f.Count))
	}
	return strings.Join(parts, ", ")
}

// ComputeScaleStats returns mean, min and max, or nil for no values
func ComputeScaleStats(values []float64) *model.ScaleStats {
	if len(values) == 0 {
		return nil
	}
	st := model.ScaleStats{Min: values[0], Max: values[0]}
	sum := 0.0
	for _, v := range values {
		sum += v
		st.Min = math.Min(st.Min, v)
		st.Max = math.Max(st.Max, v)
	}
	st.Mean = sum / float64(len(values))
	return &st
}

// Observations is the flattened structured input of one question
type Observations struct {
	Values []string  // one per selected option or scale point
	Scales []float64 // numeric scale points only
}

// Total is the number of string observations
func (o Observations) Total() int {
	return len(o.Values)
}

// Flatten folds structured answers into observations. Answers without a
// structured value contribute nothing.
func Flatten(answers []model.Answer) Observations {
	var obs Observations
	for _, a := range answers {
		obs.Values = append(obs.Values, a.Value.Observations()...)
		if n, ok := a.Value.ScaleValue(); ok {
			obs.Scales = append(obs.Scales, n)
		}
	}
	return obs
}

// StatsReport is the deterministic summary of a structured question
type StatsReport struct {
	Content     string
	Frequencies []model.FrequencyEntry
	Total       int
	Scale       *model.ScaleStats // set for LINEAR_SCALE with numeric values
}

// QuestionReport renders the multi-line statistics report for a question
func QuestionReport(q model.Question, obs Observations, topN int) StatsReport {
	freqs := Frequencies(obs.Values)
	total := obs.Total()

	var b strings.Builder
	fmt.Fprintf(&b, "Question: «%s». Received %d answers.\n", q.Text, total)
	fmt.Fprintf(&b, "TOP options: %s.\n", TopN(freqs, total, topN))
	fmt.Fprintf(&b, "Full distribution: %s.", Distribution(freqs))

	report := StatsReport{Frequencies: freqs, Total: total}
	if q.Type == model.QuestionTypeLinearScale {
		if st := ComputeScaleStats(obs.Scales); st != nil {
			fmt.Fprintf(&b, " Mean: %.2f. Range: %s–%s.", st.Mean, model.FormatNumber(st.Min), model.FormatNumber(st.Max))
			report.Scale = st
		}
	}
	report.Content = b.String()
	return report
}

// FallbackLine renders the one-line stat used when a survey has no free text
func FallbackLine(q model.Question, obs Observations, topN int) string {
	freqs := Frequencies(obs.Values)
	line := fmt.Sprintf("• «%s»: %d answers. TOP: %s.", q.Text, obs.Total(), TopN(freqs, obs.Total(), topN))
	if q.Type == model.QuestionTypeLinearScale {
		if st := ComputeScaleStats(obs.Scales); st != nil {
			line += fmt.Sprintf(" Mean: %.2f.", st.Mean)
		}
	}
	return line
}
