package quality

// Score labels, highest bucket first
const (
	LabelExcellent     = "Excellent"
	LabelGood          = "Good"
	LabelFair          = "Fair"
	LabelPoor          = "Poor"
	LabelNeedAttention = "Need Attention"
)

// ScoreLabel buckets a health score into one of five labels
func ScoreLabel(score float64) string {
	switch {
	case score >= 90:
		return LabelExcellent
	case score >= 75:
		return LabelGood
	case score >= 60:
		return LabelFair
	case score >= 40:
		return LabelPoor
	default:
		return LabelNeedAttention
	}
}

// GaugeColor picks the bar colour for the score gauge
func GaugeColor(score float64) string {
	switch {
	case score >= 90:
		return "green"
	case score >= 70:
		return "orange"
	default:
		return "red"
	}
}
