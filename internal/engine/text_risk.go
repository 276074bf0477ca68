package engine

import "ProctorGuard/internal/entity"

// TextRisk maps a plagiarism score and an AI-content score to a severity. Both
// cut points are strict: a score equal to a cut point does not cross it.
func (c *Classifier) TextRisk(plagiarismScore, aiScore float64) entity.Severity {
	switch {
	case plagiarismScore > c.thresholds.TextHighCut || aiScore > c.thresholds.TextHighCut:
		return entity.SeverityHigh
	case plagiarismScore > c.thresholds.TextMediumCut || aiScore > c.thresholds.TextMediumCut:
		return entity.SeverityMedium
	default:
		return entity.SeverityLow
	}
}
