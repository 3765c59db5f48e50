package classify

import (
	"encoding/json"
	"fmt"
	"os"
)

// LogisticRegression is a binary linear classifier over pooled features.
// The on-disk form is JSON: {"classes":["0","1"],"coef":[...],"intercept":b},
// the single-row coefficient layout scikit-learn exports for a two-class
// model.
type LogisticRegression struct {
	Classes   []string  `json:"classes"`
	Coef      []float64 `json:"coef"`
	Intercept float64   `json:"intercept"`
}

// LoadLogisticRegression reads classifier weights from path.
func LoadLogisticRegression(path string) (*LogisticRegression, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read classifier: %w", err)
	}
	var model LogisticRegression
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("failed to parse classifier: %w", err)
	}
	if len(model.Classes) != 2 {
		return nil, fmt.Errorf("classifier must define exactly 2 classes, got %d", len(model.Classes))
	}
	if len(model.Coef) == 0 {
		return nil, fmt.Errorf("classifier has no coefficients")
	}
	return &model, nil
}

// Predict returns the class on the decision side of w·x + b.
func (m *LogisticRegression) Predict(features []float32) (string, error) {
	if len(features) != len(m.Coef) {
		return "", fmt.Errorf("feature dimension %d does not match classifier width %d",
			len(features), len(m.Coef))
	}
	score := m.Intercept
	for i, w := range m.Coef {
		score += w * float64(features[i])
	}
	if score > 0 {
		return m.Classes[1], nil
	}
	return m.Classes[0], nil
}
