// Package predict wraps the externally trained diabetes-risk classifier and
// its optional feature scaler. Both artifacts are loaded once at startup and
// are read-only afterwards, so a single Predictor is safe for concurrent use
// by every request handler.
package predict

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
)

// FeatureCount is the width of the model's input vector. The trained model
// consumes exactly [glucose, bloodpressure, bmi, pedigree] in that order;
// age and sex are collected by the patient form but are not features.
const FeatureCount = 4

// LabelUnavailable is returned when no classifier is loaded. Prediction is
// a best-effort enrichment and must never fail patient creation.
const LabelUnavailable = -1

// modelArtifact is the on-disk form of the trained linear classifier:
// a weight per feature plus an intercept. The decision rule is
// label = 1 when w·x + b > 0, else 0.
type modelArtifact struct {
	Weights   []float64 `json:"weights"`
	Intercept float64   `json:"intercept"`
}

// scalerArtifact is the on-disk form of the standard scaler fitted during
// training: per-feature mean and scale.
type scalerArtifact struct {
	Mean  []float64 `json:"mean"`
	Scale []float64 `json:"scale"`
}

// Predictor holds the immutable classifier/scaler pair. A nil model means
// the artifact was missing or malformed at startup; Predict then always
// answers LabelUnavailable.
type Predictor struct {
	model  *modelArtifact
	scaler *scalerArtifact
}

// Load reads the classifier and scaler artifacts from disk. A missing or
// unreadable classifier is logged and tolerated: the returned Predictor is
// still usable and degrades to LabelUnavailable. A missing scaler only
// means the raw feature vector is classified unscaled, matching how the
// model may have been trained without preprocessing.
func Load(modelPath, scalerPath string) *Predictor {
	p := &Predictor{}

	if modelPath == "" {
		log.Printf("predict: no classifier configured; predictions disabled")
		return p
	}
	m, err := loadModel(modelPath)
	if err != nil {
		log.Printf("predict: classifier %s not loaded: %v; predictions disabled", modelPath, err)
		return p
	}
	p.model = m
	log.Printf("predict: classifier loaded from %s", modelPath)

	if scalerPath == "" {
		return p
	}
	s, err := loadScaler(scalerPath)
	if err != nil {
		// The model may legitimately have been trained on raw features.
		log.Printf("predict: scaler %s not loaded: %v; using raw features", scalerPath, err)
		return p
	}
	p.scaler = s
	log.Printf("predict: scaler loaded from %s", scalerPath)
	return p
}

// Loaded reports whether a classifier is available.
func (p *Predictor) Loaded() bool { return p != nil && p.model != nil }

// Predict classifies one patient. The feature order is fixed:
// [glucose, bloodpressure, bmi, pedigree]. When a scaler is configured the
// vector is standardized first; when no classifier is loaded the label is
// LabelUnavailable.
func (p *Predictor) Predict(glucose, bloodPressure, bmi, pedigree float64) int {
	if !p.Loaded() {
		return LabelUnavailable
	}
	x := [FeatureCount]float64{glucose, bloodPressure, bmi, pedigree}
	if p.scaler != nil {
		for i := range x {
			x[i] = (x[i] - p.scaler.Mean[i]) / p.scaler.Scale[i]
		}
	}
	z := p.model.Intercept
	for i := range x {
		z += p.model.Weights[i] * x[i]
	}
	if z > 0 {
		return 1
	}
	return 0
}

func loadModel(path string) (*modelArtifact, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m modelArtifact
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	if len(m.Weights) != FeatureCount {
		return nil, fmt.Errorf("expected %d weights, got %d", FeatureCount, len(m.Weights))
	}
	return &m, nil
}

func loadScaler(path string) (*scalerArtifact, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s scalerArtifact
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	if len(s.Mean) != FeatureCount || len(s.Scale) != FeatureCount {
		return nil, errors.New("scaler mean/scale length mismatch")
	}
	for _, v := range s.Scale {
		if v == 0 {
			return nil, errors.New("scaler contains zero scale")
		}
	}
	return &s, nil
}
