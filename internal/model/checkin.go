package model

import "math"

// Record is one raw check-in row as seen by the classification stage.
// Row is the zero-based position in the source table.
type Record struct {
	ID      string
	Message string
	Row     int
}

// ClassifiedRecord is the subset of a classified row used for entity aggregation.
// Missing numeric values are NaN.
type ClassifiedRecord struct {
	Name      string
	Sentiment string
	Tag       string
	Intensity float64
	Lon       float64
	Lat       float64
}

// HasIntensity reports whether the intensity value was present and numeric.
func (r ClassifiedRecord) HasIntensity() bool {
	return !math.IsNaN(r.Intensity)
}
